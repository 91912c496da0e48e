package games

import "strings"

// lunaFantasyNames holds the Luna Fantasy base names (owned cards carry a
// "Luna " prefix on top of these). Collected from a scan of 534 users' card
// collections.
var lunaFantasyNames = map[string]struct{}{
	"Alchemist": {}, "Archer": {}, "Assassin": {}, "Baby Wisp": {}, "Bard": {},
	"Battlemage": {}, "Blacksmith": {}, "Blademaster": {}, "Builder": {},
	"Centaur": {}, "Champion": {}, "Chimera": {}, "Clown": {}, "Cobra": {},
	"Cook": {}, "Cyclops": {}, "Dark Wizard": {}, "Deer": {}, "Direwolf": {},
	"Draconis": {}, "Dragon": {}, "Dragonslayer": {}, "Druid": {},
	"Executioner": {}, "Farmer": {}, "Forager": {}, "Ghoul": {}, "Giant": {},
	"Goblin": {}, "Golem": {}, "Grandmaster": {}, "Griffin": {}, "Guard": {},
	"Guardian": {}, "Harbinger": {}, "Healer": {}, "Herald": {}, "Hound": {},
	"Hunter": {}, "Imp": {}, "King": {}, "Knight": {}, "Lycan": {}, "Lynx": {},
	"Mad Crow": {}, "Medusa": {}, "Mercenary": {}, "Mermaid": {}, "Midgets": {},
	"Monk": {}, "Moonveil": {}, "Ogre": {}, "Orc": {}, "Outcast": {}, "Owl": {},
	"Pacifier": {}, "Paladin": {}, "Panthera": {}, "Peacock": {}, "Pegasus": {},
	"Phantom": {}, "Phoenix": {}, "Prince": {}, "Princess": {}, "Prisoner": {},
	"Queen": {}, "Rabbit": {}, "Revenant": {}, "Sage": {}, "Seer": {},
	"Sentinel": {}, "Shadow": {}, "Silverbird": {}, "Siren": {},
	"Skull-Crusher": {}, "Specter": {}, "Sphinx": {}, "Thief": {}, "Toad": {},
	"Trickster": {}, "Twins": {}, "Umbra": {}, "Umbreon": {}, "Vampire": {},
	"Vanguard": {}, "Villagers": {}, "Viperclaw": {}, "Vulmir": {},
	"Wanderer": {}, "Warlord": {}, "Werewolf": {}, "Wisp": {}, "Witch": {},
	"Wizard": {}, "Wraith": {}, "Yonko": {},
}

// bumperNames enumerates the Bumper mini-game cards as they appear in owned
// collections.
var bumperNames = map[string]struct{}{
	"Bumper 1": {}, "Bumper 2": {}, "Bumper 3": {},
}

// catalogToLunaAliases maps catalog display names (name.en) to the Luna
// Fantasy base name users actually see on their cards. Some catalog names
// diverged from the bot's naming over time.
var catalogToLunaAliases = map[string]string{
	"Silver Bird":   "Silverbird",
	"Battle Mage":   "Battlemage",
	"Prime Zoldar":  "Zoldar",
	"Luna Druin":    "Druid",
	"Dragon Slayer": "Dragonslayer",
	"Luneth & Cavor": "Twins",
	"Luna King":     "King",
	"Luna Queen":    "Queen",
}

// catalogToGrandAliases maps catalog display names to their Grand Fantasy
// in-game spelling.
var catalogToGrandAliases = map[string]string{
	"Abyss Colossus":        "Abyssal Colossus",
	"Astral Bringer":        "Astral Harbinger",
	"Null Bringer":          "Nullbringer",
	"Rune Breaker":          "Runebreaker",
	"Saber Tooth":           "Sabertooth",
	"Silver Beach Guardian": "Silverbeach Guardian",
	"Corrupted Sentinel":    "The Corrupted Sentinel",
}

// CatalogClassifier resolves catalog card names through the base-name set and
// the alias tables. It is the authoritative rule set used by the backfill to
// persist the game field.
type CatalogClassifier struct{}

// Classify maps a catalog display name to its bucket. First match wins:
// Luna base name, Luna alias, Bumper, Grand Fantasy alias, then the Grand
// Fantasy default.
func (CatalogClassifier) Classify(cardName string) Bucket {
	if _, ok := lunaFantasyNames[cardName]; ok {
		return BucketLunaFantasy
	}
	if alias, ok := catalogToLunaAliases[cardName]; ok {
		if _, ok := lunaFantasyNames[alias]; ok {
			return BucketLunaFantasy
		}
	}
	if cardName == "Bumper" {
		return BucketBumper
	}
	if _, ok := bumperNames[cardName]; ok {
		return BucketBumper
	}
	if _, ok := catalogToGrandAliases[cardName]; ok {
		return BucketGrandFantasy
	}
	return BucketGrandFantasy
}

// PrefixClassifier is the looser rule set applied to user-owned card names at
// request time: a "Luna " prefix means Luna Fantasy, a "Bumper" prefix means
// Bumper, anything else is Grand Fantasy.
//
// It does not consult the alias tables, so a Luna Fantasy card whose owned
// name lacks the "Luna " prefix lands in Grand Fantasy here even though the
// CatalogClassifier buckets it correctly. The two rule sets are kept separate
// on purpose; which one is authoritative for the live grouping is still an
// open product question, and unifying them would move cards between profile
// tabs.
type PrefixClassifier struct{}

func (PrefixClassifier) Classify(cardName string) Bucket {
	switch {
	case strings.HasPrefix(cardName, "Luna "):
		return BucketLunaFantasy
	case strings.HasPrefix(cardName, "Bumper"):
		return BucketBumper
	default:
		return BucketGrandFantasy
	}
}

// LunaBaseName strips the "Luna " prefix from an owned card name, returning
// the base name and whether the prefix was present.
func LunaBaseName(cardName string) (string, bool) {
	base, ok := strings.CutPrefix(cardName, "Luna ")
	return base, ok
}
