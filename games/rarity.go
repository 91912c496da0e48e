package games

import "strings"

// rarityOrder is the display ordering for card rarities, most common first.
var rarityOrder = []string{
	"common", "rare", "epic", "unique", "legendary", "secret", "forbidden", "mythical",
}

// RarityOrder returns a copy of the rarity labels in ascending display order.
func RarityOrder() []string {
	out := make([]string, len(rarityOrder))
	copy(out, rarityOrder)
	return out
}

// RarityIndex returns the sort position of a rarity label, case-insensitive.
// Unknown rarities sort after every known one.
func RarityIndex(rarity string) int {
	r := strings.ToLower(rarity)
	for i, known := range rarityOrder {
		if r == known {
			return i
		}
	}
	return len(rarityOrder)
}
