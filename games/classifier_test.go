package games

import "testing"

func TestCatalogClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		cardName string
		want     Bucket
	}{
		{
			name:     "direct luna base name",
			cardName: "Wizard",
			want:     BucketLunaFantasy,
		},
		{
			name:     "luna alias resolving into base set",
			cardName: "Luna King",
			want:     BucketLunaFantasy,
		},
		{
			name:     "luna alias with differing spelling",
			cardName: "Battle Mage",
			want:     BucketLunaFantasy,
		},
		{
			name:     "plain bumper card",
			cardName: "Bumper",
			want:     BucketBumper,
		},
		{
			name:     "numbered bumper card",
			cardName: "Bumper 2",
			want:     BucketBumper,
		},
		{
			name:     "grand fantasy alias",
			cardName: "Abyss Colossus",
			want:     BucketGrandFantasy,
		},
		{
			name:     "unlisted name falls back to grand fantasy",
			cardName: "Some Unlisted Monster",
			want:     BucketGrandFantasy,
		},
		{
			name:     "empty name falls back to grand fantasy",
			cardName: "",
			want:     BucketGrandFantasy,
		},
	}

	c := CatalogClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.cardName); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.cardName, got, tt.want)
			}
		})
	}
}

func TestCatalogClassifier_Deterministic(t *testing.T) {
	c := CatalogClassifier{}
	names := []string{"Wizard", "Luna King", "Bumper 3", "Nobody"}
	for _, name := range names {
		first := c.Classify(name)
		for i := 0; i < 3; i++ {
			if got := c.Classify(name); got != first {
				t.Fatalf("Classify(%q) not deterministic: %v then %v", name, first, got)
			}
		}
		if !first.Valid() {
			t.Fatalf("Classify(%q) = %v, not a known bucket", name, first)
		}
	}
}

func TestPrefixClassifier_Classify(t *testing.T) {
	tests := []struct {
		name     string
		cardName string
		want     Bucket
	}{
		{
			name:     "luna prefix",
			cardName: "Luna Wizard",
			want:     BucketLunaFantasy,
		},
		{
			name:     "luna prefix not in any alias table",
			cardName: "Luna Nonexistent",
			want:     BucketLunaFantasy,
		},
		{
			name:     "bumper prefix",
			cardName: "Bumper 1",
			want:     BucketBumper,
		},
		{
			name:     "no prefix",
			cardName: "Abyssal Colossus",
			want:     BucketGrandFantasy,
		},
		{
			name:     "aliased luna name without prefix stays grand",
			cardName: "Silver Bird",
			want:     BucketGrandFantasy,
		},
	}

	c := PrefixClassifier{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Classify(tt.cardName); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.cardName, got, tt.want)
			}
		})
	}
}

func TestLunaBaseName(t *testing.T) {
	if base, ok := LunaBaseName("Luna Wizard"); !ok || base != "Wizard" {
		t.Errorf("LunaBaseName(Luna Wizard) = %q, %v", base, ok)
	}
	if _, ok := LunaBaseName("Wizard"); ok {
		t.Error("LunaBaseName(Wizard) reported a prefix")
	}
}

func TestRarityIndex(t *testing.T) {
	if RarityIndex("common") >= RarityIndex("mythical") {
		t.Error("common should sort before mythical")
	}
	if RarityIndex("Legendary") != RarityIndex("legendary") {
		t.Error("rarity index should be case-insensitive")
	}
	if RarityIndex("holographic") != len(rarityOrder) {
		t.Error("unknown rarity should sort last")
	}
}
