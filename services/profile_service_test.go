package services

import (
	"reflect"
	"testing"

	dbmodels "github.com/lunarealm/luna-backend/database/models"
	"github.com/lunarealm/luna-backend/models"
)

func TestGroupCards(t *testing.T) {
	svc := NewProfileService(nil, nil)

	cards := []dbmodels.UserCard{
		{Name: "Luna Wizard"},
		{Name: "Bumper 2"},
		{Name: "Abyss Colossus"},
		{Name: "Luna King"},
	}
	grouped := svc.GroupCards(cards)

	if len(grouped.LunaFantasy) != 2 {
		t.Errorf("luna bucket = %d cards, want 2", len(grouped.LunaFantasy))
	}
	if len(grouped.Bumper) != 1 {
		t.Errorf("bumper bucket = %d cards, want 1", len(grouped.Bumper))
	}
	if len(grouped.GrandFantasy) != 1 {
		t.Errorf("grand bucket = %d cards, want 1", len(grouped.GrandFantasy))
	}
	if grouped.GrandFantasy[0].Name != "Abyss Colossus" {
		t.Errorf("grand bucket holds %q", grouped.GrandFantasy[0].Name)
	}
}

func TestGroupCardsEmptyBucketsMarshalAsArrays(t *testing.T) {
	svc := NewProfileService(nil, nil)
	grouped := svc.GroupCards(nil)

	// The frontend indexes into every bucket unconditionally.
	if grouped.LunaFantasy == nil || grouped.GrandFantasy == nil || grouped.Bumper == nil {
		t.Error("empty buckets must be non-nil slices")
	}
}

func TestMergeWithCatalog(t *testing.T) {
	owned := []dbmodels.UserCard{
		{Name: "Luna Wizard", ImageURL: "owned.png", Attack: 150, Rarity: "epic"},
		{Name: "Luna Wizard", ImageURL: "dup.png", Attack: 90, Rarity: "epic"},
	}
	catalog := []models.CatalogCardDTO{
		{ID: "wiz", Name: "Luna Wizard", Rarity: "epic", ImageURL: "catalog.png", Attack: 100},
		{ID: "drg", Name: "Luna Dragon", Rarity: "common", ImageURL: "dragon.png", Attack: 40},
	}

	merged := MergeWithCatalog(owned, catalog)

	if len(merged) != len(catalog) {
		t.Fatalf("merged view has %d entries, want %d", len(merged), len(catalog))
	}

	// Sorted common before epic.
	if merged[0].ID != "drg" || merged[0].Owned {
		t.Errorf("merged[0] = %+v, want unowned dragon first", merged[0])
	}
	wiz := merged[1]
	if !wiz.Owned {
		t.Fatal("owned catalog card not flagged as owned")
	}
	if wiz.ImageURL != "owned.png" || wiz.Attack != 150 {
		t.Errorf("owned entry = %+v, want first owned copy's image and attack", wiz)
	}
}

func TestMergeWithCatalogEmptyCatalogFallsBackToOwned(t *testing.T) {
	owned := []dbmodels.UserCard{
		{Name: "Silver Bird", Rarity: "rare", Attack: 70, ID: "b1"},
		{Name: "Old Relic", Rarity: "common", Attack: 10},
	}

	merged := MergeWithCatalog(owned, nil)

	if len(merged) != 2 {
		t.Fatalf("fallback view has %d entries, want 2", len(merged))
	}
	for _, c := range merged {
		if !c.Owned {
			t.Errorf("fallback entry %q not marked owned", c.Name)
		}
		if c.ID == "" {
			t.Errorf("fallback entry %q has empty id", c.Name)
		}
	}
	if merged[0].Name != "Old Relic" {
		t.Errorf("fallback not sorted by rarity, got %q first", merged[0].Name)
	}
}

func TestSortMergedRarityThenAttack(t *testing.T) {
	cards := []models.MergedCard{
		{ID: "a", Rarity: "legendary", Attack: 10},
		{ID: "b", Rarity: "common", Attack: 5},
		{ID: "c", Rarity: "common", Attack: 50},
		{ID: "d", Rarity: "glitched", Attack: 999}, // unknown rarity sorts last
	}
	sortMerged(cards)

	got := []string{cards[0].ID, cards[1].ID, cards[2].ID, cards[3].ID}
	want := []string{"c", "b", "a", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sort order = %v, want %v", got, want)
	}
}

func TestFilterMerged(t *testing.T) {
	cards := []models.MergedCard{
		{ID: "a", Rarity: "epic", Owned: true},
		{ID: "b", Rarity: "Epic", Owned: false},
		{ID: "c", Rarity: "common", Owned: true},
	}

	tests := []struct {
		name      string
		rarity    string
		ownedOnly bool
		wantIDs   []string
	}{
		{"no filters", "", false, []string{"a", "b", "c"}},
		{"rarity is case-insensitive", "epic", false, []string{"a", "b"}},
		{"owned only", "", true, []string{"a", "c"}},
		{"combined", "epic", true, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMerged(cards, tt.rarity, tt.ownedOnly)
			ids := make([]string, len(got))
			for i, c := range got {
				ids[i] = c.ID
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("FilterMerged() = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestCompletionPercent(t *testing.T) {
	tests := []struct {
		name   string
		merged []models.MergedCard
		want   int
	}{
		{"empty view", nil, 0},
		{"one of three rounds up", []models.MergedCard{{Owned: true}, {}, {}}, 33},
		{"two of three rounds up", []models.MergedCard{{Owned: true}, {Owned: true}, {}}, 67},
		{"full set", []models.MergedCard{{Owned: true}, {Owned: true}}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CompletionPercent(tt.merged); got != tt.want {
				t.Errorf("CompletionPercent() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestXPProgress(t *testing.T) {
	needed, percent := XPProgress(&dbmodels.LevelData{Level: 4, XP: 1250})
	if needed != 2500 {
		t.Errorf("needed = %d, want 2500", needed)
	}
	if percent != 50 {
		t.Errorf("percent = %v, want 50", percent)
	}

	// Progress is capped even when stored XP overshoots the requirement.
	_, percent = XPProgress(&dbmodels.LevelData{Level: 1, XP: 9999})
	if percent != 100 {
		t.Errorf("overshoot percent = %v, want 100", percent)
	}

	needed, percent = XPProgress(nil)
	if needed != 100 || percent != 0 {
		t.Errorf("nil level = (%d, %v), want (100, 0)", needed, percent)
	}
}

func TestWinRate(t *testing.T) {
	tests := []struct {
		wins, losses, want int
	}{
		{0, 0, 0},
		{3, 1, 75},
		{1, 2, 33},
		{10, 0, 100},
	}

	for _, tt := range tests {
		got := WinRate(dbmodels.PvpRecord{Wins: tt.wins, Losses: tt.losses})
		if got != tt.want {
			t.Errorf("WinRate(%d, %d) = %d, want %d", tt.wins, tt.losses, got, tt.want)
		}
	}
}

func TestRarityDistribution(t *testing.T) {
	cards := []dbmodels.UserCard{
		{Rarity: "Epic"},
		{Rarity: "epic"},
		{Rarity: "common"},
	}
	got := RarityDistribution(cards)
	want := map[string]int{"epic": 2, "common": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RarityDistribution() = %v, want %v", got, want)
	}
}

func TestPaginate(t *testing.T) {
	cards := make([]models.MergedCard, 20)
	for i := range cards {
		cards[i].ID = string(rune('a' + i))
	}

	tests := []struct {
		name           string
		count          int
		page, perView  int
		wantLen        int
		wantPage       int
		wantTotalPages int
	}{
		{"first page", 20, 0, CardsPerPage, 9, 0, 3},
		{"last partial page", 20, 2, CardsPerPage, 2, 2, 3},
		{"spread view", 20, 1, CardsPerSpread, 2, 1, 2},
		{"page past the end clamps", 20, 99, CardsPerPage, 2, 2, 3},
		{"negative page clamps to zero", 20, -5, CardsPerPage, 9, 0, 3},
		{"empty set keeps one page", 0, 0, CardsPerPage, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, page, totalPages := Paginate(cards[:tt.count], tt.page, tt.perView)
			if len(got) != tt.wantLen {
				t.Errorf("page length = %d, want %d", len(got), tt.wantLen)
			}
			if page != tt.wantPage {
				t.Errorf("effective page = %d, want %d", page, tt.wantPage)
			}
			if totalPages != tt.wantTotalPages {
				t.Errorf("totalPages = %d, want %d", totalPages, tt.wantTotalPages)
			}
		})
	}
}
