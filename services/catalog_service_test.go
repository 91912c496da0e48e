package services

import (
	"testing"

	"github.com/lunarealm/luna-backend/models"
)

func TestSearchCards(t *testing.T) {
	svc := NewCatalogService(nil)
	cards := []models.CatalogCardDTO{
		{ID: "wiz", Name: "Luna Wizard"},
		{ID: "drg", Name: "Luna Dragon"},
		{ID: "col", Name: "Abyss Colossus"},
	}

	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"empty query returns all", "", []string{"wiz", "drg", "col"}},
		{"substring match", "wizard", []string{"wiz"}},
		{"case insensitive", "COLOSSUS", []string{"col"}},
		{"no match", "zzzz", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.SearchCards(cards, tt.query)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("SearchCards(%q) returned %d cards, want %d", tt.query, len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("SearchCards(%q)[%d] = %q, want %q", tt.query, i, got[i].ID, id)
				}
			}
		})
	}
}

func TestFilterByRarity(t *testing.T) {
	svc := NewCatalogService(nil)
	cards := []models.CatalogCardDTO{
		{ID: "a", Rarity: "epic"},
		{ID: "b", Rarity: "Epic"},
		{ID: "c", Rarity: "common"},
	}

	got := svc.FilterByRarity(cards, "EPIC")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("FilterByRarity() = %v, want epic pair", got)
	}

	if got := svc.FilterByRarity(cards, ""); len(got) != 3 {
		t.Errorf("empty rarity filtered to %d cards, want all 3", len(got))
	}
}

func TestNormalizeCardName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Luna   Wizard ", "luna wizard"},
		{"BUMPER 2", "bumper 2"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeCardName(tt.in); got != tt.want {
			t.Errorf("normalizeCardName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
