package models

import (
	"encoding/json"
	"testing"
)

func TestLocalizedNameUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		data string
		want LocalizedName
	}{
		{
			name: "bilingual object",
			data: `{"en":"Wizard","ar":"ساحر"}`,
			want: LocalizedName{En: "Wizard", Ar: "ساحر"},
		},
		{
			name: "legacy plain string",
			data: `"Wizard"`,
			want: LocalizedName{En: "Wizard"},
		},
		{
			name: "partial object",
			data: `{"en":"Wizard"}`,
			want: LocalizedName{En: "Wizard"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got LocalizedName
			if err := json.Unmarshal([]byte(tt.data), &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.data, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestCatalogCardDisplayName(t *testing.T) {
	card := CatalogCard{ID: "wiz-01", Name: LocalizedName{En: "Wizard"}}
	if got := card.DisplayName(); got != "Wizard" {
		t.Errorf("DisplayName() = %q, want Wizard", got)
	}

	unnamed := CatalogCard{ID: "wiz-01"}
	if got := unnamed.DisplayName(); got != "wiz-01" {
		t.Errorf("DisplayName() fallback = %q, want the id", got)
	}
}
