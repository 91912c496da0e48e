package repositories

import (
	"reflect"
	"testing"
	"time"

	"github.com/lunarealm/luna-backend/database/models"
)

func TestDecodeOwnedCards(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []models.UserCard
	}{
		{
			name: "valid list",
			data: `[{"name":"Luna Wizard","attack":120,"rarity":"epic","id":"c1"}]`,
			want: []models.UserCard{{Name: "Luna Wizard", Attack: 120, Rarity: "epic", ID: "c1"}},
		},
		{
			name: "empty blob",
			data: "",
			want: nil,
		},
		{
			name: "malformed json reads as empty",
			data: `[{"name":`,
			want: nil,
		},
		{
			name: "wrong shape reads as empty",
			data: `{"name":"not a list"}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeOwnedCards(tt.data); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeOwnedCards() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeStones(t *testing.T) {
	stone := models.UserStone{ID: "s1", Name: "Moonstone"}

	tests := []struct {
		name string
		data string
		want []models.UserStone
	}{
		{
			name: "nested shape",
			data: `{"stones":[{"id":"s1","name":"Moonstone"}]}`,
			want: []models.UserStone{stone},
		},
		{
			name: "bare list shape",
			data: `[{"id":"s1","name":"Moonstone"}]`,
			want: []models.UserStone{stone},
		},
		{
			name: "malformed",
			data: `{"stones":`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := decodeStones(tt.data); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("decodeStones() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDecodeIntBlob(t *testing.T) {
	tests := []struct {
		data string
		want int
	}{
		{"1500", 1500},
		{" 42\n", 42},
		{"", 0},
		{"not a number", 0},
	}

	for _, tt := range tests {
		if got := decodeIntBlob(tt.data); got != tt.want {
			t.Errorf("decodeIntBlob(%q) = %d, want %d", tt.data, got, tt.want)
		}
	}
}

func TestAccumulatePvp(t *testing.T) {
	me := "111"
	tests := []struct {
		name string
		docs []blobDoc
		want models.PvpRecord
	}{
		{
			name: "single record as first party",
			docs: []blobDoc{
				{ID: "111_222", Data: `{"111": 3, "222": 1}`},
			},
			want: models.PvpRecord{Wins: 3, Losses: 1},
		},
		{
			name: "summed across opponents on either side of the key",
			docs: []blobDoc{
				{ID: "111_222", Data: `{"111": 3, "222": 1}`},
				{ID: "333_111", Data: `{"333": 2, "111": 5}`},
			},
			want: models.PvpRecord{Wins: 8, Losses: 3},
		},
		{
			name: "malformed tally skipped",
			docs: []blobDoc{
				{ID: "111_222", Data: `{"111":`},
				{ID: "111_444", Data: `{"111": 1, "444": 0}`},
			},
			want: models.PvpRecord{Wins: 1, Losses: 0},
		},
		{
			name: "no documents",
			docs: nil,
			want: models.PvpRecord{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := accumulatePvp(tt.docs, me); got != tt.want {
				t.Errorf("accumulatePvp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecodeCounter(t *testing.T) {
	data := `{"111": 27, "222": 3}`
	if got := decodeCounter(data, "111"); got != 27 {
		t.Errorf("decodeCounter() = %d, want 27", got)
	}
	if got := decodeCounter(data, "999"); got != 0 {
		t.Errorf("decodeCounter() for absent user = %d, want 0", got)
	}
	if got := decodeCounter("{", "111"); got != 0 {
		t.Errorf("decodeCounter() for malformed blob = %d, want 0", got)
	}
}

func TestUTCDayKey(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	// 01:30 local on the 2nd is still the 1st in UTC.
	ts := time.Date(2026, 8, 2, 1, 30, 0, 0, loc)
	if got := UTCDayKey(ts); got != "2026-08-01" {
		t.Errorf("UTCDayKey() = %q, want 2026-08-01", got)
	}
}
