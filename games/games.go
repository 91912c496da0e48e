// Package games holds the card-game domain rules shared by the web API and
// the maintenance tools: the three game buckets, the name classifiers that
// assign cards to them, and the rarity ordering used for display sorting.
package games

// Bucket identifies which of the three community card games a card belongs
// to. The string values are the wire values persisted in the catalog's game
// field and used as JSON keys by the frontend.
type Bucket string

const (
	BucketLunaFantasy  Bucket = "lunaFantasy"
	BucketGrandFantasy Bucket = "grandFantasy"
	BucketBumper       Bucket = "bumper"
)

// Buckets lists every bucket in display order.
var Buckets = []Bucket{BucketLunaFantasy, BucketGrandFantasy, BucketBumper}

// Valid reports whether b is one of the three known buckets.
func (b Bucket) Valid() bool {
	switch b {
	case BucketLunaFantasy, BucketGrandFantasy, BucketBumper:
		return true
	}
	return false
}

func (b Bucket) String() string {
	return string(b)
}

// Classifier assigns a card name to exactly one bucket. Implementations are
// total: every name maps to a bucket, unknown names fall back to
// BucketGrandFantasy.
type Classifier interface {
	Classify(cardName string) Bucket
}
