package models

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocalizedName is a bilingual display name. Older catalog documents store a
// plain string instead of the {en, ar} document; both shapes decode.
type LocalizedName struct {
	En string `bson:"en" json:"en"`
	Ar string `bson:"ar" json:"ar"`
}

func (n *LocalizedName) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		s, ok := (bson.RawValue{Type: t, Value: data}).StringValueOK()
		if !ok {
			return fmt.Errorf("malformed string value for LocalizedName")
		}
		n.En = s
		n.Ar = ""
		return nil
	case bson.TypeEmbeddedDocument:
		var doc struct {
			En string `bson:"en"`
			Ar string `bson:"ar"`
		}
		if err := bson.Unmarshal(data, &doc); err != nil {
			return err
		}
		n.En = doc.En
		n.Ar = doc.Ar
		return nil
	case bson.TypeNull:
		*n = LocalizedName{}
		return nil
	default:
		return fmt.Errorf("cannot decode %v into LocalizedName", t)
	}
}

// UnmarshalJSON accepts the same two shapes as the BSON path: seed files can
// carry either a plain string or the {en, ar} object.
func (n *LocalizedName) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.En = s
		n.Ar = ""
		return nil
	}
	var doc struct {
		En string `json:"en"`
		Ar string `json:"ar"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	n.En = doc.En
	n.Ar = doc.Ar
	return nil
}

// CatalogCard is one persisted card definition in card_catalog. The game
// field is the only field this layer ever writes; it is populated by the
// backfill tool and absent on freshly seeded documents.
type CatalogCard struct {
	DocID       primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ID          string             `bson:"id" json:"id"`
	Name        LocalizedName      `bson:"name" json:"name"`
	Rarity      string             `bson:"rarity" json:"rarity"`
	ImageURL    string             `bson:"imageUrl" json:"imageUrl"`
	Game        string             `bson:"game,omitempty" json:"game,omitempty"`
	CharacterID string             `bson:"characterId,omitempty" json:"characterId,omitempty"`
	Attack      int                `bson:"attack,omitempty" json:"attack,omitempty"`
}

// DisplayName returns the English display name, falling back to the raw id
// when the document carries no name at all.
func (c CatalogCard) DisplayName() string {
	if c.Name.En != "" {
		return c.Name.En
	}
	return c.ID
}
