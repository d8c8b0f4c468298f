package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

const ColPreferences = "carrier_preferences"

type preferenceDoc struct {
	LocationID      string          `bson:"_id"`
	FexPreferences  map[string]bool `bson:"fex_preferences"`
	TermPreferences map[string]bool `bson:"term_preferences"`
	UpdatedAt       time.Time       `bson:"updated_at"`
}

func fromPreferenceDoc(d preferenceDoc) core.CarrierPreference {
	return core.CarrierPreference{
		LocationID:      d.LocationID,
		FexPreferences:  d.FexPreferences,
		TermPreferences: d.TermPreferences,
	}
}

type PreferenceRepoMongo struct {
	coll      *mongodrv.Collection
	opTimeout time.Duration
	clock     func() time.Time
}

func NewPreferenceRepo(db *mongodrv.Database, opTimeout time.Duration) *PreferenceRepoMongo {
	return &PreferenceRepoMongo{
		coll:      db.Collection(ColPreferences),
		opTimeout: opTimeout,
		clock:     time.Now,
	}
}

// Get returns the stored preference, or a zero-value preference (no
// filter) when the location has never saved one.
func (repo *PreferenceRepoMongo) Get(ctx context.Context, locationID string) (core.CarrierPreference, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	var doc preferenceDoc
	err := repo.coll.FindOne(ctx, bson.M{"_id": locationID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodrv.ErrNoDocuments) {
			return core.CarrierPreference{
				LocationID:      locationID,
				FexPreferences:  map[string]bool{},
				TermPreferences: map[string]bool{},
			}, nil
		}
		return core.CarrierPreference{}, fmt.Errorf("preferences.findOne: %w", err)
	}
	return fromPreferenceDoc(doc), nil
}

// Save upserts the preference document for the location.
func (repo *PreferenceRepoMongo) Save(ctx context.Context, locationID string, pref core.CarrierPreference) error {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	doc := preferenceDoc{
		LocationID:      locationID,
		FexPreferences:  pref.FexPreferences,
		TermPreferences: pref.TermPreferences,
		UpdatedAt:       repo.clock(),
	}

	_, err := repo.coll.ReplaceOne(ctx,
		bson.M{"_id": locationID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("preferences.replaceOne: %w", err)
	}
	return nil
}
