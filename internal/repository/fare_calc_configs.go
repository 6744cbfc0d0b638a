// Package repository provides data access for fare calc configs.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/skyfare/farecalc-service/internal/domain/model"
)

// FareCalcConfigDocument wraps a fare calc config record with versioning
// metadata. The agency identity (user appl type, user appl, pseudo city)
// lives on the embedded config and is unique per document.
type FareCalcConfigDocument struct {
	model.FareCalcConfig `bson:",inline"`

	Active    bool      `bson:"active" json:"active"`
	Version   int       `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// FareCalcConfigRepository provides methods for fare calc config operations.
type FareCalcConfigRepository struct {
	collection *mongo.Collection
}

// NewFareCalcConfigRepository creates a new fare calc config repository.
func NewFareCalcConfigRepository(db *MongoDB) *FareCalcConfigRepository {
	return &FareCalcConfigRepository{
		collection: db.FareCalcConfigs,
	}
}

// Find looks up the active config for a requesting agency. Lookup falls
// back from the exact pseudo city record to the user-application default
// (a record stored with an empty pseudo city). Returns nil when no record
// matches; callers substitute the built-in defaults.
func (r *FareCalcConfigRepository) Find(ctx context.Context, userApplType byte, userAppl, pseudoCity string) (*model.FareCalcConfig, error) {
	filters := []bson.M{
		{
			"user_appl_type": int(userApplType),
			"user_appl":      userAppl,
			"pseudo_city":    pseudoCity,
			"active":         true,
		},
		{
			"user_appl_type": int(userApplType),
			"user_appl":      userAppl,
			"pseudo_city":    "",
			"active":         true,
		},
	}

	for _, filter := range filters {
		var doc FareCalcConfigDocument
		err := r.collection.FindOne(ctx, filter).Decode(&doc)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		return &doc.FareCalcConfig, nil
	}

	return nil, nil // No config found for the agency
}

// Create creates a new fare calc config record. Any existing active record
// for the same agency identity is deactivated first.
func (r *FareCalcConfigRepository) Create(ctx context.Context, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error) {
	_, err := r.collection.UpdateMany(
		ctx,
		bson.M{
			"user_appl_type": int(cfg.UserApplType),
			"user_appl":      cfg.UserAppl,
			"pseudo_city":    cfg.PseudoCity,
			"active":         true,
		},
		bson.M{"$set": bson.M{"active": false, "updated_at": time.Now()}},
	)
	if err != nil {
		return nil, err
	}

	doc := FareCalcConfigDocument{
		FareCalcConfig: *cfg,
		Active:         true,
		Version:        1,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	doc.ID = uuid.NewString()

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Update replaces the config fields of an existing record, bumping its
// version.
func (r *FareCalcConfigRepository) Update(ctx context.Context, id string, cfg *model.FareCalcConfig) (*FareCalcConfigDocument, error) {
	var current FareCalcConfigDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&current)
	if err != nil {
		return nil, err
	}

	next := *cfg
	next.ID = id
	update := bson.M{
		"$set": FareCalcConfigDocument{
			FareCalcConfig: next,
			Active:         current.Active,
			Version:        current.Version + 1,
			CreatedAt:      current.CreatedAt,
			UpdatedAt:      time.Now(),
		},
	}

	var doc FareCalcConfigDocument
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// List returns fare calc config records, newest first.
func (r *FareCalcConfigRepository) List(ctx context.Context, limit int) ([]FareCalcConfigDocument, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []FareCalcConfigDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	return docs, nil
}
