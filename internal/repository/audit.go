// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EntryAuditDocument is the MongoDB shape of a priced-entry journal record.
type EntryAuditDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`

	Entry      string `bson:"entry,omitempty" json:"entry,omitempty"`
	Agent      string `bson:"agent,omitempty" json:"agent,omitempty"`
	PseudoCity string `bson:"pseudo_city,omitempty" json:"pseudo_city,omitempty"`

	PaxCount     int     `bson:"pax_count,omitempty" json:"pax_count,omitempty"`
	OptionCount  int     `bson:"option_count,omitempty" json:"option_count,omitempty"`
	LineCount    int     `bson:"line_count,omitempty" json:"line_count,omitempty"`
	WarningCount int     `bson:"warning_count,omitempty" json:"warning_count,omitempty"`
	TotalAmount  float64 `bson:"total_amount,omitempty" json:"total_amount,omitempty"`
	Currency     string  `bson:"currency,omitempty" json:"currency,omitempty"`

	StatusCode int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	Duration   int64  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
	IP         string `bson:"ip,omitempty" json:"ip,omitempty"`
	Error      string `bson:"error,omitempty" json:"error,omitempty"`
}

// AuditQuery filters journal searches at the repository level.
type AuditQuery struct {
	RequestID  string
	Entry      string
	PseudoCity string
	FailedOnly bool
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int
	Skip       int
}

// EntryAuditRepository stores priced-entry journal records.
type EntryAuditRepository struct {
	collection *mongo.Collection
}

// NewEntryAuditRepository creates a new journal repository.
func NewEntryAuditRepository(db *MongoDB) *EntryAuditRepository {
	return &EntryAuditRepository{
		collection: db.EntryAudits,
	}
}

// Insert stores a single journal record.
func (r *EntryAuditRepository) Insert(ctx context.Context, rec *EntryAuditDocument) error {
	stampDocument(rec)
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

// InsertBatch stores journal records in bulk.
func (r *EntryAuditRepository) InsertBatch(ctx context.Context, recs []*EntryAuditDocument) error {
	if len(recs) == 0 {
		return nil
	}

	docs := make([]interface{}, len(recs))
	for i, rec := range recs {
		stampDocument(rec)
		docs[i] = rec
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

func stampDocument(rec *EntryAuditDocument) {
	if rec.ID.IsZero() {
		rec.ID = primitive.NewObjectID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
}

// auditFilter builds the bson filter shared by Search and Count.
func auditFilter(q AuditQuery) bson.M {
	filter := bson.M{}

	if q.RequestID != "" {
		filter["request_id"] = q.RequestID
	}
	if q.Entry != "" {
		filter["entry"] = q.Entry
	}
	if q.PseudoCity != "" {
		filter["pseudo_city"] = q.PseudoCity
	}
	if q.FailedOnly {
		// error is stored omitempty, so guard against the absent field
		filter["$or"] = bson.A{
			bson.M{"status_code": bson.M{"$gte": 400}},
			bson.M{"error": bson.M{"$exists": true, "$ne": ""}},
		}
	}
	if q.StartTime != nil || q.EndTime != nil {
		timeFilter := bson.M{}
		if q.StartTime != nil {
			timeFilter["$gte"] = *q.StartTime
		}
		if q.EndTime != nil {
			timeFilter["$lte"] = *q.EndTime
		}
		filter["timestamp"] = timeFilter
	}

	return filter
}

// Search returns journal records matching the query, newest first.
func (r *EntryAuditRepository) Search(ctx context.Context, q AuditQuery) ([]*EntryAuditDocument, error) {
	findOptions := options.Find().SetSort(bson.M{"timestamp": -1})
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		findOptions.SetSkip(int64(q.Skip))
	}

	cursor, err := r.collection.Find(ctx, auditFilter(q), findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var recs []*EntryAuditDocument
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, err
	}

	return recs, nil
}

// Count returns the number of journal records matching the query.
func (r *EntryAuditRepository) Count(ctx context.Context, q AuditQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, auditFilter(q))
}
