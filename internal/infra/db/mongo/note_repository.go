package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainnotes "ratedesk/internal/domain/notes"
	"ratedesk/internal/domain/properties"
	"ratedesk/internal/domain/shared/dates"
)

type NoteRepository struct {
	col *mongo.Collection
}

func NewNoteRepository(db *mongo.Database) *NoteRepository {
	col := db.Collection("cell_notes")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "property_id", Value: 1}, {Key: "day", Value: 1}}}
	_, _ = col.Indexes().CreateOne(context.Background(), idx)
	return &NoteRepository{col: col}
}

func (r *NoteRepository) ByID(ctx context.Context, id domainnotes.NoteID) (*domainnotes.CellNote, error) {
	var doc noteDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainnotes.ErrNoteNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// ForCell returns the oldest note for the cell, matching the
// first-stored-wins contract of the in-memory store.
func (r *NoteRepository) ForCell(ctx context.Context, propertyID properties.PropertyID, day time.Time) (*domainnotes.CellNote, error) {
	filter := bson.M{"property_id": string(propertyID), "day": dates.Day(day).UnixMilli()}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})
	var doc noteDocument
	if err := r.col.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainnotes.ErrNoteNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *NoteRepository) Save(ctx context.Context, note *domainnotes.CellNote) error {
	doc := noteDocument{
		ID:         string(note.ID),
		PropertyID: string(note.PropertyID),
		Day:        note.Day.UnixMilli(),
		Content:    note.Content,
		CreatedAt:  note.CreatedAt.UnixMilli(),
		UpdatedAt:  note.UpdatedAt.UnixMilli(),
	}
	opts := options.Replace().SetUpsert(true)
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts)
	return err
}

func (r *NoteRepository) Delete(ctx context.Context, id domainnotes.NoteID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	return err
}

type noteDocument struct {
	ID         string `bson:"_id"`
	PropertyID string `bson:"property_id"`
	Day        int64  `bson:"day"`
	Content    string `bson:"content"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func (d noteDocument) toAggregate() *domainnotes.CellNote {
	return &domainnotes.CellNote{
		ID:         domainnotes.NoteID(d.ID),
		PropertyID: properties.PropertyID(d.PropertyID),
		Day:        timestampToTime(d.Day),
		Content:    d.Content,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}

var _ domainnotes.Repository = (*NoteRepository)(nil)
