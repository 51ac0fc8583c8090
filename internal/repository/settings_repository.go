package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"laily-api/internal/models"
)

type SettingsRepository struct {
	collection *mongo.Collection
}

func NewSettingsRepository(collection *mongo.Collection) *SettingsRepository {
	return &SettingsRepository{collection: collection}
}

func (r *SettingsRepository) FindByKey(ctx context.Context, key string) (*models.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var s models.Settings
	if err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&s); err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

// InsertIfAbsent crea el documento solo si no existe ($setOnInsert) y devuelve
// el que haya quedado guardado. Dos llamadas concurrentes no crean duplicados.
func (r *SettingsRepository) InsertIfAbsent(ctx context.Context, s *models.Settings) (*models.Settings, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{"$setOnInsert": bson.M{
		"value":     s.Value,
		"isActive":  s.IsActive,
		"messages":  s.Messages,
		"createdAt": now,
		"updatedAt": now,
	}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored models.Settings
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"key": s.Key}, update, opts).Decode(&stored); err != nil {
		return nil, translate(err)
	}
	return &stored, nil
}

// Save reemplaza (o crea) el documento completo identificado por Key
func (r *SettingsRepository) Save(ctx context.Context, s *models.Settings) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	opts := options.Replace().SetUpsert(true)
	res, err := r.collection.ReplaceOne(ctx, bson.M{"key": s.Key}, s, opts)
	if err != nil {
		return translate(err)
	}
	if s.ID.IsZero() {
		if id, ok := res.UpsertedID.(primitive.ObjectID); ok {
			s.ID = id
		}
	}
	return nil
}
