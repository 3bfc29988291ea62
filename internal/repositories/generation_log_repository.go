package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"tripcraft/internal/infra"
	dbm "tripcraft/internal/models/db_models"
)

type GenerationLogRepository interface {
	Create(ctx context.Context, entry *dbm.GenerationLog) error
}

type generationLogRepository struct {
	db *gorm.DB
}

func NewGenerationLogRepository(db *gorm.DB) GenerationLogRepository {
	return &generationLogRepository{db: db}
}

func (r *generationLogRepository) Create(ctx context.Context, entry *dbm.GenerationLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

type generationLogDocument struct {
	ID           string `bson:"_id"`
	UserID       string `bson:"user_id"`
	ItineraryID  string `bson:"itinerary_id,omitempty"`
	Operation    string `bson:"operation"`
	Model        string `bson:"model"`
	PromptLength int    `bson:"prompt_length"`
	ReplyExcerpt string `bson:"reply_excerpt"`
	Sampling     string `bson:"sampling"`
	LatencyMs    int64  `bson:"latency_ms"`
	Outcome      string `bson:"outcome"`
	CreatedAt    int64  `bson:"created_at"`
}

type mongoGenerationLogRepository struct {
	collection *mongo.Collection
}

func NewMongoGenerationLogRepository(db *mongo.Database) GenerationLogRepository {
	return &mongoGenerationLogRepository{collection: db.Collection(infra.GenerationLogsCollection)}
}

func (r *mongoGenerationLogRepository) Create(ctx context.Context, entry *dbm.GenerationLog) error {
	entry.EnsureID()
	entry.CreatedAt = nowUnix()
	entry.UpdatedAt = entry.CreatedAt

	doc := generationLogDocument{
		ID:           entry.ID.String(),
		UserID:       entry.UserID.String(),
		Operation:    entry.Operation,
		Model:        entry.Model,
		PromptLength: entry.PromptLength,
		ReplyExcerpt: entry.ReplyExcerpt,
		Sampling:     entry.Sampling.String(),
		LatencyMs:    entry.LatencyMs,
		Outcome:      entry.Outcome,
		CreatedAt:    entry.CreatedAt,
	}
	if entry.ItineraryID != nil {
		doc.ItineraryID = entry.ItineraryID.String()
	}
	_, err := r.collection.InsertOne(ctx, doc)
	return err
}

func nowUnix() int64 {
	return time.Now().Unix()
}
