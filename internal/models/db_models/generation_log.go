package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	OperationGenerate       = "generate"
	OperationOptimizeBudget = "optimize_budget"
)

// GenerationLog is an audit row per call to the generative service.
type GenerationLog struct {
	BaseModel
	UserID       uuid.UUID      `gorm:"type:uuid;index" json:"user_id"`
	ItineraryID  *uuid.UUID     `gorm:"type:uuid;index" json:"itinerary_id,omitempty"`
	Operation    string         `gorm:"type:varchar(32);not null" json:"operation"`
	Model        string         `gorm:"type:varchar(100)" json:"model"`
	PromptLength int            `json:"prompt_length"`
	ReplyExcerpt string         `gorm:"type:text" json:"reply_excerpt"`
	Sampling     datatypes.JSON `gorm:"type:jsonb" json:"sampling"`
	LatencyMs    int64          `json:"latency_ms"`
	Outcome      string         `gorm:"type:varchar(64)" json:"outcome"`
}
