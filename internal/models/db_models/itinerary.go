package db_models

import (
	"time"

	"github.com/google/uuid"
)

type ItineraryStatus string

const (
	StatusDraft      ItineraryStatus = "draft"
	StatusConfirmed  ItineraryStatus = "confirmed"
	StatusInProgress ItineraryStatus = "in_progress"
	StatusCompleted  ItineraryStatus = "completed"
	StatusCancelled  ItineraryStatus = "cancelled"
)

func (s ItineraryStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

const (
	TripTypeRoundTrip = "round-trip"
	TripTypeOneWay    = "one-way"
	TripTypeMultiCity = "multi-city"
)

const (
	BudgetStrategyAI       = "ai"
	BudgetStrategyFallback = "fallback"
)

type Preferences struct {
	BudgetRange          string   `json:"budget_range,omitempty" bson:"budget_range,omitempty"`
	TravelStyle          string   `json:"travel_style,omitempty" bson:"travel_style,omitempty"`
	AccommodationType    string   `json:"accommodation_type,omitempty" bson:"accommodation_type,omitempty"`
	Interests            []string `json:"interests,omitempty" bson:"interests,omitempty"`
	DietaryRestrictions  []string `json:"dietary_restrictions,omitempty" bson:"dietary_restrictions,omitempty"`
	MobilityRequirements string   `json:"mobility_requirements,omitempty" bson:"mobility_requirements,omitempty"`
}

// TripDetails is the validated snapshot of the trip parameters an itinerary was generated from.
type TripDetails struct {
	Source      string    `gorm:"type:varchar(255)" json:"source,omitempty" bson:"source"`
	Destination string    `gorm:"type:varchar(255);not null" json:"destination" bson:"destination"`
	StartDate   time.Time `gorm:"not null" json:"start_date" bson:"start_date"`
	EndDate     time.Time `gorm:"not null" json:"end_date" bson:"end_date"`
	TotalDays   int       `gorm:"not null" json:"total_days" bson:"total_days"`
	TotalBudget float64   `gorm:"not null" json:"total_budget" bson:"total_budget"`
	Currency    string    `gorm:"type:varchar(8);default:'USD'" json:"currency" bson:"currency"`
	Travelers   int       `gorm:"not null" json:"travelers" bson:"travelers"`
	TripType    string    `gorm:"type:varchar(20)" json:"trip_type" bson:"trip_type"`
}

type GenerationMetadata struct {
	CreatedWithAI     bool      `json:"created_with_ai" bson:"created_with_ai"`
	GenerationTime    time.Time `json:"generation_time" bson:"generation_time"`
	LastUpdated       time.Time `json:"last_updated" bson:"last_updated"`
	AIConfidenceScore float64   `json:"ai_confidence_score" bson:"ai_confidence_score"`
	Model             string    `gorm:"type:varchar(100)" json:"model,omitempty" bson:"model"`
	BudgetExceeded    bool      `json:"budget_exceeded" bson:"budget_exceeded"`
	BudgetStrategy    string    `gorm:"type:varchar(20)" json:"budget_strategy,omitempty" bson:"budget_strategy"`
}

type Itinerary struct {
	BaseModel
	UserID          uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	TripDetails     TripDetails        `gorm:"embedded;embeddedPrefix:trip_" json:"trip_details"`
	Preferences     Preferences        `gorm:"type:jsonb;serializer:json" json:"preferences"`
	AIGeneratedPlan GeneratedPlan      `gorm:"type:jsonb;serializer:json" json:"ai_generated_plan"`
	BudgetBreakdown BudgetBreakdown    `gorm:"type:jsonb;serializer:json" json:"budget_breakdown"`
	Status          ItineraryStatus    `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"`
	Metadata        GenerationMetadata `gorm:"embedded;embeddedPrefix:meta_" json:"metadata"`
}

func (Itinerary) TableName() string {
	return "itineraries"
}
