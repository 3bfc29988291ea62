package services

import (
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tripcraft/internal/models/db_models"
)

const aiConfidenceScore = 0.95

// Category weights used whenever a breakdown has to be synthesized from the total budget.
var (
	flightsWeight        = decimal.New(35, -2)
	accommodationWeight  = decimal.New(30, -2)
	activitiesWeight     = decimal.New(15, -2)
	foodWeight           = decimal.New(15, -2)
	transportationWeight = decimal.New(5, -2)
	spentShare           = decimal.New(95, -2)
	remainingShare       = decimal.New(5, -2)
)

func roundAmount(v float64) float64 {
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}

func share(total float64, weight decimal.Decimal) float64 {
	return decimal.NewFromFloat(total).Mul(weight).Round(0).InexactFloat64()
}

func dailyAverage(total float64, days int) float64 {
	if days < 1 {
		days = 1
	}
	return decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(days))).Round(0).InexactFloat64()
}

// DefaultBreakdown splits total 35/30/15/15/5 over flights, accommodation, activities,
// food and transportation. Totals follow the same 95/5 split the fallback reconciler uses.
func DefaultBreakdown(total float64, days int) db_models.BudgetBreakdown {
	return db_models.BudgetBreakdown{
		Flights:         share(total, flightsWeight),
		Accommodation:   share(total, accommodationWeight),
		Activities:      share(total, activitiesWeight),
		Food:            share(total, foodWeight),
		Transportation:  share(total, transportationWeight),
		TotalSpent:      share(total, spentShare),
		RemainingBudget: share(total, remainingShare),
		DailyAverage:    dailyAverage(total, days),
	}
}

// completeBreakdown fills derived totals the generator left at zero.
func completeBreakdown(b db_models.BudgetBreakdown, total float64, days int) db_models.BudgetBreakdown {
	if b.TotalSpent == 0 {
		b.TotalSpent = roundAmount(b.CategorySum())
	}
	if b.RemainingBudget == 0 {
		b.RemainingBudget = roundAmount(total - b.TotalSpent)
	}
	if b.DailyAverage == 0 {
		b.DailyAverage = dailyAverage(total, days)
	}
	return b
}

// AssembleItinerary merges a normalized reply with the trip into a draft itinerary.
func AssembleItinerary(
	ownerID uuid.UUID,
	trip db_models.TripDetails,
	prefs db_models.Preferences,
	normalized *NormalizedPlan,
	model string,
	now time.Time,
) *db_models.Itinerary {
	var breakdown db_models.BudgetBreakdown
	if normalized.Breakdown == nil || normalized.Breakdown.IsZero() {
		breakdown = DefaultBreakdown(trip.TotalBudget, trip.TotalDays)
	} else {
		breakdown = completeBreakdown(*normalized.Breakdown, trip.TotalBudget, trip.TotalDays)
	}

	exceeded := breakdown.CategorySum() > trip.TotalBudget
	if exceeded {
		log.Printf("Generated budget for %s exceeds total: %.2f > %.2f", trip.Destination, breakdown.CategorySum(), trip.TotalBudget)
	}

	return &db_models.Itinerary{
		UserID:          ownerID,
		TripDetails:     trip,
		Preferences:     prefs,
		AIGeneratedPlan: normalized.Plan,
		BudgetBreakdown: breakdown,
		Status:          db_models.StatusDraft,
		Metadata: db_models.GenerationMetadata{
			CreatedWithAI:     true,
			GenerationTime:    now,
			LastUpdated:       now,
			AIConfidenceScore: aiConfidenceScore,
			Model:             model,
			BudgetExceeded:    exceeded,
		},
	}
}
