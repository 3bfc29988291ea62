package services

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

// Sampling used for full itinerary generation and for budget reconciliation.
var (
	ItinerarySampling = utils.SamplingConfig{
		Temperature:     0.3,
		TopK:            20,
		TopP:            0.8,
		MaxOutputTokens: 8192,
		JSONOnly:        true,
	}
	BudgetSampling = utils.SamplingConfig{
		Temperature:     0.2,
		TopK:            20,
		TopP:            0.8,
		MaxOutputTokens: 2048,
		JSONOnly:        true,
	}
)

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func marshalOrEmpty(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// ComposeItineraryPrompt builds the generation request for a validated trip. The output
// depends only on its arguments.
func ComposeItineraryPrompt(trip db_models.TripDetails, prefs db_models.Preferences) string {
	var prompt strings.Builder

	start := utils.FormatISODate(trip.StartDate)
	end := utils.FormatISODate(trip.EndDate)
	budget := formatAmount(trip.TotalBudget)
	example := DefaultBreakdown(trip.TotalBudget, trip.TotalDays)

	prompt.WriteString("You are a professional travel planner. Create a detailed travel itinerary in STRICT JSON format.\n\n")
	prompt.WriteString("TRIP DETAILS:\n")
	if trip.Source != "" {
		prompt.WriteString(fmt.Sprintf("- Source: %s\n", trip.Source))
	}
	prompt.WriteString(fmt.Sprintf("- Destination: %s\n", trip.Destination))
	prompt.WriteString(fmt.Sprintf("- Travel Dates: %s to %s (%d days)\n", start, end, trip.TotalDays))
	prompt.WriteString(fmt.Sprintf("- Budget: %s %s\n", budget, trip.Currency))
	prompt.WriteString(fmt.Sprintf("- Travelers: %d\n", trip.Travelers))
	if trip.TripType != "" {
		prompt.WriteString(fmt.Sprintf("- Trip Type: %s\n", trip.TripType))
	}
	prompt.WriteString(fmt.Sprintf("- Preferences: %s\n\n", marshalOrEmpty(prefs)))

	prompt.WriteString("RULES:\n")
	prompt.WriteString("1. Return ONLY one valid JSON object. No comments, explanations, markdown or extra text.\n")
	prompt.WriteString("2. All dates must be ISO-8601 strings (YYYY-MM-DD or YYYY-MM-DDTHH:mm:ssZ).\n")
	prompt.WriteString("3. All monetary values must be plain numbers, never strings.\n")
	prompt.WriteString(fmt.Sprintf("4. The sum of the budget_breakdown categories must not exceed %s.\n", budget))
	prompt.WriteString(fmt.Sprintf("5. daily_itinerary must contain exactly %d entries, one per day starting on %s.\n\n", trip.TotalDays, start))

	prompt.WriteString("Return JSON in this EXACT format:\n")
	prompt.WriteString(fmt.Sprintf(`{
  "flights": [
    {
      "type": "outbound",
      "departure_city": %q,
      "departure_airport": "XXX",
      "arrival_city": %q,
      "arrival_airport": "YYY",
      "departure_time": "%sT08:00:00Z",
      "arrival_time": "%sT16:00:00Z",
      "duration": "8h 00m",
      "airline": "Airline name",
      "flight_number": "AB123",
      "price": 0,
      "booking_class": "Economy",
      "stops": 0,
      "layover_info": []
    }
  ],
  "accommodations": [
    {
      "name": "Hotel name",
      "type": "hotel",
      "location": {"address": "Street address", "city": %q, "coordinates": {"lat": 0, "lng": 0}},
      "check_in": "%s",
      "check_out": "%s",
      "nights": %d,
      "room_type": "Standard Room",
      "price_per_night": 0,
      "total_price": 0,
      "rating": 4.2,
      "amenities": ["WiFi"],
      "cancellation_policy": "Free cancellation until 24 hours before check-in"
    }
  ],
  "activities": [
    {
      "day": 1,
      "time": "14:00",
      "activity": "Activity name",
      "category": "sightseeing",
      "location": {"name": "Place", "address": "Address", "coordinates": {"lat": 0, "lng": 0}},
      "price": 0,
      "duration": "3 hours",
      "description": "Short description",
      "booking_required": false,
      "rating": 4.5,
      "reviews_count": 0
    }
  ],
  "daily_itinerary": [
    {
      "day": 1,
      "date": "%s",
      "weather": {"temperature": 22, "condition": "Partly Cloudy", "humidity": 65},
      "budget_allocated": %s,
      "morning": {"activity": "Activity", "location": "Place", "duration": "2-3 hours", "cost": 0},
      "afternoon": {"activity": "Activity", "location": "Place", "duration": "3-4 hours", "cost": 0},
      "evening": {"activity": "Activity", "location": "Place", "duration": "2-3 hours", "cost": 0},
      "meals": {
        "breakfast": {"restaurant": "Name", "cuisine": "Local", "estimated_cost": 0, "location": "Place"},
        "lunch": {"restaurant": "Name", "cuisine": "Local", "estimated_cost": 0, "location": "Place"},
        "dinner": {"restaurant": "Name", "cuisine": "Local", "estimated_cost": 0, "location": "Place"}
      },
      "transportation": {"type": "Public transport", "cost": 0, "details": "Details"}
    }
  ],
  "budget_breakdown": {
    "flights": %s,
    "accommodation": %s,
    "activities": %s,
    "food": %s,
    "transportation": %s,
    "shopping": 0,
    "miscellaneous": 0,
    "total_spent": %s,
    "remaining_budget": %s,
    "daily_average": %s
  }
}
`,
		trip.Source, trip.Destination, start, start,
		trip.Destination, start, end, max(trip.TotalDays-1, 1),
		start, formatAmount(example.DailyAverage),
		formatAmount(example.Flights), formatAmount(example.Accommodation), formatAmount(example.Activities),
		formatAmount(example.Food), formatAmount(example.Transportation),
		formatAmount(example.TotalSpent), formatAmount(example.RemainingBudget), formatAmount(example.DailyAverage),
	))

	return prompt.String()
}

// ComposeBudgetPrompt asks for a budget_breakdown that fits newBudget, given the current plan.
func ComposeBudgetPrompt(itinerary *db_models.Itinerary, newBudget float64) string {
	var prompt strings.Builder

	trip := itinerary.TripDetails
	days := max(trip.TotalDays, 1)

	prompt.WriteString(fmt.Sprintf("Optimize the following travel itinerary for a new budget of %s %s.\n\n",
		formatAmount(newBudget), trip.Currency))
	prompt.WriteString(fmt.Sprintf("Destination: %s\n", trip.Destination))
	prompt.WriteString(fmt.Sprintf("Travel Dates: %s to %s (%d days)\n", utils.FormatISODate(trip.StartDate), utils.FormatISODate(trip.EndDate), days))
	prompt.WriteString(fmt.Sprintf("Travelers: %d\n", trip.Travelers))
	prompt.WriteString(fmt.Sprintf("Previous Budget: %s\n", formatAmount(trip.TotalBudget)))
	prompt.WriteString(fmt.Sprintf("New Budget: %s\n\n", formatAmount(newBudget)))
	prompt.WriteString(fmt.Sprintf("Current Itinerary: %s\n", marshalOrEmpty(itinerary.AIGeneratedPlan)))
	prompt.WriteString(fmt.Sprintf("Current Budget Breakdown: %s\n\n", marshalOrEmpty(itinerary.BudgetBreakdown)))

	prompt.WriteString("RULES:\n")
	prompt.WriteString("1. Return ONLY one valid JSON object with a single key \"budget_breakdown\". No other text.\n")
	prompt.WriteString("2. All values must be plain numbers, never strings.\n")
	prompt.WriteString(fmt.Sprintf("3. The sum of the categories must not exceed %s.\n", formatAmount(newBudget)))
	prompt.WriteString(fmt.Sprintf("4. daily_average is the new budget divided by %d days.\n\n", days))

	prompt.WriteString(`Return JSON in this EXACT format:
{
  "budget_breakdown": {
    "flights": 0,
    "accommodation": 0,
    "activities": 0,
    "food": 0,
    "transportation": 0,
    "shopping": 0,
    "miscellaneous": 0,
    "total_spent": 0,
    "remaining_budget": 0,
    "daily_average": 0
  }
}
`)

	return prompt.String()
}
