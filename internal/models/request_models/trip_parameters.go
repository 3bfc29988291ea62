package request_models

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"golang.org/x/text/unicode/norm"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

const (
	MaxTripDays  = 365
	MinTravelers = 1
	MaxTravelers = 20
)

var (
	budgetRanges       = []string{"budget", "mid-range", "luxury"}
	travelStyles       = []string{"adventure", "relaxation", "cultural", "business"}
	accommodationTypes = []string{"hotel", "hostel", "apartment", "resort"}
	tripTypes          = []string{db_models.TripTypeRoundTrip, db_models.TripTypeOneWay, db_models.TripTypeMultiCity}
)

// TripParameters is the user input a plan is generated from. Dates accept RFC3339 or plain YYYY-MM-DD.
type TripParameters struct {
	Source      string                `json:"source"`
	Destination string                `json:"destination"`
	StartDate   string                `json:"start_date"`
	EndDate     string                `json:"end_date"`
	Budget      float64               `json:"budget"`
	Currency    string                `json:"currency"`
	Travelers   int                   `json:"travelers"`
	TripType    string                `json:"trip_type"`
	Preferences db_models.Preferences `json:"preferences"`
}

func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func cleanList(items []string) []string {
	cleaned := lo.Map(items, func(item string, _ int) string {
		return strings.ToLower(cleanText(item))
	})
	return lo.Uniq(lo.Compact(cleaned))
}

// Normalize trims and NFC-normalizes text fields, lower-cases enums and fills defaults.
func (p *TripParameters) Normalize() {
	p.Source = cleanText(p.Source)
	p.Destination = cleanText(p.Destination)
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if p.Currency == "" {
		p.Currency = "USD"
	}
	p.TripType = strings.ToLower(strings.TrimSpace(p.TripType))
	if p.TripType == "" {
		p.TripType = db_models.TripTypeRoundTrip
	}

	prefs := &p.Preferences
	prefs.BudgetRange = strings.ToLower(strings.TrimSpace(prefs.BudgetRange))
	prefs.TravelStyle = strings.ToLower(strings.TrimSpace(prefs.TravelStyle))
	prefs.AccommodationType = strings.ToLower(strings.TrimSpace(prefs.AccommodationType))
	prefs.MobilityRequirements = cleanText(prefs.MobilityRequirements)
	prefs.Interests = cleanList(prefs.Interests)
	prefs.DietaryRestrictions = cleanList(prefs.DietaryRestrictions)
}

func violation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", utils.ErrPreconditionViolation, fmt.Sprintf(format, args...))
}

func checkEnum(field, value string, allowed []string) error {
	if value == "" || lo.Contains(allowed, value) {
		return nil
	}
	return violation("%s must be one of %s", field, strings.Join(allowed, ", "))
}

// ToTripDetails validates the parameters and returns the snapshot stored on the itinerary.
// Call Normalize first.
func (p TripParameters) ToTripDetails() (db_models.TripDetails, error) {
	if p.Destination == "" {
		return db_models.TripDetails{}, violation("destination is required")
	}
	start, ok := db_models.ParseFlexTime(p.StartDate)
	if !ok {
		return db_models.TripDetails{}, violation("start_date %q is not a valid date", p.StartDate)
	}
	end, ok := db_models.ParseFlexTime(p.EndDate)
	if !ok {
		return db_models.TripDetails{}, violation("end_date %q is not a valid date", p.EndDate)
	}
	if !end.After(start) {
		return db_models.TripDetails{}, violation("end_date must be after start_date")
	}
	days := utils.TripDays(start, end)
	if days < 1 || days > MaxTripDays {
		return db_models.TripDetails{}, violation("trip must last between 1 and %d days", MaxTripDays)
	}
	if p.Budget <= 0 {
		return db_models.TripDetails{}, violation("budget must be greater than 0")
	}
	if p.Travelers < MinTravelers || p.Travelers > MaxTravelers {
		return db_models.TripDetails{}, violation("travelers must be between %d and %d", MinTravelers, MaxTravelers)
	}
	for _, err := range []error{
		checkEnum("trip_type", p.TripType, tripTypes),
		checkEnum("preferences.budget_range", p.Preferences.BudgetRange, budgetRanges),
		checkEnum("preferences.travel_style", p.Preferences.TravelStyle, travelStyles),
		checkEnum("preferences.accommodation_type", p.Preferences.AccommodationType, accommodationTypes),
	} {
		if err != nil {
			return db_models.TripDetails{}, err
		}
	}

	return db_models.TripDetails{
		Source:      p.Source,
		Destination: p.Destination,
		StartDate:   start.UTC(),
		EndDate:     end.UTC(),
		TotalDays:   days,
		TotalBudget: p.Budget,
		Currency:    p.Currency,
		Travelers:   p.Travelers,
		TripType:    p.TripType,
	}, nil
}

// ValidatePreferences checks the preference enums on their own, for partial updates.
func ValidatePreferences(prefs db_models.Preferences) error {
	for _, err := range []error{
		checkEnum("preferences.budget_range", prefs.BudgetRange, budgetRanges),
		checkEnum("preferences.travel_style", prefs.TravelStyle, travelStyles),
		checkEnum("preferences.accommodation_type", prefs.AccommodationType, accommodationTypes),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// NormalizePreferences applies the same cleanup as Normalize to a standalone preference set.
func NormalizePreferences(prefs db_models.Preferences) db_models.Preferences {
	p := TripParameters{Preferences: prefs}
	p.Normalize()
	return p.Preferences
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, ok := db_models.ParseFlexTime(*value)
	if !ok {
		return nil, violation("%s %q is not a valid date", field, *value)
	}
	return &t, nil
}
