package request_models

import (
	"strings"
	"time"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

type GenerateItineraryRequest struct {
	TripParameters
}

// UpdateItineraryRequest is a partial user edit. Nil fields are left untouched.
type UpdateItineraryRequest struct {
	Source      *string                `json:"source"`
	Destination *string                `json:"destination"`
	StartDate   *string                `json:"start_date"`
	EndDate     *string                `json:"end_date"`
	Budget      *float64               `json:"budget"`
	Travelers   *int                   `json:"travelers"`
	Preferences *db_models.Preferences `json:"preferences"`
	Status      *string                `json:"status"`
}

// ItineraryUpdate is an UpdateItineraryRequest with parsed dates, ready for the service.
type ItineraryUpdate struct {
	Source      *string
	Destination *string
	StartDate   *time.Time
	EndDate     *time.Time
	Budget      *float64
	Travelers   *int
	Preferences *db_models.Preferences
	Status      *db_models.ItineraryStatus
}

// Users may only move an itinerary to these states by hand; the rest are date-driven.
var editableStatuses = []db_models.ItineraryStatus{
	db_models.StatusDraft,
	db_models.StatusConfirmed,
	db_models.StatusCancelled,
}

func (r UpdateItineraryRequest) Parse() (ItineraryUpdate, error) {
	var out ItineraryUpdate
	var err error

	if r.Source != nil {
		s := cleanText(*r.Source)
		out.Source = &s
	}
	if r.Destination != nil {
		d := cleanText(*r.Destination)
		if d == "" {
			return out, violation("destination cannot be empty")
		}
		out.Destination = &d
	}
	if out.StartDate, err = parseOptionalDate("start_date", r.StartDate); err != nil {
		return out, err
	}
	if out.EndDate, err = parseOptionalDate("end_date", r.EndDate); err != nil {
		return out, err
	}
	if r.Budget != nil {
		if *r.Budget <= 0 {
			return out, violation("budget must be greater than 0")
		}
		out.Budget = r.Budget
	}
	if r.Travelers != nil {
		if *r.Travelers < MinTravelers || *r.Travelers > MaxTravelers {
			return out, violation("travelers must be between %d and %d", MinTravelers, MaxTravelers)
		}
		out.Travelers = r.Travelers
	}
	if r.Preferences != nil {
		prefs := NormalizePreferences(*r.Preferences)
		if err := ValidatePreferences(prefs); err != nil {
			return out, err
		}
		out.Preferences = &prefs
	}
	if r.Status != nil {
		status := db_models.ItineraryStatus(strings.ToLower(strings.TrimSpace(*r.Status)))
		allowed := false
		for _, s := range editableStatuses {
			if s == status {
				allowed = true
			}
		}
		if !allowed {
			return out, violation("status can only be set to draft, confirmed or cancelled")
		}
		out.Status = &status
	}
	return out, nil
}

func (u ItineraryUpdate) IsEmpty() bool {
	return u.Source == nil && u.Destination == nil && u.StartDate == nil && u.EndDate == nil &&
		u.Budget == nil && u.Travelers == nil && u.Preferences == nil && u.Status == nil
}

type OptimizeBudgetRequest struct {
	NewBudget float64 `json:"newBudget"`
}

func (r OptimizeBudgetRequest) Validate() error {
	if r.NewBudget <= 0 {
		return violation("newBudget must be greater than 0")
	}
	return nil
}

type ListItinerariesQuery struct {
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
	Status   string `form:"status"`
}

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

func (q *ListItinerariesQuery) Validate() error {
	if q.Page == 0 {
		q.Page = DefaultPage
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page < 1 {
		return utils.ErrInvalidPage
	}
	if q.PageSize < 1 || q.PageSize > MaxPageSize {
		return utils.ErrInvalidPageSize
	}
	q.Status = strings.ToLower(strings.TrimSpace(q.Status))
	if q.Status != "" && !db_models.ItineraryStatus(q.Status).Valid() {
		return violation("status %q is not a valid itinerary status", q.Status)
	}
	return nil
}

type FlightSearchQuery struct {
	Origin      string `form:"origin" binding:"required,len=3"`
	Destination string `form:"destination" binding:"required,len=3"`
	Date        string `form:"date" binding:"required"`
	Adults      int    `form:"adults"`
}

func (q *FlightSearchQuery) Normalize() error {
	q.Origin = strings.ToUpper(strings.TrimSpace(q.Origin))
	q.Destination = strings.ToUpper(strings.TrimSpace(q.Destination))
	if q.Adults == 0 {
		q.Adults = 1
	}
	if q.Adults < MinTravelers || q.Adults > MaxTravelers {
		return violation("adults must be between %d and %d", MinTravelers, MaxTravelers)
	}
	if _, err := time.Parse("2006-01-02", q.Date); err != nil {
		return violation("date %q must be YYYY-MM-DD", q.Date)
	}
	return nil
}
