package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"tripcraft/internal/models/db_models"
	"tripcraft/internal/repositories"
	"tripcraft/pkg/utils"
)

type fakeGenerator struct {
	replies []string
	errs    []error
	prompts []string
}

func (g *fakeGenerator) Model() string { return "fake-model" }

func (g *fakeGenerator) Generate(_ context.Context, prompt string, _ utils.SamplingConfig) (string, error) {
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	var reply string
	var err error
	if i < len(g.replies) {
		reply = g.replies[i]
	}
	if i < len(g.errs) {
		err = g.errs[i]
	}
	return reply, err
}

type fakeItineraryRepo struct {
	mu      sync.Mutex
	items   map[uuid.UUID]db_models.Itinerary
	updates int
	seq     int64
}

func newFakeItineraryRepo() *fakeItineraryRepo {
	return &fakeItineraryRepo{items: map[uuid.UUID]db_models.Itinerary{}}
}

func (r *fakeItineraryRepo) Create(_ context.Context, it *db_models.Itinerary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	it.EnsureID()
	r.seq++
	it.CreatedAt = r.seq
	r.items[it.ID] = *it
	return nil
}

func (r *fakeItineraryRepo) FindByOwner(_ context.Context, ownerID uuid.UUID, f repositories.ItineraryFilter) ([]db_models.Itinerary, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []db_models.Itinerary
	for _, it := range r.items {
		if it.UserID == ownerID && (f.Status == "" || it.Status == f.Status) {
			all = append(all, it)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt > all[j].CreatedAt })
	total := int64(len(all))
	start := (f.Page - 1) * f.PageSize
	if start >= len(all) {
		return nil, total, nil
	}
	end := min(start+f.PageSize, len(all))
	return all[start:end], total, nil
}

func (r *fakeItineraryRepo) FindOne(_ context.Context, id, ownerID uuid.UUID) (*db_models.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return nil, nil
	}
	return &it, nil
}

func (r *fakeItineraryRepo) FindOneAndUpdate(_ context.Context, id, ownerID uuid.UUID, patch repositories.ItineraryPatch) (*db_models.Itinerary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return nil, nil
	}
	patch.ApplyTo(&it)
	r.items[id] = it
	r.updates++
	return &it, nil
}

func (r *fakeItineraryRepo) Delete(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	it, ok := r.items[id]
	if !ok || it.UserID != ownerID {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

type fakeLogRepo struct {
	entries []db_models.GenerationLog
}

func (r *fakeLogRepo) Create(_ context.Context, entry *db_models.GenerationLog) error {
	r.entries = append(r.entries, *entry)
	return nil
}

var testOwner = uuid.MustParse("7b0f5a52-3a8e-4c64-9a3e-1f2d9c0e5b11")

var testNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func lisbonTrip() db_models.TripDetails {
	return db_models.TripDetails{
		Destination: "Lisbon",
		StartDate:   day(10),
		EndDate:     day(15),
		TotalDays:   5,
		TotalBudget: 2000,
		Currency:    "USD",
		Travelers:   2,
		TripType:    db_models.TripTypeRoundTrip,
	}
}

func lisbonItinerary(owner uuid.UUID) *db_models.Itinerary {
	it := &db_models.Itinerary{
		UserID:      owner,
		TripDetails: lisbonTrip(),
		BudgetBreakdown: db_models.BudgetBreakdown{
			Flights:         700,
			Accommodation:   600,
			Activities:      300,
			Food:            300,
			Transportation:  100,
			TotalSpent:      1900,
			RemainingBudget: 100,
			DailyAverage:    400,
		},
		AIGeneratedPlan: db_models.GeneratedPlan{
			DailyItinerary: []db_models.DayPlan{
				{Day: 1, Date: db_models.NewFlexTime(day(10)), BudgetAllocated: 400},
				{Day: 2, Date: db_models.NewFlexTime(day(11)), BudgetAllocated: 400},
			},
		},
		Status: db_models.StatusDraft,
	}
	it.EnsureID()
	return it
}

const planReplyWithoutBudget = `{
  "flights": [
    {"type": "outbound", "arrival_city": "Lisbon", "departure_time": "2026-01-11T08:00:00Z", "arrival_time": "2026-01-11T10:30:00Z", "price": 320, "stops": 0}
  ],
  "accommodations": [
    {"name": "Hotel Alfama", "check_in": "2026-01-11", "check_out": "2026-01-16", "nights": 5, "total_price": "$550"}
  ],
  "activities": [
    {"day": 1, "activity": "Tram 28 ride", "price": 3}
  ],
  "daily_itinerary": [
    {"day": 1, "date": "2026-01-11", "budget_allocated": 400, "morning": {"activity": "Arrival", "cost": 0}},
    {"day": 2, "date": "2026-01-12", "budget_allocated": 400}
  ]
}`
