package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"tripcraft/internal/models/db_models"
	"tripcraft/internal/models/request_models"
	"tripcraft/internal/models/response_models"
	"tripcraft/internal/repositories"
	"tripcraft/pkg/utils"
)

type ItineraryServiceInterface interface {
	GenerateItinerary(ctx context.Context, ownerID uuid.UUID, params request_models.TripParameters) (*db_models.Itinerary, error)
	ListItineraries(ctx context.Context, ownerID uuid.UUID, query request_models.ListItinerariesQuery) (*response_models.PaginatedItineraries, error)
	GetItinerary(ctx context.Context, ownerID, id uuid.UUID) (*db_models.Itinerary, error)
	UpdateItinerary(ctx context.Context, ownerID, id uuid.UUID, update request_models.ItineraryUpdate) (*db_models.Itinerary, error)
	DeleteItinerary(ctx context.Context, ownerID, id uuid.UUID) error
	OptimizeBudget(ctx context.Context, ownerID, id uuid.UUID, newBudget float64) (*db_models.Itinerary, error)
}

type ItineraryService struct {
	repo       repositories.ItineraryRepository
	logRepo    repositories.GenerationLogRepository
	generator  utils.TextGenerator
	reconciler BudgetReconcilerInterface
	clock      utils.Clock
	timeout    time.Duration
}

func NewItineraryService(
	repo repositories.ItineraryRepository,
	logRepo repositories.GenerationLogRepository,
	generator utils.TextGenerator,
	reconciler BudgetReconcilerInterface,
	clock utils.Clock,
	timeout time.Duration,
) ItineraryServiceInterface {
	if clock == nil {
		clock = utils.SystemClock()
	}
	return &ItineraryService{
		repo:       repo,
		logRepo:    logRepo,
		generator:  generator,
		reconciler: reconciler,
		clock:      clock,
		timeout:    timeout,
	}
}

func dbError(op string, err error) error {
	log.Printf("Database error during %s: %v", op, err)
	return fmt.Errorf("%w: %s: %v", utils.ErrDatabaseError, op, err)
}

// GenerateItinerary runs compose, generate, normalize and assemble, then persists the draft.
// Every failure before persistence is returned as a *utils.GenerationError.
func (s *ItineraryService) GenerateItinerary(ctx context.Context, ownerID uuid.UUID, params request_models.TripParameters) (*db_models.Itinerary, error) {
	params.Normalize()
	trip, err := params.ToTripDetails()
	if err != nil {
		return nil, utils.NewGenerationError(err)
	}

	prompt := ComposeItineraryPrompt(trip, params.Preferences)
	attempt := GenerationAttempt{
		Operation: db_models.OperationGenerate,
		Model:     s.generator.Model(),
		Prompt:    prompt,
		Sampling:  ItinerarySampling,
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	attempt.Reply, attempt.Err = s.generator.Generate(genCtx, prompt, ItinerarySampling)
	attempt.Latency = time.Since(started)

	var normalized *NormalizedPlan
	if attempt.Err == nil {
		normalized, attempt.Err = NormalizeItineraryReply(attempt.Reply, trip)
		if attempt.Err != nil {
			log.Printf("Failed to parse AI response: %v (reply: %s)", attempt.Err, excerpt(attempt.Reply, 500))
		}
	}

	log.Printf("Itinerary generation for %s (%d days) with %s took %s, outcome %s",
		trip.Destination, trip.TotalDays, attempt.Model, attempt.Latency.Round(time.Millisecond), attempt.Outcome())

	if attempt.Err != nil {
		s.recordAttempt(ctx, ownerID, nil, attempt)
		return nil, utils.NewGenerationError(attempt.Err)
	}
	if len(normalized.Issues) > 0 {
		log.Printf("Dropped %d unparseable fields: %s", len(normalized.Issues), describeIssues(normalized.Issues))
	}

	itinerary := AssembleItinerary(ownerID, trip, params.Preferences, normalized, attempt.Model, s.clock.Now())
	if err := s.repo.Create(ctx, itinerary); err != nil {
		s.recordAttempt(ctx, ownerID, nil, attempt)
		return nil, dbError("create itinerary", err)
	}

	s.recordAttempt(ctx, ownerID, &itinerary.ID, attempt)
	return itinerary, nil
}

// recordAttempt writes the audit row. Failures are logged and otherwise ignored.
func (s *ItineraryService) recordAttempt(ctx context.Context, ownerID uuid.UUID, itineraryID *uuid.UUID, attempt GenerationAttempt) {
	if s.logRepo == nil {
		return
	}
	sampling, err := json.Marshal(attempt.Sampling)
	if err != nil {
		sampling = []byte("{}")
	}
	entry := &db_models.GenerationLog{
		UserID:       ownerID,
		ItineraryID:  itineraryID,
		Operation:    attempt.Operation,
		Model:        attempt.Model,
		PromptLength: len(attempt.Prompt),
		ReplyExcerpt: excerpt(attempt.Reply, 500),
		Sampling:     datatypes.JSON(sampling),
		LatencyMs:    attempt.Latency.Milliseconds(),
		Outcome:      attempt.Outcome(),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		log.Printf("Failed to record generation log: %v", err)
	}
}

// refreshStatus derives the status and persists it when it changed.
func (s *ItineraryService) refreshStatus(ctx context.Context, itinerary *db_models.Itinerary, now time.Time) error {
	if !ApplyStatus(itinerary, now) {
		return nil
	}
	updated, err := s.repo.FindOneAndUpdate(ctx, itinerary.ID, itinerary.UserID, repositories.ItineraryPatch{
		Status:   &itinerary.Status,
		Metadata: &itinerary.Metadata,
	})
	if err != nil {
		return err
	}
	if updated != nil {
		*itinerary = *updated
	}
	return nil
}

// ListItineraries filters on the stored status, then derives each item's current status.
// A filtered page may therefore hold items whose derived status differs from the filter.
func (s *ItineraryService) ListItineraries(ctx context.Context, ownerID uuid.UUID, query request_models.ListItinerariesQuery) (*response_models.PaginatedItineraries, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	filter := repositories.ItineraryFilter{
		Page:     query.Page,
		PageSize: query.PageSize,
		Status:   db_models.ItineraryStatus(query.Status),
	}
	itineraries, total, err := s.repo.FindByOwner(ctx, ownerID, filter)
	if err != nil {
		return nil, dbError("list itineraries", err)
	}

	now := s.clock.Now()
	for i := range itineraries {
		if err := s.refreshStatus(ctx, &itineraries[i], now); err != nil {
			return nil, dbError("update itinerary status", err)
		}
	}

	result := response_models.NewPaginatedItineraries(itineraries, query.Page, query.PageSize, total)
	return &result, nil
}

func (s *ItineraryService) GetItinerary(ctx context.Context, ownerID, id uuid.UUID) (*db_models.Itinerary, error) {
	itinerary, err := s.repo.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, dbError("get itinerary", err)
	}
	if itinerary == nil {
		return nil, utils.ErrItineraryNotFound
	}
	if err := s.refreshStatus(ctx, itinerary, s.clock.Now()); err != nil {
		return nil, dbError("update itinerary status", err)
	}
	return itinerary, nil
}

// UpdateItinerary applies a user edit. Date and budget edits leave the status alone.
func (s *ItineraryService) UpdateItinerary(ctx context.Context, ownerID, id uuid.UUID, update request_models.ItineraryUpdate) (*db_models.Itinerary, error) {
	if update.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", utils.ErrInvalidInput)
	}

	current, err := s.repo.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, dbError("get itinerary", err)
	}
	if current == nil {
		return nil, utils.ErrItineraryNotFound
	}

	trip := current.TripDetails
	if update.Source != nil {
		trip.Source = *update.Source
	}
	if update.Destination != nil {
		trip.Destination = *update.Destination
	}
	if update.StartDate != nil {
		trip.StartDate = update.StartDate.UTC()
	}
	if update.EndDate != nil {
		trip.EndDate = update.EndDate.UTC()
	}
	if update.StartDate != nil || update.EndDate != nil {
		if !trip.EndDate.After(trip.StartDate) {
			return nil, fmt.Errorf("%w: end_date must be after start_date", utils.ErrPreconditionViolation)
		}
		trip.TotalDays = utils.TripDays(trip.StartDate, trip.EndDate)
		if trip.TotalDays > request_models.MaxTripDays {
			return nil, fmt.Errorf("%w: trip must last between 1 and %d days", utils.ErrPreconditionViolation, request_models.MaxTripDays)
		}
	}
	if update.Budget != nil {
		trip.TotalBudget = *update.Budget
	}
	if update.Travelers != nil {
		trip.Travelers = *update.Travelers
	}

	metadata := current.Metadata
	metadata.LastUpdated = s.clock.Now()
	metadata.BudgetExceeded = current.BudgetBreakdown.CategorySum() > trip.TotalBudget

	patch := repositories.ItineraryPatch{
		TripDetails: &trip,
		Preferences: update.Preferences,
		Status:      update.Status,
		Metadata:    &metadata,
	}
	updated, err := s.repo.FindOneAndUpdate(ctx, id, ownerID, patch)
	if err != nil {
		return nil, dbError("update itinerary", err)
	}
	if updated == nil {
		return nil, utils.ErrItineraryNotFound
	}
	return updated, nil
}

func (s *ItineraryService) DeleteItinerary(ctx context.Context, ownerID, id uuid.UUID) error {
	deleted, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return dbError("delete itinerary", err)
	}
	if !deleted {
		return utils.ErrItineraryNotFound
	}
	return nil
}

// OptimizeBudget refits the breakdown to newBudget. Generator failures never surface here;
// the reconciler falls back to proportional scaling.
func (s *ItineraryService) OptimizeBudget(ctx context.Context, ownerID, id uuid.UUID, newBudget float64) (*db_models.Itinerary, error) {
	if newBudget <= 0 {
		return nil, fmt.Errorf("%w: newBudget must be greater than 0", utils.ErrPreconditionViolation)
	}

	current, err := s.repo.FindOne(ctx, id, ownerID)
	if err != nil {
		return nil, dbError("get itinerary", err)
	}
	if current == nil {
		return nil, utils.ErrItineraryNotFound
	}

	result := s.reconciler.Reconcile(ctx, current, newBudget)
	if result.Attempt != nil {
		s.recordAttempt(ctx, ownerID, &current.ID, *result.Attempt)
	}
	log.Printf("Budget for itinerary %s moved from %.2f to %.2f using %s strategy",
		current.ID, current.TripDetails.TotalBudget, newBudget, result.Strategy)

	trip := current.TripDetails
	trip.TotalBudget = newBudget

	metadata := current.Metadata
	metadata.LastUpdated = s.clock.Now()
	metadata.BudgetStrategy = result.Strategy
	metadata.BudgetExceeded = result.Breakdown.CategorySum() > newBudget

	updated, err := s.repo.FindOneAndUpdate(ctx, id, ownerID, repositories.ItineraryPatch{
		TripDetails:     &trip,
		AIGeneratedPlan: &result.Plan,
		BudgetBreakdown: &result.Breakdown,
		Metadata:        &metadata,
	})
	if err != nil {
		return nil, dbError("save optimized budget", err)
	}
	if updated == nil {
		return nil, utils.ErrItineraryNotFound
	}
	return updated, nil
}
