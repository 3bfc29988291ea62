package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tripcraft/internal/infra"
	dbm "tripcraft/internal/models/db_models"
)

type ItineraryFilter struct {
	Page     int
	PageSize int
	Status   dbm.ItineraryStatus
}

func (f ItineraryFilter) offset() int {
	return (f.Page - 1) * f.PageSize
}

// ItineraryPatch lists the parts of an itinerary to overwrite. Nil fields are kept.
type ItineraryPatch struct {
	TripDetails     *dbm.TripDetails
	Preferences     *dbm.Preferences
	AIGeneratedPlan *dbm.GeneratedPlan
	BudgetBreakdown *dbm.BudgetBreakdown
	Status          *dbm.ItineraryStatus
	Metadata        *dbm.GenerationMetadata
}

func (p ItineraryPatch) ApplyTo(it *dbm.Itinerary) {
	if p.TripDetails != nil {
		it.TripDetails = *p.TripDetails
	}
	if p.Preferences != nil {
		it.Preferences = *p.Preferences
	}
	if p.AIGeneratedPlan != nil {
		it.AIGeneratedPlan = *p.AIGeneratedPlan
	}
	if p.BudgetBreakdown != nil {
		it.BudgetBreakdown = *p.BudgetBreakdown
	}
	if p.Status != nil {
		it.Status = *p.Status
	}
	if p.Metadata != nil {
		it.Metadata = *p.Metadata
	}
}

// ItineraryRepository stores itineraries keyed by id and owner. Lookups of a missing
// or foreign itinerary return nil without an error.
type ItineraryRepository interface {
	Create(ctx context.Context, itinerary *dbm.Itinerary) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter ItineraryFilter) ([]dbm.Itinerary, int64, error)
	FindOne(ctx context.Context, id, ownerID uuid.UUID) (*dbm.Itinerary, error)
	FindOneAndUpdate(ctx context.Context, id, ownerID uuid.UUID, patch ItineraryPatch) (*dbm.Itinerary, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
}

type itineraryRepository struct {
	db *gorm.DB
}

func NewItineraryRepository(db *gorm.DB) ItineraryRepository {
	return &itineraryRepository{db: db}
}

func (r *itineraryRepository) Create(ctx context.Context, itinerary *dbm.Itinerary) error {
	return r.db.WithContext(ctx).Create(itinerary).Error
}

func (r *itineraryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter ItineraryFilter) ([]dbm.Itinerary, int64, error) {
	query := r.db.WithContext(ctx).Model(&dbm.Itinerary{}).Where("user_id = ?", ownerID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var itineraries []dbm.Itinerary
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(filter.offset()).
		Find(&itineraries).Error
	if err != nil {
		return nil, 0, err
	}
	return itineraries, total, nil
}

func (r *itineraryRepository) FindOne(ctx context.Context, id, ownerID uuid.UUID) (*dbm.Itinerary, error) {
	var itinerary dbm.Itinerary
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&itinerary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &itinerary, nil
}

func (r *itineraryRepository) FindOneAndUpdate(ctx context.Context, id, ownerID uuid.UUID, patch ItineraryPatch) (*dbm.Itinerary, error) {
	tx := infra.StartTransaction(r.db.WithContext(ctx))
	if tx.Error != nil {
		return nil, tx.Error
	}

	var itinerary dbm.Itinerary
	err := tx.Where("id = ? AND user_id = ?", id, ownerID).First(&itinerary).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = infra.ReleaseTransaction(tx, err)
		return nil, nil
	}
	if err == nil {
		patch.ApplyTo(&itinerary)
		err = tx.Save(&itinerary).Error
	}
	if err := infra.ReleaseTransaction(tx, err); err != nil {
		return nil, err
	}
	return &itinerary, nil
}

func (r *itineraryRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&dbm.Itinerary{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
