package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripcraft/internal/infra"
	dbm "tripcraft/internal/models/db_models"
)

// itineraryDocument is the mongo shape of an itinerary. The generated plan and budget
// breakdown go through their JSON form so lenient field types round-trip unchanged.
type itineraryDocument struct {
	ID              string                 `bson:"_id"`
	UserID          string                 `bson:"user_id"`
	TripDetails     dbm.TripDetails        `bson:"trip_details"`
	Preferences     dbm.Preferences        `bson:"preferences"`
	AIGeneratedPlan bson.D                 `bson:"ai_generated_plan"`
	BudgetBreakdown bson.D                 `bson:"budget_breakdown"`
	Status          string                 `bson:"status"`
	Metadata        dbm.GenerationMetadata `bson:"metadata"`
	CreatedAt       int64                  `bson:"created_at"`
	UpdatedAt       int64                  `bson:"updated_at"`
}

func toExtJSONDoc(v interface{}) (bson.D, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.D
	if err := bson.UnmarshalExtJSON(raw, false, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromExtJSONDoc(doc bson.D, out interface{}) error {
	if len(doc) == 0 {
		return nil
	}
	raw, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func newItineraryDocument(it *dbm.Itinerary) (*itineraryDocument, error) {
	plan, err := toExtJSONDoc(it.AIGeneratedPlan)
	if err != nil {
		return nil, fmt.Errorf("encode plan: %w", err)
	}
	breakdown, err := toExtJSONDoc(it.BudgetBreakdown)
	if err != nil {
		return nil, fmt.Errorf("encode budget breakdown: %w", err)
	}
	return &itineraryDocument{
		ID:              it.ID.String(),
		UserID:          it.UserID.String(),
		TripDetails:     it.TripDetails,
		Preferences:     it.Preferences,
		AIGeneratedPlan: plan,
		BudgetBreakdown: breakdown,
		Status:          string(it.Status),
		Metadata:        it.Metadata,
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}, nil
}

func (d *itineraryDocument) toModel() (*dbm.Itinerary, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode id: %w", err)
	}
	userID, err := uuid.Parse(d.UserID)
	if err != nil {
		return nil, fmt.Errorf("decode user id: %w", err)
	}
	it := &dbm.Itinerary{
		UserID:      userID,
		TripDetails: d.TripDetails,
		Preferences: d.Preferences,
		Status:      dbm.ItineraryStatus(d.Status),
		Metadata:    d.Metadata,
	}
	it.ID = id
	it.CreatedAt = d.CreatedAt
	it.UpdatedAt = d.UpdatedAt
	it.TripDetails.StartDate = it.TripDetails.StartDate.UTC()
	it.TripDetails.EndDate = it.TripDetails.EndDate.UTC()
	if err := fromExtJSONDoc(d.AIGeneratedPlan, &it.AIGeneratedPlan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}
	if err := fromExtJSONDoc(d.BudgetBreakdown, &it.BudgetBreakdown); err != nil {
		return nil, fmt.Errorf("decode budget breakdown: %w", err)
	}
	return it, nil
}

type mongoItineraryRepository struct {
	collection *mongo.Collection
}

func NewMongoItineraryRepository(db *mongo.Database) ItineraryRepository {
	return &mongoItineraryRepository{collection: db.Collection(infra.ItinerariesCollection)}
}

func ownedBy(id, ownerID uuid.UUID) bson.M {
	return bson.M{"_id": id.String(), "user_id": ownerID.String()}
}

func (r *mongoItineraryRepository) Create(ctx context.Context, itinerary *dbm.Itinerary) error {
	itinerary.EnsureID()
	now := nowUnix()
	if itinerary.CreatedAt == 0 {
		itinerary.CreatedAt = now
	}
	itinerary.UpdatedAt = now

	doc, err := newItineraryDocument(itinerary)
	if err != nil {
		return err
	}
	_, err = r.collection.InsertOne(ctx, doc)
	return err
}

func (r *mongoItineraryRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, filter ItineraryFilter) ([]dbm.Itinerary, int64, error) {
	query := bson.M{"user_id": ownerID.String()}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(filter.offset())).
		SetLimit(int64(filter.PageSize))
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var itineraries []dbm.Itinerary
	for cursor.Next(ctx) {
		var doc itineraryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		it, err := doc.toModel()
		if err != nil {
			return nil, 0, err
		}
		itineraries = append(itineraries, *it)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return itineraries, total, nil
}

func (r *mongoItineraryRepository) FindOne(ctx context.Context, id, ownerID uuid.UUID) (*dbm.Itinerary, error) {
	var doc itineraryDocument
	err := r.collection.FindOne(ctx, ownedBy(id, ownerID)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *mongoItineraryRepository) FindOneAndUpdate(ctx context.Context, id, ownerID uuid.UUID, patch ItineraryPatch) (*dbm.Itinerary, error) {
	set := bson.M{"updated_at": nowUnix()}
	if patch.TripDetails != nil {
		set["trip_details"] = *patch.TripDetails
	}
	if patch.Preferences != nil {
		set["preferences"] = *patch.Preferences
	}
	if patch.AIGeneratedPlan != nil {
		plan, err := toExtJSONDoc(*patch.AIGeneratedPlan)
		if err != nil {
			return nil, fmt.Errorf("encode plan: %w", err)
		}
		set["ai_generated_plan"] = plan
	}
	if patch.BudgetBreakdown != nil {
		breakdown, err := toExtJSONDoc(*patch.BudgetBreakdown)
		if err != nil {
			return nil, fmt.Errorf("encode budget breakdown: %w", err)
		}
		set["budget_breakdown"] = breakdown
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.Metadata != nil {
		set["metadata"] = *patch.Metadata
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc itineraryDocument
	err := r.collection.FindOneAndUpdate(ctx, ownedBy(id, ownerID), bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.toModel()
}

func (r *mongoItineraryRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result, err := r.collection.DeleteOne(ctx, ownedBy(id, ownerID))
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
