package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tripcraft/internal/models/db_models"
)

func TestDeriveStatus(t *testing.T) {
	start, end := day(10), day(15)

	tests := []struct {
		name    string
		current db_models.ItineraryStatus
		now     time.Time
		want    db_models.ItineraryStatus
	}{
		{"before start", db_models.StatusDraft, day(1), db_models.StatusConfirmed},
		{"on start", db_models.StatusConfirmed, start, db_models.StatusInProgress},
		{"during", db_models.StatusDraft, day(12), db_models.StatusInProgress},
		{"on end", db_models.StatusInProgress, end, db_models.StatusInProgress},
		{"after end", db_models.StatusInProgress, day(16), db_models.StatusCompleted},
		{"completed moves back when dates move", db_models.StatusCompleted, day(1), db_models.StatusConfirmed},
		{"unknown status is re-derived", db_models.ItineraryStatus("archived"), day(12), db_models.StatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.current, start, end, tt.now))
		})
	}
}

func TestDeriveStatus_CancelledIsAbsorbing(t *testing.T) {
	start, end := day(10), day(15)
	for offset := -30; offset <= 30; offset++ {
		assert.Equal(t, db_models.StatusCancelled, DeriveStatus(db_models.StatusCancelled, start, end, day(offset)))
	}
}

func TestApplyStatus_IsIdempotent(t *testing.T) {
	it := lisbonItinerary(testOwner)
	earlier := testNow.Add(-time.Hour)
	it.Metadata.LastUpdated = earlier

	changed := ApplyStatus(it, testNow)
	assert.True(t, changed)
	assert.Equal(t, db_models.StatusConfirmed, it.Status)
	assert.Equal(t, testNow, it.Metadata.LastUpdated)

	changed = ApplyStatus(it, testNow)
	assert.False(t, changed)
	assert.Equal(t, db_models.StatusConfirmed, it.Status)
	assert.Equal(t, testNow, it.Metadata.LastUpdated)
}
