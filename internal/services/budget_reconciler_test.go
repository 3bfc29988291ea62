package services

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

func TestFallbackReconcile_HalvedBudget(t *testing.T) {
	it := lisbonItinerary(testOwner)

	result := FallbackReconcile(it, 1000)

	b := result.Breakdown
	assert.Equal(t, 350.0, b.Flights)
	assert.Equal(t, 300.0, b.Accommodation)
	assert.Equal(t, 150.0, b.Activities)
	assert.Equal(t, 150.0, b.Food)
	assert.Equal(t, 50.0, b.Transportation)
	assert.Equal(t, 950.0, b.TotalSpent)
	assert.Equal(t, 50.0, b.RemainingBudget)
	assert.Equal(t, 200.0, b.DailyAverage)
	assert.Equal(t, db_models.BudgetStrategyFallback, result.Strategy)

	require.Len(t, result.Plan.DailyItinerary, 2)
	assert.Equal(t, 200.0, result.Plan.DailyItinerary[0].BudgetAllocated.Float())
	assert.Equal(t, 400.0, it.AIGeneratedPlan.DailyItinerary[0].BudgetAllocated.Float(), "input plan must not change")
}

func TestFallbackReconcile_ScalesAnyDistribution(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 200; i++ {
		oldBudget := float64(rng.Intn(100000) + 1)
		newBudget := float64(rng.Intn(100000) + 1)
		it := lisbonItinerary(testOwner)
		it.TripDetails.TotalBudget = oldBudget
		original := db_models.BudgetBreakdown{
			Flights:        float64(rng.Intn(5000)),
			Accommodation:  float64(rng.Intn(5000)),
			Activities:     float64(rng.Intn(5000)),
			Food:           float64(rng.Intn(5000)),
			Transportation: float64(rng.Intn(5000)),
			Shopping:       float64(rng.Intn(5000)),
			Miscellaneous:  float64(rng.Intn(5000)),
		}
		it.BudgetBreakdown = original

		b := FallbackReconcile(it, newBudget).Breakdown

		assert.Equal(t, math.Round(newBudget*0.95)+math.Round(newBudget*0.05), b.TotalSpent+b.RemainingBudget)
		got := b.Categories()
		for j, orig := range original.Categories() {
			assert.Equal(t, math.Round(*orig*newBudget/oldBudget), *got[j], "case %d category %d", i, j)
		}
	}
}

func TestFallbackReconcile_ZeroOldBudgetUsesDefaultWeights(t *testing.T) {
	it := lisbonItinerary(testOwner)
	it.TripDetails.TotalBudget = 0

	result := FallbackReconcile(it, 1000)

	assert.Equal(t, DefaultBreakdown(1000, 5), result.Breakdown)
	assert.Equal(t, 200.0, result.Plan.DailyItinerary[1].BudgetAllocated.Float())
}

func TestBudgetReconciler_UsesGeneratedBreakdown(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"budget_breakdown": {"flights": 300, "accommodation": 320, "activities": 120, "food": 160, "transportation": 50}}`}}
	r := NewBudgetReconciler(gen, 0)

	result := r.Reconcile(context.Background(), lisbonItinerary(testOwner), 1000)

	assert.Equal(t, db_models.BudgetStrategyAI, result.Strategy)
	assert.Equal(t, 300.0, result.Breakdown.Flights)
	assert.Equal(t, 950.0, result.Breakdown.TotalSpent)
	assert.Equal(t, 50.0, result.Breakdown.RemainingBudget)
	assert.Equal(t, 200.0, result.Plan.DailyItinerary[0].BudgetAllocated.Float())
	require.NotNil(t, result.Attempt)
	assert.NoError(t, result.Attempt.Err)
	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "New Budget: 1000")
}

func TestBudgetReconciler_FallsBackOnAnyFailure(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"unavailable": {errs: []error{utils.ErrServiceUnavailable}},
		"service":     {errs: []error{errors.New("boom")}},
		"malformed":   {replies: []string{"no json here"}},
		"incomplete":  {replies: []string{`{"budget_breakdown": {}}`}},
	}
	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			result := NewBudgetReconciler(gen, 0).Reconcile(context.Background(), lisbonItinerary(testOwner), 1000)

			assert.Equal(t, db_models.BudgetStrategyFallback, result.Strategy)
			assert.Equal(t, 350.0, result.Breakdown.Flights)
			assert.Equal(t, 950.0, result.Breakdown.TotalSpent)
			require.NotNil(t, result.Attempt)
			assert.Error(t, result.Attempt.Err)
		})
	}
}

func TestBudgetReconciler_NilGeneratorGoesStraightToFallback(t *testing.T) {
	result := NewBudgetReconciler(nil, 0).Reconcile(context.Background(), lisbonItinerary(testOwner), 1000)

	assert.Equal(t, db_models.BudgetStrategyFallback, result.Strategy)
	assert.Nil(t, result.Attempt)
}
