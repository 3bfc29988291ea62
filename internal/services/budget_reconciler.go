package services

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

// GenerationAttempt describes one round trip to the generative service.
type GenerationAttempt struct {
	Operation string
	Model     string
	Prompt    string
	Reply     string
	Sampling  utils.SamplingConfig
	Latency   time.Duration
	Err       error
}

func (a GenerationAttempt) Outcome() string {
	if a.Err == nil {
		return "success"
	}
	return utils.NewGenerationError(a.Err).Kind.Error()
}

// Reconciliation is the plan and breakdown fitted to a new budget.
type Reconciliation struct {
	Plan      db_models.GeneratedPlan
	Breakdown db_models.BudgetBreakdown
	Strategy  string
	Attempt   *GenerationAttempt
}

type BudgetReconcilerInterface interface {
	Reconcile(ctx context.Context, itinerary *db_models.Itinerary, newBudget float64) Reconciliation
}

type BudgetReconciler struct {
	generator utils.TextGenerator
	timeout   time.Duration
}

// NewBudgetReconciler returns a reconciler that asks generator first. A nil generator
// always takes the proportional fallback.
func NewBudgetReconciler(generator utils.TextGenerator, timeout time.Duration) *BudgetReconciler {
	return &BudgetReconciler{generator: generator, timeout: timeout}
}

// Reconcile never fails: any error on the generated path falls back to proportional scaling.
func (r *BudgetReconciler) Reconcile(ctx context.Context, itinerary *db_models.Itinerary, newBudget float64) Reconciliation {
	oldBudget := itinerary.TripDetails.TotalBudget
	days := itinerary.TripDetails.TotalDays

	if r.generator != nil {
		attempt := r.attempt(ctx, itinerary, newBudget)
		if attempt.Err == nil {
			breakdown, err := NormalizeBudgetReply(attempt.Reply, newBudget, days)
			if err == nil {
				return Reconciliation{
					Plan:      rescalePlan(itinerary.AIGeneratedPlan, oldBudget, newBudget, days),
					Breakdown: breakdown,
					Strategy:  db_models.BudgetStrategyAI,
					Attempt:   &attempt,
				}
			}
			attempt.Err = err
			log.Printf("Budget reply rejected, using fallback: %v (reply: %s)", err, excerpt(attempt.Reply, 500))
		} else {
			log.Printf("Budget optimization call failed, using fallback: %v", attempt.Err)
		}
		result := FallbackReconcile(itinerary, newBudget)
		result.Attempt = &attempt
		return result
	}

	return FallbackReconcile(itinerary, newBudget)
}

func (r *BudgetReconciler) attempt(ctx context.Context, itinerary *db_models.Itinerary, newBudget float64) GenerationAttempt {
	prompt := ComposeBudgetPrompt(itinerary, newBudget)
	attempt := GenerationAttempt{
		Operation: db_models.OperationOptimizeBudget,
		Model:     r.generator.Model(),
		Prompt:    prompt,
		Sampling:  BudgetSampling,
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	started := time.Now()
	attempt.Reply, attempt.Err = r.generator.Generate(ctx, prompt, BudgetSampling)
	attempt.Latency = time.Since(started)
	return attempt
}

// scale returns round(amount * newBudget / oldBudget).
func scale(amount, oldBudget, newBudget float64) float64 {
	return decimal.NewFromFloat(amount).
		Mul(decimal.NewFromFloat(newBudget)).
		Div(decimal.NewFromFloat(oldBudget)).
		Round(0).
		InexactFloat64()
}

// FallbackReconcile scales every category by newBudget/oldBudget and fixes the totals to a
// 95/5 split of newBudget, independent of the scaled category sum.
func FallbackReconcile(itinerary *db_models.Itinerary, newBudget float64) Reconciliation {
	oldBudget := itinerary.TripDetails.TotalBudget
	days := itinerary.TripDetails.TotalDays

	if oldBudget <= 0 {
		return Reconciliation{
			Plan:      rescalePlan(itinerary.AIGeneratedPlan, oldBudget, newBudget, days),
			Breakdown: DefaultBreakdown(newBudget, days),
			Strategy:  db_models.BudgetStrategyFallback,
		}
	}

	breakdown := itinerary.BudgetBreakdown
	for _, amount := range breakdown.Categories() {
		*amount = scale(*amount, oldBudget, newBudget)
	}
	breakdown.TotalSpent = share(newBudget, spentShare)
	breakdown.RemainingBudget = share(newBudget, remainingShare)
	breakdown.DailyAverage = dailyAverage(newBudget, days)

	return Reconciliation{
		Plan:      rescalePlan(itinerary.AIGeneratedPlan, oldBudget, newBudget, days),
		Breakdown: breakdown,
		Strategy:  db_models.BudgetStrategyFallback,
	}
}

// rescalePlan returns a copy of plan with each day's budget_allocated scaled to newBudget.
// Without a usable old budget every day gets an even share.
func rescalePlan(plan db_models.GeneratedPlan, oldBudget, newBudget float64, days int) db_models.GeneratedPlan {
	out := plan
	out.DailyItinerary = make([]db_models.DayPlan, len(plan.DailyItinerary))
	copy(out.DailyItinerary, plan.DailyItinerary)

	for i := range out.DailyItinerary {
		day := &out.DailyItinerary[i]
		if oldBudget <= 0 {
			day.BudgetAllocated = db_models.FlexFloat(dailyAverage(newBudget, days))
			continue
		}
		day.BudgetAllocated = db_models.FlexFloat(scale(day.BudgetAllocated.Float(), oldBudget, newBudget))
	}
	return out
}
