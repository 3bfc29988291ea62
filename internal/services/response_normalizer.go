package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tripcraft/internal/models/db_models"
	"tripcraft/pkg/utils"
)

var codeFence = regexp.MustCompile("(?i)```(?:json)?")

// FieldIssue records a field that was dropped while normalizing a reply.
type FieldIssue struct {
	Path  string
	Value string
}

func (f FieldIssue) String() string {
	return fmt.Sprintf("%s=%q", f.Path, f.Value)
}

// NormalizedPlan is a parsed generator reply. Breakdown is nil when the reply had none.
type NormalizedPlan struct {
	Plan      db_models.GeneratedPlan
	Breakdown *db_models.BudgetBreakdown
	Issues    []FieldIssue
}

// stripComments removes // and /* */ comments outside of JSON strings.
func stripComments(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			out.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		if c == '"' {
			inString = true
			out.WriteByte(c)
			continue
		}
		if c == '/' && i+1 < len(s) {
			switch s[i+1] {
			case '/':
				for i < len(s) && s[i] != '\n' {
					i++
				}
				if i < len(s) {
					out.WriteByte('\n')
				}
				continue
			case '*':
				end := strings.Index(s[i+2:], "*/")
				if end < 0 {
					return out.String()
				}
				i += end + 3
				continue
			}
		}
		out.WriteByte(c)
	}
	return out.String()
}

func stripFences(raw string) string {
	return codeFence.ReplaceAllString(strings.TrimSpace(raw), "")
}

// extractJSONObject returns the span from the first '{' to the last '}'. Comments are
// stripped only from the first '{' onward so quotes in leading prose cannot hide them.
func extractJSONObject(raw string) (string, error) {
	cleaned := stripFences(raw)
	start := strings.Index(cleaned, "{")
	if start == -1 {
		return "", fmt.Errorf("%w: no JSON object found in reply", utils.ErrMalformedResponse)
	}
	body := stripComments(cleaned[start:])
	end := strings.LastIndex(body, "}")
	if end == -1 {
		return "", fmt.Errorf("%w: no JSON object found in reply", utils.ErrMalformedResponse)
	}
	return body[:end+1], nil
}

func parseTopLevel(raw string) (map[string]json.RawMessage, error) {
	span, err := extractJSONObject(raw)
	if err != nil {
		return nil, err
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(span), &top); err != nil {
		return nil, fmt.Errorf("%w: reply is not valid JSON: %v", utils.ErrMalformedResponse, err)
	}
	return top, nil
}

func isNullOrEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// splitRecords splits a JSON array into its elements. A missing section yields no records.
func splitRecords(section string, raw json.RawMessage) ([]json.RawMessage, error) {
	if isNullOrEmpty(raw) {
		return nil, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%w: %s must be an array", utils.ErrIncompleteResponse, section)
	}
	return records, nil
}

// decodeRecord decodes one array element. Type mismatches on individual fields are tolerated;
// elements that are not objects are skipped.
func decodeRecord(path string, raw json.RawMessage, out interface{}, issues *[]FieldIssue) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		*issues = append(*issues, FieldIssue{Path: path, Value: string(trimmed)})
		return false
	}
	if err := json.Unmarshal(trimmed, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			*issues = append(*issues, FieldIssue{Path: path, Value: err.Error()})
			return false
		}
		*issues = append(*issues, FieldIssue{Path: path + "." + typeErr.Field, Value: typeErr.Value})
	}
	return true
}

func clearRejected(path string, t *db_models.FlexTime, issues *[]FieldIssue) {
	if value, rejected := t.Rejected(); rejected {
		*issues = append(*issues, FieldIssue{Path: path, Value: value})
		t.Clear()
	}
}

func requiredSections(top map[string]json.RawMessage) error {
	var missing []string
	for _, key := range []string{"flights", "accommodations", "daily_itinerary"} {
		if raw, ok := top[key]; !ok || isNullOrEmpty(raw) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", utils.ErrIncompleteResponse, strings.Join(missing, ", "))
	}
	return nil
}

// NormalizeItineraryReply turns a raw generator reply into a GeneratedPlan. Dates that fail to
// parse are cleared on their own record; days without a number or date are filled from trip.
func NormalizeItineraryReply(raw string, trip db_models.TripDetails) (*NormalizedPlan, error) {
	top, err := parseTopLevel(raw)
	if err != nil {
		return nil, err
	}
	if err := requiredSections(top); err != nil {
		return nil, err
	}

	out := &NormalizedPlan{}
	issues := &out.Issues

	flights, err := splitRecords("flights", top["flights"])
	if err != nil {
		return nil, err
	}
	for i, rec := range flights {
		path := fmt.Sprintf("flights[%d]", i)
		var f db_models.Flight
		if !decodeRecord(path, rec, &f, issues) {
			continue
		}
		clearRejected(path+".departure_time", &f.DepartureTime, issues)
		clearRejected(path+".arrival_time", &f.ArrivalTime, issues)
		out.Plan.Flights = append(out.Plan.Flights, f)
	}

	stays, err := splitRecords("accommodations", top["accommodations"])
	if err != nil {
		return nil, err
	}
	for i, rec := range stays {
		path := fmt.Sprintf("accommodations[%d]", i)
		var a db_models.Accommodation
		if !decodeRecord(path, rec, &a, issues) {
			continue
		}
		clearRejected(path+".check_in", &a.CheckIn, issues)
		clearRejected(path+".check_out", &a.CheckOut, issues)
		out.Plan.Accommodations = append(out.Plan.Accommodations, a)
	}

	activities, err := splitRecords("activities", top["activities"])
	if err != nil {
		return nil, err
	}
	for i, rec := range activities {
		var a db_models.Activity
		if decodeRecord(fmt.Sprintf("activities[%d]", i), rec, &a, issues) {
			out.Plan.Activities = append(out.Plan.Activities, a)
		}
	}

	days, err := splitRecords("daily_itinerary", top["daily_itinerary"])
	if err != nil {
		return nil, err
	}
	for i, rec := range days {
		path := fmt.Sprintf("daily_itinerary[%d]", i)
		var d db_models.DayPlan
		if !decodeRecord(path, rec, &d, issues) {
			continue
		}
		_, rejected := d.Date.Rejected()
		clearRejected(path+".date", &d.Date, issues)
		if d.Day == 0 {
			d.Day = db_models.FlexInt(i + 1)
		}
		if d.Date.IsZero() && !rejected && !trip.StartDate.IsZero() {
			d.Date = db_models.NewFlexTime(trip.StartDate.AddDate(0, 0, int(d.Day)-1))
		}
		out.Plan.DailyItinerary = append(out.Plan.DailyItinerary, d)
	}

	if raw, ok := top["budget_breakdown"]; ok {
		if breakdown, found := decodeBreakdown(raw); found {
			out.Breakdown = &breakdown
		}
	}

	return out, nil
}

var breakdownKeys = map[string]func(b *db_models.BudgetBreakdown) *float64{
	"flights":          func(b *db_models.BudgetBreakdown) *float64 { return &b.Flights },
	"accommodation":    func(b *db_models.BudgetBreakdown) *float64 { return &b.Accommodation },
	"activities":       func(b *db_models.BudgetBreakdown) *float64 { return &b.Activities },
	"food":             func(b *db_models.BudgetBreakdown) *float64 { return &b.Food },
	"transportation":   func(b *db_models.BudgetBreakdown) *float64 { return &b.Transportation },
	"shopping":         func(b *db_models.BudgetBreakdown) *float64 { return &b.Shopping },
	"miscellaneous":    func(b *db_models.BudgetBreakdown) *float64 { return &b.Miscellaneous },
	"total_spent":      func(b *db_models.BudgetBreakdown) *float64 { return &b.TotalSpent },
	"remaining_budget": func(b *db_models.BudgetBreakdown) *float64 { return &b.RemainingBudget },
	"daily_average":    func(b *db_models.BudgetBreakdown) *float64 { return &b.DailyAverage },
}

var totalKeys = map[string]bool{"total_spent": true, "remaining_budget": true, "daily_average": true}

// breakdownFields remembers which derived totals a reply actually carried.
type breakdownFields struct {
	categories int
	totals     map[string]bool
}

func decodeBreakdownFields(raw json.RawMessage) (db_models.BudgetBreakdown, breakdownFields) {
	var b db_models.BudgetBreakdown
	seen := breakdownFields{totals: map[string]bool{}}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return b, seen
	}
	for rawKey, value := range fields {
		key := strings.ToLower(strings.TrimSpace(rawKey))
		target, ok := breakdownKeys[key]
		if !ok {
			continue
		}
		*target(&b) = db_models.CoerceNumber(value)
		if totalKeys[key] {
			seen.totals[key] = true
		} else {
			seen.categories++
		}
	}
	return b, seen
}

// decodeBreakdown reads a budget_breakdown object, coercing every known field to a number.
// found is false when no category key is present.
func decodeBreakdown(raw json.RawMessage) (db_models.BudgetBreakdown, bool) {
	b, seen := decodeBreakdownFields(raw)
	return b, seen.categories > 0
}

// NormalizeBudgetReply parses a reconciliation reply, wrapped in {"budget_breakdown": ...} or bare.
// Missing categories are 0 and missing totals are derived from newBudget and totalDays.
func NormalizeBudgetReply(raw string, newBudget float64, totalDays int) (db_models.BudgetBreakdown, error) {
	top, err := parseTopLevel(raw)
	if err != nil {
		return db_models.BudgetBreakdown{}, err
	}

	section := json.RawMessage(nil)
	if wrapped, ok := top["budget_breakdown"]; ok && !isNullOrEmpty(wrapped) {
		section = wrapped
	} else {
		span, _ := extractJSONObject(raw)
		section = json.RawMessage(span)
	}

	b, seen := decodeBreakdownFields(section)
	if seen.categories == 0 {
		return db_models.BudgetBreakdown{}, fmt.Errorf("%w: budget_breakdown has no categories", utils.ErrIncompleteResponse)
	}

	if !seen.totals["total_spent"] {
		b.TotalSpent = roundAmount(b.CategorySum())
	}
	if !seen.totals["remaining_budget"] {
		b.RemainingBudget = roundAmount(newBudget - b.TotalSpent)
	}
	if !seen.totals["daily_average"] {
		b.DailyAverage = dailyAverage(newBudget, totalDays)
	}
	return b, nil
}

func excerpt(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func describeIssues(issues []FieldIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, issue.String())
	}
	return strings.Join(parts, ", ")
}
