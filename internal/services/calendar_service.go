package services

import (
	"context"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"tripcraft/internal/models/db_models"
)

const calendarProductID = "-//tripcraft//itinerary//EN"

type CalendarServiceInterface interface {
	ExportItinerary(ctx context.Context, ownerID, id uuid.UUID) (string, error)
}

type CalendarService struct {
	itineraries ItineraryServiceInterface
}

func NewCalendarService(itineraries ItineraryServiceInterface) CalendarServiceInterface {
	return &CalendarService{itineraries: itineraries}
}

func (s *CalendarService) ExportItinerary(ctx context.Context, ownerID, id uuid.UUID) (string, error) {
	itinerary, err := s.itineraries.GetItinerary(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return BuildCalendar(itinerary).Serialize(), nil
}

// BuildCalendar renders flights, stays and day plans as events. Entries without usable
// dates are left out.
func BuildCalendar(itinerary *db_models.Itinerary) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(fmt.Sprintf("Trip to %s", itinerary.TripDetails.Destination))

	stamp := itinerary.Metadata.LastUpdated
	if stamp.IsZero() {
		stamp = itinerary.Metadata.GenerationTime
	}
	uid := func(kind string, i int) string {
		return fmt.Sprintf("%s-%s-%d@tripcraft", itinerary.ID, kind, i)
	}

	for i, f := range itinerary.AIGeneratedPlan.Flights {
		if f.DepartureTime.IsZero() {
			continue
		}
		end := f.ArrivalTime.Time
		if end.Before(f.DepartureTime.Time) {
			end = f.DepartureTime.Time
		}
		event := cal.AddEvent(uid("flight", i))
		event.SetDtStampTime(stamp)
		event.SetStartAt(f.DepartureTime.Time)
		event.SetEndAt(end)
		event.SetSummary(strings.TrimSpace(fmt.Sprintf("Flight %s %s to %s", f.FlightNumber, f.DepartureCity, f.ArrivalCity)))
		event.SetLocation(f.DepartureAirport)
		event.SetDescription(fmt.Sprintf("%s %s, %d stops", f.Airline, f.BookingClass, f.Stops.Int()))
	}

	for i, a := range itinerary.AIGeneratedPlan.Accommodations {
		if a.CheckIn.IsZero() {
			continue
		}
		checkOut := a.CheckOut.Time
		if !checkOut.After(a.CheckIn.Time) {
			checkOut = a.CheckIn.Time.AddDate(0, 0, 1)
		}
		event := cal.AddEvent(uid("stay", i))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(a.CheckIn.Time)
		event.SetAllDayEndAt(checkOut)
		event.SetSummary(fmt.Sprintf("Stay at %s", a.Name))
		event.SetLocation(strings.TrimSpace(strings.Join([]string{a.Location.Address, a.Location.City}, " ")))
		event.SetDescription(a.CancellationPolicy)
	}

	for i, d := range itinerary.AIGeneratedPlan.DailyItinerary {
		if d.Date.IsZero() {
			continue
		}
		event := cal.AddEvent(uid("day", i))
		event.SetDtStampTime(stamp)
		event.SetAllDayStartAt(d.Date.Time)
		event.SetAllDayEndAt(d.Date.Time.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("Day %d in %s", d.Day.Int(), itinerary.TripDetails.Destination))
		event.SetDescription(describeDay(d))
	}

	return cal
}

func describeDay(d db_models.DayPlan) string {
	var lines []string
	slot := func(label string, s *db_models.TimeSlot) {
		if s != nil && s.Activity != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", label, s.Activity))
		}
	}
	slot("Morning", d.Morning)
	slot("Afternoon", d.Afternoon)
	slot("Evening", d.Evening)
	if d.BudgetAllocated > 0 {
		lines = append(lines, fmt.Sprintf("Budget: %.0f", d.BudgetAllocated.Float()))
	}
	return strings.Join(lines, "\n")
}

