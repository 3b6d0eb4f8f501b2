// Package wizard drives trip creation as a step machine over a TripDraft.
// Both the two-step and the five-step flows are slices of the same Step
// type; the session only knows how to move between indices.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"github.com/NomadCrew/nomad-diary-backend/types"
)

type StepName string

const (
	StepDestinationSelection StepName = "destination_selection"
	StepTripDetails          StepName = "trip_details"

	StepBasicInfo     StepName = "basic_info"
	StepDestinations  StepName = "destinations"
	StepDailySchedule StepName = "daily_schedule"
	StepTravelDetails StepName = "travel_details"
	StepAccommodation StepName = "accommodation"
)

// Variant names a step list. Sessions store the name, not the steps, so they
// survive a round trip through the handoff cache.
type Variant string

const (
	VariantTwoStep  Variant = "two_step"
	VariantFiveStep Variant = "five_step"
)

// Step is one page of the wizard. Valid gates leaving the step forwards;
// Requirement is the message shown when it does not hold. OnNext, when set,
// runs after a successful gate and may fill in derived draft fields.
type Step struct {
	Name        StepName
	Requirement string
	Valid       func(d *types.TripDraft) bool
	OnNext      func(ctx context.Context, d *types.TripDraft) error
}

func always(*types.TripDraft) bool { return true }

func hasDestination(d *types.TripDraft) bool {
	return d.Destinations.Len() > 0
}

func hasBasicInfo(d *types.TripDraft) bool {
	return strings.TrimSpace(d.Title) != "" && d.StartDate != "" && d.EndDate != ""
}

func destinationsNamed(d *types.TripDraft) bool {
	if d.Destinations.Len() == 0 {
		return false
	}
	for _, dest := range d.Destinations.Items() {
		if strings.TrimSpace(dest.Name) == "" {
			return false
		}
	}
	return true
}

func schedulesFilled(d *types.TripDraft) bool {
	if len(d.DaySchedules) == 0 {
		return false
	}
	for _, s := range d.DaySchedules {
		if strings.TrimSpace(s.Activities) == "" {
			return false
		}
	}
	return true
}

// seedSchedules gives every trip day an empty schedule row, dated when the
// trip dates parse, so the schedule step has something to fill in.
func seedSchedules(_ context.Context, d *types.TripDraft) error {
	if len(d.DaySchedules) > 0 {
		return nil
	}
	start, end, err := types.ParseTripDates(d.StartDate, d.EndDate)
	if err != nil {
		return nil
	}
	days := types.TripDuration(start, end)
	d.DaySchedules = make([]types.DaySchedule, 0, days)
	for i := 0; i < days; i++ {
		d.DaySchedules = append(d.DaySchedules, types.DaySchedule{
			DayNumber: i + 1,
			Date:      start.AddDate(0, 0, i).Format(types.DateLayout),
		})
	}
	return nil
}

var (
	twoStep = []Step{
		{Name: StepDestinationSelection, Requirement: "select at least one destination", Valid: hasDestination},
		{Name: StepTripDetails, Requirement: "title, start date and end date are required", Valid: hasBasicInfo},
	}

	fiveStep = []Step{
		{Name: StepBasicInfo, Requirement: "title, start date and end date are required", Valid: hasBasicInfo},
		{Name: StepDestinations, Requirement: "add at least one destination and name every destination", Valid: destinationsNamed, OnNext: seedSchedules},
		{Name: StepDailySchedule, Requirement: "every day needs at least one planned activity", Valid: schedulesFilled},
		{Name: StepTravelDetails, Valid: always},
		{Name: StepAccommodation, Valid: always},
	}
)

// Steps returns the step list for v.
func Steps(v Variant) ([]Step, error) {
	switch v {
	case VariantTwoStep:
		return twoStep, nil
	case VariantFiveStep:
		return fiveStep, nil
	}
	return nil, fmt.Errorf("unknown wizard variant %q", v)
}
