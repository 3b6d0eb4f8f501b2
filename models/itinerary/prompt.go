package itinerary

import (
	"fmt"
	"strings"

	"github.com/NomadCrew/nomad-diary-backend/types"
)

const systemPrompt = "You are an experienced travel planner. Answer with a single JSON object and nothing else."

// dedupe keeps the first occurrence of every destination, compared
// case-insensitively, and drops blanks.
func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if n == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}

func writeTripContext(b *strings.Builder, d types.TripDetails, duration int) {
	fmt.Fprintf(b, "Trip: %s\n", d.Title)
	fmt.Fprintf(b, "Dates: %s to %s (%d days)\n", d.StartDate, d.EndDate, duration)
	if dests := dedupe(d.Destinations); len(dests) > 0 {
		fmt.Fprintf(b, "Destinations: %s\n", strings.Join(dests, "; "))
	}
	if d.Budget != "" {
		fmt.Fprintf(b, "Budget: %s\n", d.Budget)
	}
	if d.Interests != "" {
		fmt.Fprintf(b, "Interests: %s\n", d.Interests)
	}
	if d.Notes != "" {
		fmt.Fprintf(b, "Notes: %s\n", d.Notes)
	}
	if d.HomeCountry != "" {
		fmt.Fprintf(b, "Travellers are from: %s. Mention visa, currency or plug differences only if relevant.\n", d.HomeCountry)
	}
}

// OptionsPrompt asks for three alternative day-by-day plans.
func OptionsPrompt(d types.TripDetails, duration int) string {
	var b strings.Builder
	b.WriteString("Propose 3 distinct itinerary options for the trip below.\n\n")
	writeTripContext(&b, d, duration)
	fmt.Fprintf(&b, `
Rules:
1. Every option covers exactly %d days, numbered from 1.
2. Give each day 2 to 5 activities.
3. Activity ids are unique within an option.
4. Activity type is one of: sightseeing, adventure, relaxation, cultural, culinary, other.

Respond with JSON of this shape:
{"itineraryOptions":[{"id":"option-1","title":"","description":"","highlights":[""],
"days":[{"dayNumber":1,"title":"","description":"","activities":[{"id":"a1","title":"",
"description":"","type":"sightseeing","location":"","duration":"","cost":""}],"meals":[""]}]}]}
`, duration)
	return b.String()
}

// FinalPrompt asks for a polished itinerary built only from the kept
// activities, listed per day.
func FinalPrompt(d types.TripDetails, duration int, selected []types.SelectedActivity) string {
	var b strings.Builder
	b.WriteString("Build the final itinerary for the trip below using only the selected activities.\n\n")
	writeTripContext(&b, d, duration)

	b.WriteString("\nSelected activities:\n")
	day := -1
	for _, a := range selected {
		if a.DayNumber != day {
			day = a.DayNumber
			fmt.Fprintf(&b, "Day %d:\n", day)
		}
		fmt.Fprintf(&b, "- %s (%s) at %s", a.Title, a.Type, a.Location)
		if a.Duration != "" {
			fmt.Fprintf(&b, ", %s", a.Duration)
		}
		if a.Cost != "" {
			fmt.Fprintf(&b, ", %s", a.Cost)
		}
		if a.Description != "" {
			fmt.Fprintf(&b, ": %s", a.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, `
Order each day sensibly, suggest times and meals, and add practical tips.
Respond with JSON of this shape:
{"finalItinerary":{"title":"","summary":"","days":[{"dayNumber":1,"date":"%s","title":"",
"activities":[{"time":"09:00","title":"","description":"","type":"","location":"","duration":"","cost":""}],
"meals":[""],"notes":""}],"tips":[""]}}
`, d.StartDate)
	return b.String()
}
