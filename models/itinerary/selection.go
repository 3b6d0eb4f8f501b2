package itinerary

import (
	"errors"

	"github.com/NomadCrew/nomad-diary-backend/types"
)

var ErrUnknownActivity = errors.New("activity is not part of the selected option")

// SelectionMap records which activities of one option are kept. Every
// activity starts selected; toggling flips the flag and never drops the key.
type SelectionMap map[string]bool

// NewSelectionMap selects every activity of o.
func NewSelectionMap(o types.ItineraryOption) SelectionMap {
	m := make(SelectionMap, o.ActivityCount())
	for _, d := range o.Days {
		for _, a := range d.Activities {
			m[a.ID] = true
		}
	}
	return m
}

// Toggle flips id and returns the new value.
func (m SelectionMap) Toggle(id string) (bool, error) {
	v, ok := m[id]
	if !ok {
		return false, ErrUnknownActivity
	}
	m[id] = !v
	return !v, nil
}

// Count returns the number of selected activities.
func (m SelectionMap) Count() int {
	n := 0
	for _, v := range m {
		if v {
			n++
		}
	}
	return n
}

// Flatten returns the selected activities of o in day order, each tagged
// with its day number.
func (m SelectionMap) Flatten(o types.ItineraryOption) []types.SelectedActivity {
	out := make([]types.SelectedActivity, 0, m.Count())
	for _, d := range o.Days {
		for _, a := range d.Activities {
			if m[a.ID] {
				out = append(out, types.SelectedActivity{ActivityOption: a, DayNumber: d.DayNumber})
			}
		}
	}
	return out
}
