package itinerary

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/NomadCrew/nomad-diary-backend/pkg/llm"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

var (
	ErrNotObject     = errors.New("response is not a JSON object")
	ErrMissingKey    = errors.New("required key is missing")
	ErrWrongKeyShape = errors.New("key has the wrong JSON type")
)

// topLevel decodes raw as an object and returns the value under key after
// checking that it starts with want ('[' or '{').
func topLevel(raw, key string, want byte) (json.RawMessage, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	if obj == nil {
		return nil, ErrNotObject
	}
	v, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingKey, key)
	}
	v = bytes.TrimSpace(v)
	if len(v) == 0 || v[0] != want {
		return nil, fmt.Errorf("%w: %s", ErrWrongKeyShape, key)
	}
	return v, nil
}

// ParseOptions reads {"itineraryOptions": [...]}. An empty array is valid.
// Missing ids are filled in and unknown activity types become "other" so the
// selection model always has stable keys.
func ParseOptions(raw string) ([]types.ItineraryOption, error) {
	v, err := topLevel(raw, "itineraryOptions", '[')
	if err != nil {
		return nil, err
	}
	var options []types.ItineraryOption
	if err := json.Unmarshal(v, &options); err != nil {
		return nil, fmt.Errorf("%w: itineraryOptions: %v", ErrWrongKeyShape, err)
	}
	if options == nil {
		options = []types.ItineraryOption{}
	}
	assignOptionIDs(options)
	for i := range options {
		normalizeOption(&options[i])
	}
	return options, nil
}

// assignOptionIDs makes option ids unique. The first option carrying an
// explicit id keeps it; options without one, or repeating an earlier one,
// get the lowest free option-N at or above their position.
func assignOptionIDs(options []types.ItineraryOption) {
	owner := make(map[string]int, len(options))
	for i, o := range options {
		if _, taken := owner[o.ID]; o.ID != "" && !taken {
			owner[o.ID] = i
		}
	}
	for i := range options {
		o := &options[i]
		if at, ok := owner[o.ID]; ok && at == i {
			continue
		}
		n := i + 1
		for {
			if _, taken := owner[fmt.Sprintf("option-%d", n)]; !taken {
				break
			}
			n++
		}
		o.ID = fmt.Sprintf("option-%d", n)
		owner[o.ID] = i
	}
}

func normalizeOption(o *types.ItineraryOption) {
	seen := map[string]struct{}{}
	for d := range o.Days {
		day := &o.Days[d]
		if day.DayNumber <= 0 {
			day.DayNumber = d + 1
		}
		for a := range day.Activities {
			act := &day.Activities[a]
			if _, dup := seen[act.ID]; act.ID == "" || dup {
				act.ID = fmt.Sprintf("%s-d%d-a%d", o.ID, day.DayNumber, a+1)
			}
			seen[act.ID] = struct{}{}
			if !act.Type.IsValid() {
				act.Type = types.ActivityOther
			}
		}
	}
}

// ParseFinal reads {"finalItinerary": {...}}.
func ParseFinal(raw string) (*types.Itinerary, error) {
	v, err := topLevel(raw, "finalItinerary", '{')
	if err != nil {
		return nil, err
	}
	var it types.Itinerary
	if err := json.Unmarshal(v, &it); err != nil {
		return nil, fmt.Errorf("%w: finalItinerary: %v", ErrWrongKeyShape, err)
	}
	if it.Days == nil {
		it.Days = []types.ItineraryDay{}
	}
	return &it, nil
}
