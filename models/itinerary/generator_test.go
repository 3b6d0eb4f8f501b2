package itinerary

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/pkg/llm"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// scriptedCompleter replays canned responses in order and records prompts.
type scriptedCompleter struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (c *scriptedCompleter) Name() string { return "scripted" }

func (c *scriptedCompleter) CompleteJSON(_ context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := len(c.prompts)
	c.prompts = append(c.prompts, req.Prompt)
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	if err != nil {
		return "", err
	}
	if i < len(c.responses) {
		return c.responses[i], nil
	}
	return "", llm.ErrEmptyResponse
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	restore := logger.Replace(zap.New(core).Sugar())
	t.Cleanup(restore)
	return logs
}

func TestGenerator_Duration(t *testing.T) {
	g := NewGenerator(nil, nil, 3)

	tests := []struct {
		name      string
		start     string
		end       string
		want      int
		wantWarns int
	}{
		{"one week", "2025-06-15", "2025-06-22", 8, 0},
		{"same day", "2025-06-15", "2025-06-15", 1, 0},
		{"reversed", "2025-06-22", "2025-06-15", 3, 1},
		{"missing end", "2025-06-15", "", 3, 1},
		{"malformed", "June 15", "2025-06-22", 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := observeLogs(t)
			got := g.Duration(types.TripDetails{StartDate: tt.start, EndDate: tt.end})
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantWarns, logs.FilterMessage("Trip duration is not positive, using default").Len())
		})
	}
}

func TestGenerator_OptionsPrompt(t *testing.T) {
	c := &scriptedCompleter{responses: []string{`{"itineraryOptions":[]}`}}
	g := NewGenerator(c, nil, 3)

	opts, err := g.GenerateOptions(context.Background(), types.TripDetails{
		Title:        "Japan",
		StartDate:    "2025-06-15",
		EndDate:      "2025-06-17",
		Budget:       "2000 USD",
		Interests:    "food",
		Destinations: []string{"Tokyo, Japan", "Kyoto, Japan", "tokyo, japan", " "},
		HomeCountry:  "Portugal",
	})
	require.NoError(t, err)
	assert.Empty(t, opts)

	require.Len(t, c.prompts, 1)
	p := c.prompts[0]
	assert.Contains(t, p, "Destinations: Tokyo, Japan; Kyoto, Japan\n")
	assert.Contains(t, p, "(3 days)")
	assert.Contains(t, p, "exactly 3 days")
	assert.Contains(t, p, "Budget: 2000 USD")
	assert.Contains(t, p, "Travellers are from: Portugal")
	assert.Equal(t, 1, strings.Count(p, "Tokyo, Japan"))
}

func TestGenerator_Errors(t *testing.T) {
	ctx := context.Background()
	details := types.TripDetails{Title: "T", StartDate: "2025-06-15", EndDate: "2025-06-16", Destinations: []string{"Lisbon, Portugal"}}

	t.Run("options need a destination", func(t *testing.T) {
		c := &scriptedCompleter{responses: []string{`{"itineraryOptions":[]}`}}
		g := NewGenerator(c, nil, 3)
		for _, dests := range [][]string{nil, {" ", ""}} {
			_, err := g.GenerateOptions(ctx, types.TripDetails{Title: "x", StartDate: "2025-06-15", EndDate: "2025-06-22", Destinations: dests})
			assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
		}
		assert.Empty(t, c.prompts, "provider must not be called")
	})

	t.Run("provider failure", func(t *testing.T) {
		g := NewGenerator(&scriptedCompleter{errs: []error{errors.New("quota exceeded")}}, nil, 3)
		_, err := g.GenerateOptions(ctx, details)
		assert.True(t, apperrors.IsType(err, apperrors.ProviderError))
	})

	t.Run("shape mismatch", func(t *testing.T) {
		c := &scriptedCompleter{responses: []string{`{"itineraryOptions":{"oops":true}}`}}
		g := NewGenerator(c, nil, 3)
		_, err := g.GenerateOptions(ctx, details)
		assert.True(t, apperrors.IsType(err, apperrors.ParseError))
		assert.Len(t, c.prompts, 1, "parse failures are not retried")
	})

	t.Run("final needs activities", func(t *testing.T) {
		c := &scriptedCompleter{}
		g := NewGenerator(c, nil, 3)
		_, err := g.GenerateFinal(ctx, details, nil)
		assert.True(t, apperrors.IsType(err, apperrors.ValidationError))
		assert.Empty(t, c.prompts)
	})

	t.Run("final must be an object", func(t *testing.T) {
		g := NewGenerator(&scriptedCompleter{responses: []string{`{"finalItinerary":"done"}`}}, nil, 3)
		_, err := g.GenerateFinal(ctx, details, []types.SelectedActivity{{ActivityOption: types.ActivityOption{ID: "a"}, DayNumber: 1}})
		assert.True(t, apperrors.IsType(err, apperrors.ParseError))
	})
}

func TestFinalPrompt_GroupsByDay(t *testing.T) {
	p := FinalPrompt(types.TripDetails{Title: "T", StartDate: "2025-06-15", EndDate: "2025-06-16"}, 2, []types.SelectedActivity{
		{ActivityOption: types.ActivityOption{ID: "a1", Title: "Senso-ji", Type: types.ActivityCultural, Location: "Asakusa"}, DayNumber: 1},
		{ActivityOption: types.ActivityOption{ID: "a2", Title: "Ramen", Type: types.ActivityCulinary, Location: "Ueno", Cost: "¥1200"}, DayNumber: 1},
		{ActivityOption: types.ActivityOption{ID: "b1", Title: "Meiji Shrine", Type: types.ActivityCultural, Location: "Harajuku"}, DayNumber: 2},
	})
	assert.Equal(t, 1, strings.Count(p, "Day 1:"))
	assert.Contains(t, p, "- Ramen (culinary) at Ueno, ¥1200\n")
	assert.Less(t, strings.Index(p, "Day 1:"), strings.Index(p, "Day 2:"))
}
