// Package itinerary turns trip details into AI-proposed itinerary options,
// lets the owner prune one option, and synthesises the final itinerary.
package itinerary

import (
	"context"
	"time"

	apperrors "github.com/NomadCrew/nomad-diary-backend/errors"
	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	"github.com/NomadCrew/nomad-diary-backend/logger"
	"github.com/NomadCrew/nomad-diary-backend/pkg/llm"
	"github.com/NomadCrew/nomad-diary-backend/types"
)

const (
	opGenerateOptions = "generate_options"
	opGenerateFinal   = "generate_final"
)

// Generator calls the completion provider. It does not retry.
type Generator struct {
	completer   llm.Completer
	metrics     *metrics.Metrics
	defaultDays int
}

func NewGenerator(completer llm.Completer, m *metrics.Metrics, defaultDays int) *Generator {
	if defaultDays <= 0 {
		defaultDays = 3
	}
	return &Generator{completer: completer, metrics: m, defaultDays: defaultDays}
}

// Duration returns the inclusive day count of d, falling back to the
// default when the dates are missing, malformed or reversed.
func (g *Generator) Duration(d types.TripDetails) int {
	start, end, err := types.ParseTripDates(d.StartDate, d.EndDate)
	days := 0
	if err == nil {
		days = types.TripDuration(start, end)
	}
	if days <= 0 {
		logger.GetLogger().Warnw("Trip duration is not positive, using default",
			"startDate", d.StartDate,
			"endDate", d.EndDate,
			"default", g.defaultDays)
		return g.defaultDays
	}
	return days
}

func (g *Generator) complete(ctx context.Context, op, prompt string) (string, error) {
	started := time.Now()
	raw, err := g.completer.CompleteJSON(ctx, llm.Request{System: systemPrompt, Prompt: prompt})
	g.metrics.ObserveAI(op, started, err)
	if err != nil {
		logger.GetLogger().Errorw("AI completion failed", "operation", op, "provider", g.completer.Name(), "error", err)
		return "", apperrors.ProviderFailed("AI", err)
	}
	return raw, nil
}

// GenerateOptions proposes itinerary options for d. A trip without any
// destination is rejected before the provider is called.
func (g *Generator) GenerateOptions(ctx context.Context, d types.TripDetails) ([]types.ItineraryOption, error) {
	if len(dedupe(d.Destinations)) == 0 {
		return nil, apperrors.ValidationFailed("At least one destination is required", "")
	}
	duration := g.Duration(d)
	raw, err := g.complete(ctx, opGenerateOptions, OptionsPrompt(d, duration))
	if err != nil {
		return nil, err
	}
	options, err := ParseOptions(raw)
	if err != nil {
		logger.GetLogger().Warnw("AI options response rejected", "error", err, "bytes", len(raw))
		return nil, apperrors.ParseFailed("Failed to parse itinerary options", err)
	}
	logger.GetLogger().Infow("Itinerary options generated", "tripID", d.TripID, "options", len(options), "days", duration)
	return options, nil
}

// GenerateFinal synthesises the final itinerary from the kept activities.
func (g *Generator) GenerateFinal(ctx context.Context, d types.TripDetails, selected []types.SelectedActivity) (*types.Itinerary, error) {
	if len(selected) == 0 {
		return nil, apperrors.ValidationFailed("Select at least one activity", "")
	}
	duration := g.Duration(d)
	raw, err := g.complete(ctx, opGenerateFinal, FinalPrompt(d, duration, selected))
	if err != nil {
		return nil, err
	}
	it, err := ParseFinal(raw)
	if err != nil {
		logger.GetLogger().Warnw("AI final itinerary response rejected", "error", err, "bytes", len(raw))
		return nil, apperrors.ParseFailed("Failed to parse final itinerary", err)
	}
	return it, nil
}
