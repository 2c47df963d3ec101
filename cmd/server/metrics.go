package main

import (
	"context"
	"net/http"

	"github.com/icco/pokejournal"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/icco/pokejournal/cmd/server"

// Outcomes recorded on the aggregation counters.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// Instruments come from the global provider, which forwards to the
// Prometheus-backed provider once setupMetrics has run.
var (
	matchupsBuilt     = mustCounter("pokejournal.matchups.built", "Matchup boards computed")
	pokemonStatsBuilt = mustCounter("pokejournal.pokemon_stats.built", "Per-Pokemon stat aggregations computed")
)

func mustCounter(name, description string) metric.Int64Counter {
	c, err := otel.Meter(meterName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		panic(err)
	}
	return c
}

// setupMetrics installs a meter provider exporting to the default
// Prometheus registry and returns the scrape handler.
func setupMetrics() (http.Handler, error) {
	exporter, err := otelprom.New()
	if err != nil {
		return nil, err
	}
	otel.SetMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)))
	return promhttp.Handler(), nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case pokejournal.IsNotFound(err):
		return outcomeNotFound
	default:
		return outcomeError
	}
}

func recordMatchups(ctx context.Context, err error) {
	matchupsBuilt.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcomeOf(err))))
}

func recordPokemonStats(ctx context.Context, contract string, err error) {
	pokemonStatsBuilt.Add(ctx, 1, metric.WithAttributes(
		attribute.String("contract", contract),
		attribute.String("outcome", outcomeOf(err)),
	))
}
