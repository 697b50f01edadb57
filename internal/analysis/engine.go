package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skarkon/crowsnest/internal/idgen"
	"github.com/skarkon/crowsnest/internal/traces"
)

var (
	analysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowsnest",
		Subsystem: "engine",
		Name:      "analyses_total",
		Help:      "Completed analyses by overall risk level.",
	}, []string{"risk"})

	evaluatorFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowsnest",
		Subsystem: "engine",
		Name:      "evaluator_failures_total",
		Help:      "Evaluator hard failures by evaluator name.",
	}, []string{"evaluator"})

	evaluatorDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crowsnest",
		Subsystem: "engine",
		Name:      "evaluator_duration_seconds",
		Help:      "Wall-clock duration of individual evaluator runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"evaluator"})

	flagsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crowsnest",
		Subsystem: "engine",
		Name:      "flags_total",
		Help:      "Flags emitted by severity.",
	}, []string{"severity"})
)

func init() {
	prometheus.MustRegister(analysesTotal, evaluatorFailures, evaluatorDuration, flagsEmitted)
}

// Engine fans a profile out to every registered evaluator concurrently and
// aggregates their flags into a Verdict.
//
// Failure isolation: an evaluator that errors (or panics) contributes zero
// flags and one entry in Verdict.Errors; it never fails the run. The engine
// has no side effects beyond the returned Verdict; persistence and delivery
// belong to the caller.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
}

// NewEngine creates an engine over the given registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
		logger:   slog.Default(),
	}
}

// WithLogger overrides the default logger.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.logger = logger
	return e
}

// evalResult is one evaluator's contribution, sent back over the results
// channel by its goroutine.
type evalResult struct {
	name  string
	flags []Flag
	err   error
}

// Evaluate runs every registered evaluator against the profile and builds
// the Verdict. requestedBy is an optional provenance tag.
//
// If ctx is cancelled before all evaluators finish, the run is abandoned and
// (nil, ctx.Err()) is returned; a partial evaluator set is never aggregated
// into a misleading verdict.
func (e *Engine) Evaluate(ctx context.Context, p *Profile, requestedBy string) (*Verdict, error) {
	if p == nil {
		return nil, fmt.Errorf("analysis: nil profile")
	}

	ctx, span := traces.StartSpan(ctx, "engine.Evaluate",
		traces.CharacterID(p.CharacterID),
		attribute.Int("evaluators", e.registry.Len()),
	)
	defer span.End()

	start := time.Now()
	evaluators := e.registry.All()
	results := make(chan evalResult, len(evaluators))

	for _, ev := range evaluators {
		go e.runOne(ctx, ev, p, results)
	}

	byName := make(map[string]evalResult, len(evaluators))
	for range evaluators {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-results:
			byName[res.name] = res
		}
	}

	// Assemble in registration order so repeated runs over the same
	// snapshot produce identical verdicts.
	var flags []Flag
	var run []string
	var errs []string
	for _, ev := range evaluators {
		res := byName[ev.Name()]
		if res.err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", res.name, res.err))
			evaluatorFailures.WithLabelValues(res.name).Inc()
			e.logger.Warn("evaluator failed",
				"evaluator", res.name,
				"character_id", p.CharacterID,
				"error", res.err,
			)
			continue
		}
		run = append(run, res.name)
		flags = append(flags, res.flags...)
	}
	sort.Strings(run)
	sort.Strings(errs)

	overall, confidence := Aggregate(flags)
	red, yellow, green := SeverityCounts(flags)

	analysesTotal.WithLabelValues(string(overall)).Inc()
	for _, f := range flags {
		flagsEmitted.WithLabelValues(string(f.Severity)).Inc()
	}

	v := &Verdict{
		ID:              idgen.WithPrefix("vrd_"),
		CharacterID:     p.CharacterID,
		CharacterName:   p.CharacterName,
		OverallRisk:     overall,
		Confidence:      confidence,
		Flags:           flags,
		RedCount:        red,
		YellowCount:     yellow,
		GreenCount:      green,
		Recommendations: Recommendations(overall, flags),
		EvaluatorsRun:   run,
		Errors:          errs,
		RequestedBy:     requestedBy,
		DurationMS:      time.Since(start).Milliseconds(),
		EvaluatedAt:     time.Now(),
	}

	span.SetAttributes(
		attribute.String("risk", string(overall)),
		attribute.Int("flags", len(flags)),
		attribute.Int("failures", len(errs)),
	)
	e.logger.Info("analysis complete",
		"character_id", p.CharacterID,
		"risk", overall,
		"flags", len(flags),
		"failures", len(errs),
		"duration_ms", v.DurationMS,
	)
	return v, nil
}

// runOne executes a single evaluator with panic isolation.
func (e *Engine) runOne(ctx context.Context, ev Evaluator, p *Profile, results chan<- evalResult) {
	name := ev.Name()
	start := time.Now()

	defer func() {
		evaluatorDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if r := recover(); r != nil {
			results <- evalResult{name: name, err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ctx, span := traces.StartSpan(ctx, "evaluator."+name)
	defer span.End()

	flags, err := ev.Analyze(ctx, p)
	results <- evalResult{name: name, flags: flags, err: err}
}
