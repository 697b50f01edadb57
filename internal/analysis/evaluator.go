package analysis

import "context"

// Evaluator is one independent detection rule. Implementations inspect the
// profile and return zero or more flags.
//
// Contract: an absent optional profile section is never an error; the
// evaluator simply returns no flags for that concern. Errors are reserved
// for genuinely exceptional conditions (a rule store that cannot be read,
// input the evaluator cannot reason about at all).
type Evaluator interface {
	// Name uniquely identifies the evaluator within a registry.
	Name() string

	// RequiresAuxData reports whether the evaluator meaningfully degrades
	// without optional enrichment data (alt detection, standings exports).
	// Callers use it to decide whether to fetch auxiliary data up front;
	// the engine itself ignores it.
	RequiresAuxData() bool

	Analyze(ctx context.Context, p *Profile) ([]Flag, error)
}

// Registry is an ordered collection of evaluators. Registration order fixes
// the order of flags in the final verdict, which keeps repeated runs over
// the same snapshot byte-identical.
type Registry struct {
	evaluators []Evaluator
	names      map[string]bool
}

// NewRegistry creates a registry with the given evaluators.
func NewRegistry(evals ...Evaluator) *Registry {
	r := &Registry{names: make(map[string]bool)}
	for _, ev := range evals {
		r.Register(ev)
	}
	return r
}

// Register appends an evaluator. Duplicate names are ignored so wiring code
// can't accidentally double-run a rule.
func (r *Registry) Register(ev Evaluator) {
	if ev == nil || r.names[ev.Name()] {
		return
	}
	r.names[ev.Name()] = true
	r.evaluators = append(r.evaluators, ev)
}

// All returns the registered evaluators in registration order.
func (r *Registry) All() []Evaluator {
	out := make([]Evaluator, len(r.evaluators))
	copy(out, r.evaluators)
	return out
}

// Len returns the number of registered evaluators.
func (r *Registry) Len() int { return len(r.evaluators) }
