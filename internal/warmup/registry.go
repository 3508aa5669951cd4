package warmup

import (
	"fmt"

	"github.com/ember-ml/ember/internal/tensor"
)

// CallSite is the bookkeeping record for one functional call site within
// a container: its resolved name, its kind and chosen variant, and the
// module materialized for it. The owning container holds the module; the
// site keeps a reference only so repeat resolutions can reuse it without
// a container lookup.
type CallSite[B tensor.Backend] struct {
	FullName string
	BaseName string
	Kind     string
	Variant  Variant
	Ordinal  int  // 1-based; 0 for explicitly named sites
	Explicit bool // user supplied the full name

	module *Materialized[B]
}

// Module returns the materialized module bound to this call site.
func (cs *CallSite[B]) Module() *Materialized[B] {
	return cs.module
}

// registry tracks call sites for one container: the name table, the
// monotonic per-base-name usage counters, and the per-pass replay
// cursors that keep ordinals stable across repeated forward passes.
//
// Counters advance exactly once per newly materialized site and are never
// decremented. Cursors reset at the start of every forward pass; the Nth
// anonymous call of a base name in any pass therefore resolves to the
// same full name the trace assigned.
type registry[B tensor.Backend] struct {
	sites    map[string]*CallSite[B]
	counters map[string]int
	cursor   map[string]int
	claimed  map[string]bool // full names resolved during the tracing pass
}

func newRegistry[B tensor.Backend]() *registry[B] {
	return &registry[B]{
		sites:    make(map[string]*CallSite[B]),
		counters: make(map[string]int),
		cursor:   make(map[string]int),
		claimed:  make(map[string]bool),
	}
}

// beginPass resets the replay cursors for a new forward pass.
func (r *registry[B]) beginPass() {
	clear(r.cursor)
	clear(r.claimed)
}

// resolve maps one functional call to its call site. During tracing,
// unseen sites are returned as new records with their ordinal assigned;
// the caller materializes and commits them via bind. After warm-up,
// resolve only replays: an unknown site means the forward computation
// diverged from the traced one.
func (r *registry[B]) resolve(requested, base, kind string, tracing bool) (*CallSite[B], bool, error) {
	var fullName string
	var ordinal int
	explicit := requested != ""

	if explicit {
		fullName = requested
	} else {
		ordinal = r.cursor[base] + 1
		r.cursor[base] = ordinal
		fullName = fmt.Sprintf("%s_%d", base, ordinal)
	}

	if tracing {
		// The trace is a single pass, so every call site resolves exactly
		// once; a repeat of the same full name is a second, distinct call
		// site claiming it.
		if r.claimed[fullName] {
			return nil, false, &NameCollisionError{Name: fullName, Kind: kind}
		}
		r.claimed[fullName] = true
	}

	if site, ok := r.sites[fullName]; ok {
		// Repeat resolution of an already-bound site: reuse without
		// consulting the counters again.
		return site, false, nil
	}

	if !tracing {
		return nil, false, &ShapeInferenceError{
			Site: fullName,
			Err:  fmt.Errorf("call site not seen during warm-up"),
		}
	}

	if !explicit {
		// First resolution of this site: advance the usage counter.
		r.counters[base] = ordinal
	}

	site := &CallSite[B]{
		FullName: fullName,
		BaseName: base,
		Kind:     kind,
		Ordinal:  ordinal,
		Explicit: explicit,
	}
	return site, true, nil
}

// bind commits a freshly materialized site to the name table.
func (r *registry[B]) bind(site *CallSite[B], m *Materialized[B]) {
	site.module = m
	r.sites[site.FullName] = site
}

// boundNames returns the full names of all bound call sites.
func (r *registry[B]) boundNames() []string {
	names := make([]string, 0, len(r.sites))
	for name := range r.sites {
		names = append(names, name)
	}
	return names
}

// site returns the call site bound under fullName, if any.
func (r *registry[B]) site(fullName string) (*CallSite[B], bool) {
	s, ok := r.sites[fullName]
	return s, ok
}
