// Package denormal enumerates, counts, and samples the strings that
// normalize to a given base string under one normalization form. It
// consumes a precomputed reverse-normalization map and performs no I/O of
// its own.
package denormal

import (
	"iter"
	"math"
	"math/bits"
	"math/rand/v2"
	"strings"

	"github.com/pji/charex/pkg/normal"
)

// Engine answers denormalization queries for one normalization form.
// The reverse map is read-only after construction.
type Engine struct {
	form normal.Form
	rev  normal.ReverseMap
}

// New creates an engine over an already-loaded reverse map.
func New(form normal.Form, rev normal.ReverseMap) *Engine {
	return &Engine{form: form, rev: rev}
}

// NewBuilt creates an engine by inverting the form's normalization
// function over the full code point space. Building takes a moment; the
// result should be reused for the life of the process.
func NewBuilt(form normal.Form) (*Engine, error) {
	rev, err := normal.BuildReverseMap(form)
	if err != nil {
		return nil, err
	}
	return New(form, rev), nil
}

// NewFromArchive creates an engine from the precomputed rev_<form>.json
// map in the reverse-map archive under dataDir.
func NewFromArchive(dataDir string, form normal.Form) (*Engine, error) {
	rev, err := normal.LoadReverseMap(dataDir, form)
	if err != nil {
		return nil, err
	}
	return New(form, rev), nil
}

// Form returns the normalization form this engine inverts.
func (e *Engine) Form() normal.Form {
	return e.form
}

// Candidates returns the source clusters that normalize to the given
// cluster, in map order, untruncated. A cluster with no reverse entry is
// its own only denormalization. Candidates of two or more code points are
// indivisible units and are returned whole.
func (e *Engine) Candidates(cluster string) []string {
	if candidates := e.rev[cluster]; len(candidates) > 0 {
		return candidates
	}
	return []string{cluster}
}

// candidateLists resolves each cluster of base to its candidate list,
// truncated to maxDepth entries when maxDepth > 0. Truncation happens
// here, before any combination, which changes the result set rather than
// just its size.
func (e *Engine) candidateLists(base string, maxDepth int) [][]string {
	lists := make([][]string, 0, len(base))
	for _, r := range base {
		candidates := e.Candidates(string(r))
		if maxDepth > 0 && len(candidates) > maxDepth {
			candidates = candidates[:maxDepth]
		}
		lists = append(lists, candidates)
	}
	return lists
}

// Denormalize returns every string that normalizes to base, combining
// candidates cluster by cluster, left to right, insertion order
// preserved. maxDepth > 0 limits the candidates considered per cluster.
// Prefer Count before calling: results can number in the hundreds of
// millions for short bases.
func (e *Engine) Denormalize(base string, maxDepth int) []string {
	if base == "" {
		return nil
	}
	var results []string
	for s := range e.All(base, maxDepth) {
		results = append(results, s)
	}
	return results
}

// All is the streaming form of Denormalize: a restartable sequence
// yielding results in the same order, letting callers stop early without
// paying for full enumeration.
func (e *Engine) All(base string, maxDepth int) iter.Seq[string] {
	lists := e.candidateLists(base, maxDepth)
	return func(yield func(string) bool) {
		if len(lists) == 0 {
			return
		}
		walk(lists, "", yield)
	}
}

// walk emits the Cartesian product of the candidate lists, depth first,
// prefixing each result with the combination chosen so far.
func walk(lists [][]string, prefix string, yield func(string) bool) bool {
	if len(lists) == 0 {
		return yield(prefix)
	}
	for _, candidate := range lists[0] {
		if !walk(lists[1:], prefix+candidate, yield) {
			return false
		}
	}
	return true
}

// Count returns the number of strings Denormalize would produce, as the
// product of per-cluster candidate counts. It never materializes the
// result list and saturates at math.MaxUint64.
func (e *Engine) Count(base string, maxDepth int) uint64 {
	if base == "" {
		return 0
	}
	total := uint64(1)
	for _, r := range base {
		n := uint64(len(e.rev[string(r)]))
		if n == 0 {
			n = 1
		}
		if maxDepth > 0 && n > uint64(maxDepth) {
			n = uint64(maxDepth)
		}
		hi, lo := bits.Mul64(total, n)
		if hi != 0 {
			return math.MaxUint64
		}
		total = lo
	}
	return total
}

// Random returns count strings that normalize to base, choosing one
// candidate per cluster independently and uniformly. It samples positions
// independently, not uniformly over the full combinatorial space. A
// non-negative seed makes the output fully deterministic for a fixed
// (base, form, seed); a negative seed draws from the shared generator.
func (e *Engine) Random(base string, count int, seed int64) []string {
	if count < 1 {
		count = 1
	}
	results := make([]string, 0, count)
	for s := range e.RandomSeq(base, seed) {
		results = append(results, s)
		if len(results) == count {
			break
		}
	}
	return results
}

// RandomSeq is the streaming form of Random: an unbounded sequence of
// independent samples. Callers impose their own result-count limit by
// stopping the iteration.
func (e *Engine) RandomSeq(base string, seed int64) iter.Seq[string] {
	lists := e.candidateLists(base, 0)
	rng := newRand(seed)
	return func(yield func(string) bool) {
		if len(lists) == 0 {
			return
		}
		for {
			var b strings.Builder
			for _, candidates := range lists {
				b.WriteString(candidates[rng.IntN(len(candidates))])
			}
			if !yield(b.String()) {
				return
			}
		}
	}
}

// newRand builds the sampling generator. Seeding with the same value
// yields the same stream; a negative seed gives a fresh, unpredictable
// stream.
func newRand(seed int64) *rand.Rand {
	if seed < 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return rand.New(rand.NewPCG(uint64(seed), 0x9E3779B97F4A7C15))
}

// MultiCluster reports whether a candidate is a multi-code-point cluster.
// Consumers that report "multiple characters" distinguish these from
// single-character denormalizations.
func MultiCluster(candidate string) bool {
	count := 0
	for range candidate {
		count++
		if count > 1 {
			return true
		}
	}
	return false
}
