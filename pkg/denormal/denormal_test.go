package denormal

import (
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/pji/charex/pkg/normal"
)

// testRev is a small handcrafted reverse map. Candidate order is
// load order and must survive into the results.
func testRev() normal.ReverseMap {
	return normal.ReverseMap{
		"a": {"x", "y", "z"},
		"b": {"p", "q"},
		"f": {"Q", "ﬀ"},
	}
}

func TestCandidates(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	if got := eng.Candidates("a"); !reflect.DeepEqual(got, []string{"x", "y", "z"}) {
		t.Errorf("Candidates(a) = %v", got)
	}
	if got := eng.Candidates("c"); !reflect.DeepEqual(got, []string{"c"}) {
		t.Errorf("Candidates(c) = %v, want the cluster itself", got)
	}
}

func TestDenormalize(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	t.Run("cartesian order", func(t *testing.T) {
		got := eng.Denormalize("ab", 0)
		want := []string{"xp", "xq", "yp", "yq", "zp", "zq"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Denormalize = %v, want %v", got, want)
		}
	})

	t.Run("unmapped cluster passes through", func(t *testing.T) {
		got := eng.Denormalize("cb", 0)
		want := []string{"cp", "cq"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Denormalize = %v, want %v", got, want)
		}
	})

	t.Run("empty base", func(t *testing.T) {
		if got := eng.Denormalize("", 0); got != nil {
			t.Errorf("Denormalize = %v, want nil", got)
		}
	})
}

func TestDenormalizeMaxDepth(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	// Truncation happens per candidate list before combination, so the
	// result set shrinks rather than being a prefix of the full set.
	got := eng.Denormalize("ab", 1)
	want := []string{"xp"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Denormalize = %v, want %v", got, want)
	}

	got = eng.Denormalize("ab", 2)
	want = []string{"xp", "xq", "yp", "yq"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Denormalize = %v, want %v", got, want)
	}
}

func TestAllStopsEarly(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	var got []string
	for s := range eng.All("ab", 0) {
		got = append(got, s)
		if len(got) == 2 {
			break
		}
	}
	if !reflect.DeepEqual(got, []string{"xp", "xq"}) {
		t.Errorf("got = %v", got)
	}
}

func TestCount(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	tests := []struct {
		name     string
		base     string
		maxDepth int
		want     uint64
	}{
		{"product", "ab", 0, 6},
		{"unmapped counts one", "acb", 0, 6},
		{"depth cap", "ab", 2, 4},
		{"depth above list size", "ab", 10, 6},
		{"empty", "", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := eng.Count(tt.base, tt.maxDepth); got != tt.want {
				t.Errorf("Count(%q, %d) = %d, want %d", tt.base, tt.maxDepth, got, tt.want)
			}
		})
	}
}

func TestCountMatchesDenormalize(t *testing.T) {
	eng := New(normal.NFKC, testRev())
	for _, base := range []string{"a", "ab", "abf", "ca"} {
		want := uint64(len(eng.Denormalize(base, 0)))
		if got := eng.Count(base, 0); got != want {
			t.Errorf("Count(%q) = %d, Denormalize produced %d", base, got, want)
		}
	}
}

func TestCountSaturates(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	// 3^41 exceeds the 64-bit range; the count must clamp, not wrap.
	base := strings.Repeat("a", 41)
	if got := eng.Count(base, 0); got != math.MaxUint64 {
		t.Errorf("Count = %d, want MaxUint64", got)
	}

	// 3^40 still fits.
	base = strings.Repeat("a", 40)
	want := uint64(1)
	for i := 0; i < 40; i++ {
		want *= 3
	}
	if got := eng.Count(base, 0); got != want {
		t.Errorf("Count = %d, want %d", got, want)
	}
}

func TestRandom(t *testing.T) {
	eng := New(normal.NFKC, testRev())

	t.Run("deterministic with seed", func(t *testing.T) {
		first := eng.Random("ab", 5, 42)
		second := eng.Random("ab", 5, 42)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("same seed differs: %v vs %v", first, second)
		}
	})

	t.Run("samples normalize back", func(t *testing.T) {
		valid := map[byte]string{'x': "a", 'y': "a", 'z': "a", 'p': "b", 'q': "b"}
		for _, s := range eng.Random("ab", 20, 7) {
			if len(s) != 2 || valid[s[0]] != "a" || valid[s[1]] != "b" {
				t.Errorf("sample %q does not map back to ab", s)
			}
		}
	})

	t.Run("count floor", func(t *testing.T) {
		if got := eng.Random("ab", 0, 1); len(got) != 1 {
			t.Errorf("len = %d, want 1", len(got))
		}
	})

	t.Run("unseeded runs", func(t *testing.T) {
		if got := eng.Random("ab", 3, -1); len(got) != 3 {
			t.Errorf("len = %d, want 3", len(got))
		}
	})
}

func TestRandomSeqUnbounded(t *testing.T) {
	eng := New(normal.NFKC, testRev())
	n := 0
	for range eng.RandomSeq("a", 3) {
		n++
		if n == 1000 {
			break
		}
	}
	if n != 1000 {
		t.Errorf("drew %d samples, want 1000", n)
	}
}

func TestMultiCluster(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a", false},
		{"ﬀ", false},
		{"ff", true},
		{"é", true},
	}
	for _, tt := range tests {
		if got := MultiCluster(tt.in); got != tt.want {
			t.Errorf("MultiCluster(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBuiltEngineRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("builds a full reverse map")
	}
	eng, err := NewBuilt(normal.NFKC)
	if err != nil {
		t.Fatalf("NewBuilt: %v", err)
	}

	base := "<->"
	results := eng.Denormalize(base, 0)
	if want := eng.Count(base, 0); uint64(len(results)) != want {
		t.Fatalf("len(results) = %d, Count = %d", len(results), want)
	}
	// Each of <, -, > has the small and fullwidth compatibility variants.
	if len(results) != 8 {
		t.Errorf("len(results) = %d, want 8", len(results))
	}
	if got := eng.Count(base, 1); got != 1 {
		t.Errorf("Count(maxDepth=1) = %d, want 1", got)
	}
	seen := make(map[string]bool)
	for _, s := range results {
		if seen[s] {
			t.Errorf("duplicate result %q", s)
		}
		seen[s] = true
		norm, err := normal.Normalize(normal.NFKC, s)
		if err != nil {
			t.Fatal(err)
		}
		if norm != base {
			t.Errorf("result %q normalizes to %q, not %q", s, norm, base)
		}
	}
}
