// Package workload generates synthetic raw follow graphs with a skewed
// out-degree distribution, for dry runs of the sampling pipeline.
package workload

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/yourusername/go-subgraph-bench/edgelist"
)

// scatterPrime spreads Zipf ranks over the id space so hubs are not all
// clustered at the lowest ids.
const scatterPrime = 2654435761

// maxScatterUsers is floor(sqrt(MaxInt64)); above it the scatter product
// overflows int64.
const maxScatterUsers = 3037000499

type Params struct {
	Users int64
	Edges int64
	// Skew is the Zipf s parameter and must be > 1. V is Zipf's v and must be >= 1.
	Skew float64
	V    float64
	Seed int64
	// Spacing multiplies every id, producing sparse non-contiguous ids when > 1.
	Spacing int64
	Offset  int64
	Scatter bool
}

func DefaultParams() Params {
	return Params{
		Users:   100000,
		Edges:   1000000,
		Skew:    1.3,
		V:       1.0,
		Seed:    1,
		Spacing: 1,
		Scatter: true,
	}
}

func (p Params) Validate() error {
	switch {
	case p.Users < 2:
		return fmt.Errorf("users must be at least 2, got %d", p.Users)
	case p.Edges < 0:
		return fmt.Errorf("edges must not be negative, got %d", p.Edges)
	case p.Skew <= 1:
		return fmt.Errorf("skew must be > 1, got %g", p.Skew)
	case p.V < 1:
		return fmt.Errorf("v must be >= 1, got %g", p.V)
	case p.Spacing < 1:
		return fmt.Errorf("spacing must be at least 1, got %d", p.Spacing)
	case p.Offset < 0:
		return fmt.Errorf("offset must not be negative, got %d", p.Offset)
	case p.Scatter && p.Users > maxScatterUsers:
		return fmt.Errorf("users must be at most %d when scattering, got %d", maxScatterUsers, p.Users)
	case p.Users-1 > (math.MaxInt64-p.Offset)/p.Spacing:
		return fmt.Errorf("largest id (users-1)*spacing+offset overflows int64")
	}
	return nil
}

// SourceCount is a source user and the number of edges generated for it.
type SourceCount struct {
	UserID int64
	Edges  int64
}

type Result struct {
	Edges   int64
	Sources int
	counts  map[int64]int64
}

// Top returns the n sources with the most edges, highest first.
func (r *Result) Top(n int) []SourceCount {
	sorted := make([]SourceCount, 0, len(r.counts))
	for id, c := range r.counts {
		sorted = append(sorted, SourceCount{UserID: id, Edges: c})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Edges != sorted[j].Edges {
			return sorted[i].Edges > sorted[j].Edges
		}
		return sorted[i].UserID < sorted[j].UserID
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// GenerateFollowGraph writes p.Edges "source target" lines to w. Sources are
// Zipf distributed so a few users follow very many others; targets are
// uniform. The same Params always produce the same bytes.
func GenerateFollowGraph(w io.Writer, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "workload params")
	}

	r := rand.New(rand.NewSource(p.Seed))
	zipf := rand.NewZipf(r, p.Skew, p.V, uint64(p.Users-1))
	scatter := p.Scatter && gcd(scatterPrime%p.Users, p.Users) == 1

	ew := edgelist.NewWriter(w)
	res := &Result{counts: make(map[int64]int64)}
	for i := int64(0); i < p.Edges; i++ {
		raw := int64(zipf.Uint64())
		if scatter {
			raw = (raw * (scatterPrime % p.Users)) % p.Users
		}
		src := raw*p.Spacing + p.Offset
		dst := r.Int63n(p.Users)*p.Spacing + p.Offset
		if err := ew.WritePair(src, dst); err != nil {
			return nil, err
		}
		res.counts[src]++
	}
	if err := ew.Flush(); err != nil {
		return nil, err
	}

	res.Edges = ew.Records()
	res.Sources = len(res.counts)
	log.Info().Int64("edges", res.Edges).Int("sources", res.Sources).Int64("seed", p.Seed).Msg("generated follow graph")
	return res, nil
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
