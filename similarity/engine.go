// Package similarity ranks countries by how closely their burden profiles
// match a target country within one year of data.
package similarity

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/SHAH-MEER/tbatlas/core"
	"github.com/SHAH-MEER/tbatlas/telemetry"
)

// DefaultK is the neighbor count used when a request does not set one.
const DefaultK = 10

// Request describes one similarity query. Country accepts a display name or
// ISO3 code. An empty metric list falls back to the default indicator set.
type Request struct {
	Country string        `json:"country"`
	Year    int           `json:"year"`
	Metrics []core.Metric `json:"metrics,omitempty"`
	K       int           `json:"k,omitempty"`
}

// Neighbor is one ranked country with its cosine score.
type Neighbor struct {
	Country string  `json:"country"`
	ISO3    string  `json:"iso3"`
	Region  string  `json:"region,omitempty"`
	Score   float64 `json:"score"`
}

// Result is a completed ranking. Candidates counts the countries with
// complete vectors that entered scoring; Dropped counts the rows excluded
// for missing metric values.
type Result struct {
	Country    string        `json:"country"`
	ISO3       string        `json:"iso3"`
	Year       int           `json:"year"`
	Metrics    []core.Metric `json:"metrics"`
	Neighbors  []Neighbor    `json:"neighbors"`
	Candidates int           `json:"candidates"`
	Dropped    int           `json:"dropped"`
}

// Engine computes similarity rankings. It is stateless and safe for
// concurrent use.
type Engine struct {
	defaultK int
	logger   *zap.Logger
}

// NewEngine creates an engine. defaultK <= 0 selects DefaultK; a nil logger
// disables logging.
func NewEngine(defaultK int, logger *zap.Logger) *Engine {
	if defaultK <= 0 {
		defaultK = DefaultK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{defaultK: defaultK, logger: logger}
}

type candidate struct {
	rec core.Record
	vec []float64
}

// Rank scores every other country against the target for the requested year
// and returns the top K, sorted by descending score with ties broken by
// country name. Countries missing any requested metric are dropped rather
// than imputed. Fewer than two scorable candidates yields an empty ranking,
// not an error. A target without data for the year yields ErrNoData.
func (e *Engine) Rank(ctx context.Context, ds *core.Dataset, req Request) (Result, error) {
	metrics := req.Metrics
	if len(metrics) == 0 {
		metrics = core.DefaultSimilarityMetrics
	}
	if err := core.ValidateMetrics(metrics); err != nil {
		return Result{}, err
	}

	target, ok := ds.Find(req.Country, req.Year)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s in %d", core.ErrNoData, req.Country, req.Year)
	}
	targetVec, ok := target.Vector(metrics)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s has incomplete metrics in %d", core.ErrNoData, target.Country, req.Year)
	}
	if err := core.ValidateVector(targetVec); err != nil {
		return Result{}, fmt.Errorf("target vector for %s: %w", target.Country, err)
	}

	var candidates []candidate
	dropped := 0
	for _, r := range ds.ForYear(req.Year) {
		if r.ISO3 == target.ISO3 {
			continue
		}
		vec, ok := r.Vector(metrics)
		if !ok {
			dropped++
			continue
		}
		candidates = append(candidates, candidate{rec: r, vec: vec})
	}

	telemetry.SimilarityQueries.Inc()
	telemetry.SimilarityDropped.Add(float64(dropped))

	result := Result{
		Country:    target.Country,
		ISO3:       target.ISO3,
		Year:       req.Year,
		Metrics:    metrics,
		Neighbors:  []Neighbor{},
		Candidates: len(candidates),
		Dropped:    dropped,
	}
	if len(candidates) < 2 {
		return result, nil
	}

	// Z-score each metric column over the target plus all candidates, so no
	// single column dominates the angle on raw scale alone.
	matrix := make([][]float64, 0, len(candidates)+1)
	matrix = append(matrix, targetVec)
	for _, c := range candidates {
		matrix = append(matrix, c.vec)
	}
	if err := core.NormalizeColumns(matrix, core.NormalizationZScore); err != nil {
		return Result{}, err
	}

	neighbors := make([]Neighbor, 0, len(candidates))
	zeroed := 0
	for i, c := range candidates {
		score, err := core.CosineSimilarity(matrix[0], matrix[i+1])
		if err != nil {
			if errors.Is(err, core.ErrZeroVector) {
				zeroed++
				continue
			}
			return Result{}, err
		}
		neighbors = append(neighbors, Neighbor{
			Country: c.rec.Country,
			ISO3:    c.rec.ISO3,
			Region:  c.rec.Region,
			Score:   score,
		})
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		if neighbors[i].Score != neighbors[j].Score {
			return neighbors[i].Score > neighbors[j].Score
		}
		return neighbors[i].Country < neighbors[j].Country
	})

	k := req.K
	if k <= 0 {
		k = e.defaultK
	}
	if len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	result.Neighbors = neighbors

	e.logger.Debug("similarity ranked",
		zap.String("country", target.Country),
		zap.Int("year", req.Year),
		zap.Int("candidates", len(candidates)),
		zap.Int("dropped", dropped),
		zap.Int("zero_vectors", zeroed),
		zap.Int("returned", len(neighbors)))
	return result, nil
}
