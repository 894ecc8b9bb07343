package retriever

import (
	"context"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/index"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
)

// VectorRetriever ranks every row of an index by cosine similarity.
type VectorRetriever struct {
	TopK int
	// Threshold drops hits scoring below it; a hit equal to it is kept.
	Threshold float64
}

func (r *VectorRetriever) Type() string { return "vector" }

func (r *VectorRetriever) Search(ctx context.Context, query []float64, ix *index.DatasetIndex) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topK := r.TopK
	if topK <= 0 {
		topK = 3
	}
	if ix == nil {
		return []Hit{}, nil
	}
	hits := Retrieve(query, ix.Embeddings, topK, r.Threshold)
	top := 0.0
	if len(hits) > 0 {
		top = hits[0].Score
	}
	metrics.ObserveRetrieval(len(hits), top)
	return hits, nil
}

// Retrieve scores query against every row, keeps the k best (ties broken by
// lower row index) and drops those below threshold.
func Retrieve(query []float64, rows [][]float64, k int, threshold float64) []Hit {
	if len(rows) == 0 || k <= 0 {
		return []Hit{}
	}
	scored := make([]Hit, len(rows))
	for i, row := range rows {
		scored[i] = Hit{Index: i, Score: Cosine(query, row)}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > k {
		scored = scored[:k]
	}
	out := make([]Hit, 0, len(scored))
	for _, h := range scored {
		if h.Score >= threshold {
			out = append(out, h)
		}
	}
	return out
}

// Cosine returns the cosine similarity of a and b clipped to [0, 1]. Vectors
// of different length or zero norm score 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	na, nb := floats.Norm(a, 2), floats.Norm(b, 2)
	if na == 0 || nb == 0 {
		return 0
	}
	s := floats.Dot(a, b) / (na * nb)
	switch {
	case math.IsNaN(s) || s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}
