package retriever

import (
	"context"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/index"
)

// Hit is one retrieved row and its similarity to the query.
type Hit struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}

// Retriever defines a unified search interface over a dataset index.
type Retriever interface {
	Type() string
	Search(ctx context.Context, query []float64, ix *index.DatasetIndex) ([]Hit, error)
}

// HitList is a utility alias for readability.
type HitList []Hit

// Indices returns the row indices in rank order.
func (l HitList) Indices() []int {
	out := make([]int, len(l))
	for i, h := range l {
		out[i] = h.Index
	}
	return out
}

// Scores returns the similarity scores in rank order.
func (l HitList) Scores() []float64 {
	out := make([]float64, len(l))
	for i, h := range l {
		out[i] = h.Score
	}
	return out
}
