// Package reference turns retrieval hits into the citation list returned
// with every answer.
package reference

import (
	"math"
	"strings"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/retriever"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// DefaultLimit is the number of references shown with an answer.
const DefaultLimit = 5

// Build creates one reference per hit, in rank order, for at most limit hits.
// metas is indexed by Hit.Index; dataset is the dataset the hits were
// retrieved from.
func Build(hits []retriever.Hit, metas []schema.Metadata, dataset string, limit int) []schema.Reference {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(hits) > limit {
		hits = hits[:limit]
	}
	refs := make([]schema.Reference, 0, len(hits))
	for _, h := range hits {
		if h.Index < 0 || h.Index >= len(metas) {
			continue
		}
		refs = append(refs, FromMetadata(metas[h.Index], dataset, h.Score))
	}
	return refs
}

// FromMetadata builds a single reference.
func FromMetadata(m schema.Metadata, dataset string, score float64) schema.Reference {
	source := EffectiveSource(m, dataset)
	section := m.FirstSectionNo()

	chapter := ChapterFromID(m.ID)
	if chapter == "" {
		chapter = strings.TrimSpace(string(m.ChapterNo))
	}

	id := m.ID
	if id == "" && section != "" {
		id = source + "_ch" + chapter + "_sec" + section
	}

	return schema.Reference{
		ID:         id,
		Title:      m.Title,
		Section:    section,
		Source:     source,
		SourceName: schema.DatasetName(source),
		Type:       m.Type,
		Score:      Round(score, 4),
		Chapter:    chapter,
	}
}

// EffectiveSource prefers the metadata source when it names a known dataset.
func EffectiveSource(m schema.Metadata, dataset string) string {
	if schema.IsDataset(m.Source) {
		return m.Source
	}
	return dataset
}

// ChapterFromID extracts the chapter from an ID shaped <src>_ch<chapter>_sec<section>.
func ChapterFromID(id string) string {
	_, rest, ok := strings.Cut(id, "_ch")
	if !ok {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "_ch")
	chapter, _, _ := strings.Cut(rest, "_sec")
	return chapter
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
