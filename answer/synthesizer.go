package answer

import (
	"context"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pool"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/qa"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// NoInformation is the answer text when there is nothing to extract from.
const NoInformation = "No relevant information found."

const candidateContextChars = 300

// Synthesizer extracts an answer from the top retrieved documents and keeps
// the most confident one.
type Synthesizer struct {
	Extractor qa.Extractor
	Pool      *pool.Pool
	Config    config.AnswerConfig
}

func NewSynthesizer(ex qa.Extractor, p *pool.Pool, cfg config.AnswerConfig) *Synthesizer {
	if ex == nil {
		ex = qa.Unavailable{}
	}
	return &Synthesizer{Extractor: ex, Pool: p, Config: cfg}
}

// Synthesize never fails: when no candidate survives it returns a fallback
// built from the first document with confidence 0.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, metas []schema.Metadata) schema.AnswerCandidate {
	if len(metas) == 0 {
		return schema.AnswerCandidate{Text: NoInformation}
	}

	candidates := s.extract(ctx, question, metas)
	if len(candidates) == 0 {
		logger.Infof("answer: no candidate above %.2f, using fallback text", s.Config.MinConfidence)
		return s.fallback(metas[0])
	}

	// stable sort keeps the lower document index first on equal confidence
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	best := candidates[0]
	if s.agrees(candidates) {
		boosted := best.Confidence * s.Config.AgreementBoost
		if boosted > 1 {
			boosted = 1
		}
		logger.Debugf("answer: candidates agree, confidence %.3f -> %.3f", best.Confidence, boosted)
		best.Confidence = boosted
	}
	metrics.ObserveAnswerConfidence(best.Confidence)
	return best
}

func (s *Synthesizer) extract(ctx context.Context, question string, metas []schema.Metadata) []schema.AnswerCandidate {
	n := len(metas)
	if s.Config.MaxDocs > 0 && n > s.Config.MaxDocs {
		n = s.Config.MaxDocs
	}

	futures := make([]*pool.Future[qa.Result], n)
	contexts := make([]string, n)
	for i := 0; i < n; i++ {
		passage := TruncateRunes(metas[i].SectionText(), s.Config.ContextChars)
		if strings.TrimSpace(passage) == "" {
			logger.Debugf("answer: document %d has no section text, skipping", i)
			continue
		}
		contexts[i] = passage
		futures[i] = pool.Submit(ctx, s.Pool, func(ctx context.Context) (qa.Result, error) {
			return s.Extractor.Extract(ctx, question, passage)
		})
	}

	candidates := make([]schema.AnswerCandidate, 0, n)
	for i, f := range futures {
		if f == nil {
			continue
		}
		start := time.Now()
		res, err := f.Await(ctx)
		if err != nil {
			logger.Warnf("answer: %v", &schema.ExtractionError{DocIndex: i, Err: err})
			continue
		}
		text := strings.TrimSpace(res.Answer)
		if res.Score < s.Config.MinConfidence || utf8.RuneCountInString(text) <= s.Config.MinAnswerChars {
			logger.Debugf("answer: rejected %q from document %d (confidence %.3f)", text, i, res.Score)
			continue
		}
		logger.Debugf("answer: document %d answered in %s with confidence %.3f", i, time.Since(start), res.Score)
		candidates = append(candidates, schema.AnswerCandidate{
			Text:       text,
			Confidence: res.Score,
			DocIndex:   i,
			Metadata:   metas[i],
			Context:    ellipsize(contexts[i], candidateContextChars),
		})
	}
	return candidates
}

// agrees reports whether at least two of the top three candidates, the
// winner included, overlap with the winning answer.
func (s *Synthesizer) agrees(ranked []schema.AnswerCandidate) bool {
	if len(ranked) < 2 {
		return false
	}
	top := ranked
	if len(top) > 3 {
		top = top[:3]
	}
	similar := 0
	for _, c := range top {
		if Overlap(ranked[0].Text, c.Text) >= s.Config.AgreementThreshold {
			similar++
		}
	}
	return similar >= 2
}

func (s *Synthesizer) fallback(meta schema.Metadata) schema.AnswerCandidate {
	text := meta.SectionText()
	return schema.AnswerCandidate{
		Text:       ellipsize(text, s.Config.FallbackChars),
		Confidence: 0,
		DocIndex:   0,
		Metadata:   meta,
		Context:    text,
	}
}

// TruncateRunes cuts s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func ellipsize(s string, n int) string {
	t := TruncateRunes(s, n)
	if t != s {
		return t + "..."
	}
	return t
}
