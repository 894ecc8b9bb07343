// Package gate classifies incoming queries and moves text between the user's
// language and English around the retrieval pipeline.
package gate

import (
	"context"
	"strings"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pool"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/translate"
)

// DefaultTimeout bounds a single translation call.
const DefaultTimeout = 3 * time.Second

var greetings = map[string]struct{}{
	"hi": {}, "hello": {}, "hey": {}, "good morning": {}, "good afternoon": {}, "good evening": {},
	"bye": {}, "goodbye": {}, "see you": {}, "thank you": {}, "thanks": {},
	"नमस्ते": {}, "नमस्कार": {}, "प्रणाम": {}, "नमश्कार": {},
	"धन्यवाद": {}, "शुक्रिया": {}, "अलविदा": {},
}

// IsSimple reports whether query is a greeting or too short to be a legal question.
func IsSimple(query string) bool {
	if _, ok := greetings[strings.ToLower(strings.TrimSpace(query))]; ok {
		return true
	}
	return len(strings.Fields(query)) <= 2
}

// Gate wraps the translator used before and after retrieval.
type Gate struct {
	Translator translate.Translator
	Pool       *pool.Pool
	Timeout    time.Duration
}

func New(t translate.Translator, p *pool.Pool, timeout time.Duration) *Gate {
	if t == nil {
		t = translate.Unavailable{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Gate{Translator: t, Pool: p, Timeout: timeout}
}

// Preprocess returns the query to retrieve with and whether it is simple.
// Simple queries are returned untouched. Other non-English queries are
// translated to English; any translation failure keeps the original text.
func (g *Gate) Preprocess(ctx context.Context, raw, lang string) (string, bool) {
	if IsSimple(raw) {
		return raw, true
	}
	if lang == schema.LangEnglish {
		return raw, false
	}
	out, err := g.translate(ctx, raw, lang, schema.LangEnglish)
	if err != nil {
		logger.Warnf("gate: query translation %s->en failed: %v, using original query", lang, err)
		return raw, false
	}
	logger.Debugf("gate: translated query %q -> %q", raw, out)
	return out, false
}

// Postprocess translates an English answer back to lang, keeping the English
// text when translation fails.
func (g *Gate) Postprocess(ctx context.Context, answer, lang string) string {
	if lang == schema.LangEnglish || strings.TrimSpace(answer) == "" {
		return answer
	}
	out, err := g.translate(ctx, answer, schema.LangEnglish, lang)
	if err != nil {
		logger.Warnf("gate: answer translation en->%s failed: %v, using English answer", lang, err)
		return answer
	}
	return out
}

func (g *Gate) translate(ctx context.Context, text, src, dst string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.Timeout)
	defer cancel()
	return pool.Run(ctx, g.Pool, func(ctx context.Context) (string, error) {
		return g.Translator.Translate(ctx, text, src, dst)
	})
}
