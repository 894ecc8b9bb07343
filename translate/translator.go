package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/llm"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// Translator converts text between language codes.
type Translator interface {
	Translate(ctx context.Context, text, src, dst string) (string, error)
}

// Unavailable is the translator used when none is configured.
type Unavailable struct{}

func (Unavailable) Translate(context.Context, string, string, string) (string, error) {
	return "", fmt.Errorf("translate: %w", schema.ErrCollaboratorUnavailable)
}

var languageNames = map[string]string{
	schema.LangEnglish: "English",
	schema.LangHindi:   "Hindi",
	schema.LangNepali:  "Nepali",
}

const translatePrompt = `You are a translator for legal questions and answers.
Translate the text below from %s to %s. Keep section numbers, act names and legal terms accurate.
Respond with ONLY the translation. Do not add explanations or quotes.

Text:
%s`

// LLMTranslator translates with a chat completion model.
type LLMTranslator struct {
	Provider llm.Provider
}

func (l *LLMTranslator) Translate(ctx context.Context, text, src, dst string) (out string, err error) {
	if l.Provider == nil {
		return "", fmt.Errorf("translate: %w", schema.ErrCollaboratorUnavailable)
	}
	if src == dst || strings.TrimSpace(text) == "" {
		return text, nil
	}
	start := time.Now()
	defer func() { metrics.ObserveCollaborator("translate", start, err) }()

	prompt := fmt.Sprintf(translatePrompt, languageName(src), languageName(dst), text)
	out, err = l.Provider.GenerateCompletion(ctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.Trim(strings.TrimSpace(out), `"`)
	if out == "" {
		return "", errors.New("translate: empty translation")
	}
	return out, nil
}

func languageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// NewTranslator builds the configured translator; an empty provider yields Unavailable.
func NewTranslator(cfg config.TranslationConfig) (Translator, error) {
	switch cfg.Provider {
	case "":
		return Unavailable{}, nil
	case "llm":
		p, err := llm.NewProvider(cfg.LLM)
		if err != nil {
			return nil, err
		}
		return &LLMTranslator{Provider: p}, nil
	default:
		return nil, fmt.Errorf("unknown translation provider %q", cfg.Provider)
	}
}
