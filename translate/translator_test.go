package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// MockLLMProvider records prompts and returns a canned response.
type MockLLMProvider struct {
	response string
	err      error
	prompts  []string
}

func (m *MockLLMProvider) GenerateCompletion(_ context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	return m.response, m.err
}

func (m *MockLLMProvider) GetProviderType() string { return "mock" }

func TestLLMTranslatorTranslate(t *testing.T) {
	mock := &MockLLMProvider{response: ` "What is the punishment for theft?" `}
	tr := &LLMTranslator{Provider: mock}

	out, err := tr.Translate(context.Background(), "चोरी की सजा क्या है?", "hi", "en")
	require.NoError(t, err)
	assert.Equal(t, "What is the punishment for theft?", out)
	require.Len(t, mock.prompts, 1)
	assert.Contains(t, mock.prompts[0], "from Hindi to English")
	assert.Contains(t, mock.prompts[0], "चोरी की सजा क्या है?")
}

func TestLLMTranslatorSameLanguageSkipsModel(t *testing.T) {
	mock := &MockLLMProvider{response: "unused"}
	tr := &LLMTranslator{Provider: mock}

	out, err := tr.Translate(context.Background(), "bail", "en", "en")
	require.NoError(t, err)
	assert.Equal(t, "bail", out)
	assert.Empty(t, mock.prompts)
}

func TestLLMTranslatorErrors(t *testing.T) {
	tr := &LLMTranslator{Provider: &MockLLMProvider{err: errors.New("rate limited")}}
	_, err := tr.Translate(context.Background(), "जमानत", "ne", "en")
	assert.Error(t, err)

	tr = &LLMTranslator{Provider: &MockLLMProvider{response: "  "}}
	_, err = tr.Translate(context.Background(), "जमानत", "ne", "en")
	assert.Error(t, err)
}

func TestNewTranslatorUnavailable(t *testing.T) {
	tr, err := NewTranslator(config.TranslationConfig{})
	require.NoError(t, err)
	_, err = tr.Translate(context.Background(), "x", "hi", "en")
	assert.ErrorIs(t, err, schema.ErrCollaboratorUnavailable)

	_, err = NewTranslator(config.TranslationConfig{Provider: "google"})
	assert.Error(t, err)
}
