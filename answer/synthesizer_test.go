package answer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/config"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/pool"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/qa"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

type fakeExtractor struct {
	results map[string]qa.Result
	errs    map[string]error
}

func (f fakeExtractor) Extract(_ context.Context, _, passage string) (qa.Result, error) {
	if err, ok := f.errs[passage]; ok {
		return qa.Result{}, err
	}
	return f.results[passage], nil
}

func doc(id, text string) schema.Metadata {
	return schema.Metadata{ID: id, Sections: []schema.Section{{SectionNo: "1", Text: text}}}
}

func newTestSynthesizer(ex qa.Extractor) *Synthesizer {
	return NewSynthesizer(ex, pool.New(4), config.Default().Answer)
}

func TestLowConfidenceFallsBackToFirstDocument(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"theft is punishable": {Answer: "theft is punishable", Score: 0.44},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q", []schema.Metadata{doc("a", "theft is punishable")})

	assert.Equal(t, "theft is punishable", got.Text)
	assert.Zero(t, got.Confidence)
	assert.Equal(t, 0, got.DocIndex)
	assert.Equal(t, "a", got.Metadata.ID)
}

func TestFallbackTruncatesLongText(t *testing.T) {
	long := make([]rune, 700)
	for i := range long {
		long[i] = 'क'
	}
	got := newTestSynthesizer(qa.Unavailable{}).Synthesize(context.Background(), "q", []schema.Metadata{doc("a", string(long))})

	assert.Equal(t, string(long[:600])+"...", got.Text)
	assert.Zero(t, got.Confidence)
}

func TestHighestConfidenceWins(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage":  {Answer: "seven years imprisonment", Score: 0.6},
		"second passage": {Answer: "a fine of ten thousand rupees", Score: 0.9},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage")})

	assert.Equal(t, "a fine of ten thousand rupees", got.Text)
	assert.Equal(t, 0.9, got.Confidence)
	assert.Equal(t, 1, got.DocIndex)
	assert.Equal(t, "b", got.Metadata.ID)
	assert.Equal(t, "second passage", got.Context)
}

func TestEqualConfidencePrefersEarlierDocument(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage":  {Answer: "seven years imprisonment", Score: 0.7},
		"second passage": {Answer: "a fine of ten thousand rupees", Score: 0.7},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage")})

	assert.Equal(t, 0, got.DocIndex)
}

func TestAgreementBoostsConfidence(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage":  {Answer: "imprisonment for seven years", Score: 0.6},
		"second passage": {Answer: "imprisonment for seven years.", Score: 0.5},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage")})

	assert.Equal(t, 0, got.DocIndex)
	assert.InDelta(t, 0.72, got.Confidence, 1e-9)
}

func TestAgreementBoostIsCapped(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage":  {Answer: "imprisonment for seven years", Score: 0.95},
		"second passage": {Answer: "Imprisonment for seven years", Score: 0.9},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage")})

	assert.Equal(t, 1.0, got.Confidence)
}

func TestOnlyTopDocumentsAreConsulted(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage": {Answer: "seven years imprisonment", Score: 0.5},
		"third passage": {Answer: "life imprisonment", Score: 0.99},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage"), doc("c", "third passage")})

	assert.Equal(t, "seven years imprisonment", got.Text)
	assert.Equal(t, 0.5, got.Confidence)
}

func TestShortAnswersAreRejected(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage": {Answer: " yes ", Score: 0.99},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q", []schema.Metadata{doc("a", "first passage")})

	assert.Equal(t, "first passage", got.Text)
	assert.Zero(t, got.Confidence)
}

func TestEmptyContextIsSkipped(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"":               {Answer: "should never be asked", Score: 1},
		"second passage": {Answer: "three years imprisonment", Score: 0.8},
	}}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{{ID: "empty"}, doc("b", "second passage")})

	assert.Equal(t, "three years imprisonment", got.Text)
	assert.Equal(t, 1, got.DocIndex)
}

func TestNoDocuments(t *testing.T) {
	got := newTestSynthesizer(qa.Unavailable{}).Synthesize(context.Background(), "q", nil)
	assert.Equal(t, NoInformation, got.Text)
	assert.Zero(t, got.Confidence)
}

func TestExtractorErrorIsIsolated(t *testing.T) {
	ex := fakeExtractor{
		results: map[string]qa.Result{"second passage": {Answer: "three years imprisonment", Score: 0.8}},
		errs:    map[string]error{"first passage": errors.New("model timeout")},
	}
	got := newTestSynthesizer(ex).Synthesize(context.Background(), "q",
		[]schema.Metadata{doc("a", "first passage"), doc("b", "second passage")})

	assert.Equal(t, "three years imprisonment", got.Text)
	assert.Equal(t, 1, got.DocIndex)
}

func TestCancelledContextFallsBack(t *testing.T) {
	ex := fakeExtractor{results: map[string]qa.Result{
		"first passage": {Answer: "seven years imprisonment", Score: 0.9},
	}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	got := newTestSynthesizer(ex).Synthesize(ctx, "q", []schema.Metadata{doc("a", "first passage")})

	require.Equal(t, "first passage", got.Text)
	assert.Zero(t, got.Confidence)
}

func TestTokens(t *testing.T) {
	toks := Tokens("The punishment, for THEFT is: चोरी की सजा!")
	for _, want := range []string{"punishment", "theft", "चोरी", "की", "सजा"} {
		assert.Contains(t, toks, want)
	}
	assert.NotContains(t, toks, "the")
	assert.NotContains(t, toks, "for")
	assert.NotContains(t, toks, "is")
}

func TestOverlap(t *testing.T) {
	assert.Equal(t, 1.0, Overlap("seven years", "Seven years."))
	assert.Equal(t, 0.0, Overlap("seven years", "fine"))
	assert.Equal(t, 0.0, Overlap("", "fine"))
	assert.InDelta(t, 1.0/3.0, Overlap("seven years", "seven months"), 1e-9)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "धारा", TruncateRunes("धारा १०१", 4))
	assert.Equal(t, "abc", TruncateRunes("abc", 10))
	assert.Equal(t, "abc", TruncateRunes("abc", 0))
}
