package index

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

const (
	textsPickle    = "texts.pkl"
	metaPickle     = "meta.pkl"
	textsFile      = "texts.json"
	metaFile       = "meta.json"
	embeddingsFile = "embeddings.npy"
)

// DatasetIndex holds one (language, dataset) index: ordered entries plus a
// parallel embedding matrix.
type DatasetIndex struct {
	Lang       string
	Dataset    string
	Texts      []string
	Metas      []schema.Metadata
	Embeddings [][]float64
}

// Key returns the lang_dataset identifier.
func (ix *DatasetIndex) Key() string {
	return Key(ix.Lang, ix.Dataset)
}

// Len returns the number of rows.
func (ix *DatasetIndex) Len() int {
	return len(ix.Metas)
}

// Entry returns row i as an IndexEntry.
func (ix *DatasetIndex) Entry(i int) schema.IndexEntry {
	return schema.IndexEntry{
		Text:      ix.Texts[i],
		Metadata:  ix.Metas[i],
		Embedding: ix.Embeddings[i],
	}
}

func (ix *DatasetIndex) validate() error {
	if len(ix.Texts) != len(ix.Metas) {
		return fmt.Errorf("%d texts but %d metadata rows", len(ix.Texts), len(ix.Metas))
	}
	if len(ix.Embeddings) != len(ix.Metas) {
		return fmt.Errorf("%d embedding rows but %d metadata rows", len(ix.Embeddings), len(ix.Metas))
	}
	return nil
}

// Key builds the lang_dataset identifier used for loaded indexes.
func Key(lang, dataset string) string {
	return lang + "_" + dataset
}

// Loader produces a dataset index.
type Loader interface {
	Load(ctx context.Context, lang, dataset string) (*DatasetIndex, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, lang, dataset string) (*DatasetIndex, error)

func (f LoaderFunc) Load(ctx context.Context, lang, dataset string) (*DatasetIndex, error) {
	return f(ctx, lang, dataset)
}

// DirLoader reads <Root>/<lang>/<dataset>/{texts.pkl,meta.pkl,embeddings.npy}
// as written by the ingester. texts.json and meta.json are read instead when
// the pickles are absent.
type DirLoader struct {
	Root string
}

func (d DirLoader) Load(ctx context.Context, lang, dataset string) (*DatasetIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	dir := filepath.Join(d.Root, lang, dataset)

	ix := &DatasetIndex{Lang: lang, Dataset: dataset}
	if err := readArtifact(dir, textsPickle, textsFile, &ix.Texts); err != nil {
		return nil, err
	}
	if err := readArtifact(dir, metaPickle, metaFile, &ix.Metas); err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(dir, embeddingsFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if ix.Embeddings, err = ReadNPY(f); err != nil {
		return nil, fmt.Errorf("%s: %w", embeddingsFile, err)
	}

	if err := ix.validate(); err != nil {
		return nil, err
	}
	return ix, nil
}

func readArtifact(dir, pickleName, jsonName string, v any) error {
	path := filepath.Join(dir, pickleName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return readJSON(filepath.Join(dir, jsonName), v)
	}
	return readPickle(path, v)
}

func readJSON(path string, v any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}
