package index

import (
	"context"
	"sort"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/singleflight"

	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/common/logger"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/metrics"
	"github.com/alibaba/higress/plugins/golang-filter/mcp-server/servers/legal/schema"
)

// Store lazily loads dataset indexes and keeps them for the process lifetime.
type Store struct {
	loader Loader

	mu      sync.RWMutex
	indexes map[string]*DatasetIndex
	group   singleflight.Group
}

func NewStore(loader Loader) *Store {
	return &Store{
		loader:  loader,
		indexes: make(map[string]*DatasetIndex),
	}
}

// Load returns the index for (lang, dataset), loading it on first use.
// Concurrent first loads of the same key share one read.
func (s *Store) Load(ctx context.Context, lang, dataset string) (*DatasetIndex, error) {
	key := Key(lang, dataset)

	s.mu.RLock()
	ix, ok := s.indexes[key]
	s.mu.RUnlock()
	if ok {
		return ix, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		s.mu.RLock()
		ix, ok := s.indexes[key]
		s.mu.RUnlock()
		if ok {
			return ix, nil
		}

		ix, err := s.loader.Load(ctx, lang, dataset)
		if err == nil {
			err = ix.validate()
		}
		metrics.IncIndexLoad(lang, dataset, err)
		if err != nil {
			return nil, &schema.ConfigurationError{Lang: lang, Dataset: dataset, Err: err}
		}

		s.mu.Lock()
		s.indexes[key] = ix
		s.mu.Unlock()
		logger.Infof("loaded index %s: %d entries", key, ix.Len())
		return ix, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*DatasetIndex), nil
}

// LoadWithFallback tries primary first and then the remaining datasets in
// priority order. It returns the index and the dataset actually used.
func (s *Store) LoadWithFallback(ctx context.Context, lang, primary string) (*DatasetIndex, string, error) {
	order := make([]string, 0, len(schema.Datasets))
	order = append(order, primary)
	for _, ds := range schema.Datasets {
		if ds != primary {
			order = append(order, ds)
		}
	}

	var errs *multierror.Error
	for _, ds := range order {
		ix, err := s.Load(ctx, lang, ds)
		if err == nil {
			if ds != primary {
				logger.Warnf("index %s unavailable, using %s", Key(lang, primary), Key(lang, ds))
			}
			return ix, ds, nil
		}
		logger.Warnf("failed to load index %s: %v", Key(lang, ds), err)
		errs = multierror.Append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, "", &schema.ConfigurationError{
		Lang: lang,
		Err:  multierror.Append(schema.ErrNoDataset, errs.WrappedErrors()...),
	}
}

// Loaded returns the keys of all loaded indexes, sorted.
func (s *Store) Loaded() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.indexes))
	for k := range s.indexes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Preload loads every dataset for the given languages. Failures are logged
// and returned together but never stop the remaining loads.
func (s *Store) Preload(ctx context.Context, langs []string) error {
	var (
		mu   sync.Mutex
		errs *multierror.Error
		wg   sync.WaitGroup
	)
	for _, lang := range langs {
		for _, ds := range schema.Datasets {
			wg.Add(1)
			go func(lang, ds string) {
				defer wg.Done()
				if _, err := s.Load(ctx, lang, ds); err != nil {
					logger.Warnf("preload %s failed: %v", Key(lang, ds), err)
					mu.Lock()
					errs = multierror.Append(errs, err)
					mu.Unlock()
				}
			}(lang, ds)
		}
	}
	wg.Wait()
	return errs.ErrorOrNil()
}
