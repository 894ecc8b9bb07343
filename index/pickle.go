package index

import (
	"encoding/json"
	"fmt"
	"math/big"
	"path/filepath"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"
)

// readPickle unpickles path and decodes the result into v. Pickled lists,
// tuples and str-keyed dicts map onto JSON arrays and objects, so the
// metadata types share their JSON field names with the pickle keys.
func readPickle(path string, v any) error {
	obj, err := pickle.Load(path)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	plain, err := plainValue(obj)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func plainValue(obj interface{}) (any, error) {
	switch o := obj.(type) {
	case nil, bool, int, float64, string:
		return o, nil
	case *big.Int:
		return o.String(), nil
	case *types.List:
		return plainSlice(o.Len(), o.Get)
	case *types.Tuple:
		return plainSlice(o.Len(), o.Get)
	case *types.Dict:
		out := make(map[string]any, o.Len())
		for _, k := range o.Keys() {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("dict key %v is %T, want str", k, k)
			}
			val, _ := o.Get(k)
			pv, err := plainValue(val)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out[key] = pv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported pickled value %T", obj)
	}
}

func plainSlice(n int, get func(int) interface{}) ([]any, error) {
	out := make([]any, n)
	for i := range out {
		v, err := plainValue(get(i))
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}
