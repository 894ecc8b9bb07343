package index

import (
	"fmt"
	"io"
	"strings"

	"github.com/sbinet/npyio"
)

// ReadNPY decodes a two-dimensional float32 or float64 NumPy array into row
// vectors.
func ReadNPY(r io.Reader) ([][]float64, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("npy: %w", err)
	}
	descr := nr.Header.Descr
	if descr.Fortran {
		return nil, fmt.Errorf("npy: fortran order is not supported")
	}
	rows, cols, err := matrixShape(descr.Shape)
	if err != nil {
		return nil, err
	}

	flat := make([]float64, rows*cols)
	switch strings.TrimLeft(descr.Type, "<>|=") {
	case "f4":
		data := make([]float32, rows*cols)
		if err := nr.Read(&data); err != nil {
			return nil, fmt.Errorf("npy: %w", err)
		}
		for i, v := range data {
			flat[i] = float64(v)
		}
	case "f8":
		if err := nr.Read(&flat); err != nil {
			return nil, fmt.Errorf("npy: %w", err)
		}
	default:
		return nil, fmt.Errorf("npy: unsupported dtype %q", descr.Type)
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("npy: read %d values, want %d", len(flat), rows*cols)
	}

	out := make([][]float64, rows)
	for i := range out {
		out[i] = flat[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return out, nil
}

func matrixShape(shape []int) (rows, cols int, err error) {
	switch {
	case len(shape) == 2:
		return shape[0], shape[1], nil
	case len(shape) == 1 && shape[0] == 0:
		return 0, 0, nil
	default:
		return 0, 0, fmt.Errorf("npy: expected a 2-D array, got shape %v", shape)
	}
}
