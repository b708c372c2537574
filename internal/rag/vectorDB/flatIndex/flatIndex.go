package flatIndex

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
)

// file header identifying the on-disk format
const magic = "FLATIDX1"

// Index is an exact-search flat vector index: every vector is kept in
// full and queries scan all rows. Row numbers are assignment order and
// are the join key into the document map.
type Index struct {
	dim     int
	vectors [][]float32
}

func New(dim int) *Index {
	return &Index{dim: dim}
}

func (ix *Index) Size() int {
	return len(ix.vectors)
}

func (ix *Index) Dim() int {
	return ix.dim
}

func (ix *Index) Add(vectors ...[]float32) error {
	for _, v := range vectors {
		if len(v) != ix.dim {
			return fmt.Errorf("adding vector of dim %d to index of dim %d", len(v), ix.dim)
		}
		ix.vectors = append(ix.vectors, v)
	}
	return nil
}

// Search scans every row and returns the k nearest by squared L2
// distance, closest first. k is capped at the index size.
func (ix *Index) Search(ctx context.Context, vector []float32, k int) ([]int, []float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if len(vector) != ix.dim {
		return nil, nil, fmt.Errorf("searching with vector of dim %d in index of dim %d", len(vector), ix.dim)
	}
	if k > len(ix.vectors) {
		k = len(ix.vectors)
	}
	if k <= 0 {
		return nil, nil, nil
	}

	distances := make([]float32, len(ix.vectors))
	rows := make([]int, len(ix.vectors))
	for row, v := range ix.vectors {
		var d float32
		for i := range v {
			diff := v[i] - vector[i]
			d += diff * diff
		}
		distances[row] = d
		rows[row] = row
	}
	sort.Slice(rows, func(a, b int) bool {
		return distances[rows[a]] < distances[rows[b]]
	})

	outRows := make([]int, k)
	outDists := make([]float32, k)
	for i := 0; i < k; i++ {
		outRows[i] = rows[i]
		outDists[i] = distances[rows[i]]
	}
	return outRows, outDists, nil
}

// Save writes the index as magic + dim + count header followed by the
// vectors row-major, float32 little-endian.
func (ix *Index) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.WriteString(magic); err != nil {
		return fmt.Errorf("writing index header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(ix.dim)); err != nil {
		return fmt.Errorf("writing index header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ix.vectors))); err != nil {
		return fmt.Errorf("writing index header: %w", err)
	}
	buf := make([]byte, 4)
	for _, v := range ix.vectors {
		for _, x := range v {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := w.Write(buf); err != nil {
				return fmt.Errorf("writing index rows: %w", err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing index file: %w", err)
	}
	return nil
}

// Load reads an index written by Save. Any mismatch with the declared
// header is a corrupt artifact and an error.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	head := make([]byte, len(magic))
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, fmt.Errorf("reading index header: %w", err)
	}
	if string(head) != magic {
		return nil, fmt.Errorf("index file %s: unrecognized format", path)
	}

	var dim, count uint32
	if err := binary.Read(r, binary.LittleEndian, &dim); err != nil {
		return nil, fmt.Errorf("reading index header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("reading index header: %w", err)
	}

	ix := New(int(dim))
	row := make([]byte, 4*dim)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("index file %s: truncated at row %d: %w", path, i, err)
		}
		v := make([]float32, dim)
		for j := range v {
			v[j] = math.Float32frombits(binary.LittleEndian.Uint32(row[4*j:]))
		}
		ix.vectors = append(ix.vectors, v)
	}
	return ix, nil
}
