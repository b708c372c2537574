package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"legisc-rag/internal/domain/lawModel"
)

// DocumentMap holds every corpus chunk, addressable both by vector row
// and by chunk id. Rows must be dense 0..n-1; this is verified at load
// time so a stale map can never be silently joined to a rebuilt index.
type DocumentMap struct {
	byRow []lawModel.Chunk
	byID  map[string]lawModel.Chunk
}

func New(chunks []lawModel.Chunk) (*DocumentMap, error) {
	ordered := make([]lawModel.Chunk, len(chunks))
	copy(ordered, chunks)
	sort.Slice(ordered, func(a, b int) bool { return ordered[a].Row < ordered[b].Row })

	byID := make(map[string]lawModel.Chunk, len(ordered))
	for i, chunk := range ordered {
		if chunk.Row != i {
			return nil, fmt.Errorf("document map rows not dense: expected row %d, got %d (chunk %s)", i, chunk.Row, chunk.ID)
		}
		if _, dup := byID[chunk.ID]; dup {
			return nil, fmt.Errorf("document map has duplicate chunk id %s", chunk.ID)
		}
		byID[chunk.ID] = chunk
	}
	return &DocumentMap{byRow: ordered, byID: byID}, nil
}

func (m *DocumentMap) Len() int {
	return len(m.byRow)
}

func (m *DocumentMap) ByRow(row int) (lawModel.Chunk, bool) {
	if row < 0 || row >= len(m.byRow) {
		return lawModel.Chunk{}, false
	}
	return m.byRow[row], true
}

func (m *DocumentMap) ByID(id string) (lawModel.Chunk, bool) {
	chunk, ok := m.byID[id]
	return chunk, ok
}

// Chunks returns all chunks in row order. Callers must not mutate.
func (m *DocumentMap) Chunks() []lawModel.Chunk {
	return m.byRow
}

// Save writes the map as a JSON object keyed by chunk id, entries in row
// order so rebuilds diff cleanly.
func (m *DocumentMap) Save(path string) error {
	buf := []byte("{")
	for i, chunk := range m.byRow {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, err := json.Marshal(chunk.ID)
		if err != nil {
			return fmt.Errorf("marshaling document map key: %w", err)
		}
		value, err := json.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("marshaling chunk %s: %w", chunk.ID, err)
		}
		buf = append(buf, '\n', ' ', ' ')
		buf = append(buf, key...)
		buf = append(buf, ':', ' ')
		buf = append(buf, value...)
	}
	buf = append(buf, '\n', '}', '\n')

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return fmt.Errorf("writing document map: %w", err)
	}
	return nil
}

func Load(path string) (*DocumentMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document map: %w", err)
	}
	var raw map[string]lawModel.Chunk
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing document map %s: %w", path, err)
	}
	chunks := make([]lawModel.Chunk, 0, len(raw))
	for id, chunk := range raw {
		chunk.ID = id
		chunks = append(chunks, chunk)
	}
	return New(chunks)
}

// SaveChunks persists the pre-embedding chunk checkpoint, written before
// the embedding phase so an inspection of what went into the index never
// requires re-running extraction.
func SaveChunks(path string, chunks []lawModel.Chunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling chunk checkpoint: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing chunk checkpoint: %w", err)
	}
	return nil
}

func LoadChunks(path string) ([]lawModel.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading chunk checkpoint: %w", err)
	}
	var chunks []lawModel.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing chunk checkpoint %s: %w", path, err)
	}
	return chunks, nil
}
