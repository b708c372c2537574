package flatIndex

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSearchNearestFirst(t *testing.T) {
	ix := New(2)
	err := ix.Add(
		[]float32{0, 0},
		[]float32{10, 10},
		[]float32{1, 1},
		[]float32{5, 5},
	)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}

	rows, dists, err := ix.Search(context.Background(), []float32{0.9, 0.9}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	wantRows := []int{2, 0, 3}
	if len(rows) != len(wantRows) {
		t.Fatalf("got %d rows, want %d", len(rows), len(wantRows))
	}
	for i, want := range wantRows {
		if rows[i] != want {
			t.Errorf("rows[%d] = %d, want %d", i, rows[i], want)
		}
	}
	for i := 1; i < len(dists); i++ {
		if dists[i] < dists[i-1] {
			t.Errorf("distances not ascending: %v", dists)
		}
	}
}

func TestSearchCapsK(t *testing.T) {
	ix := New(2)
	if err := ix.Add([]float32{0, 0}, []float32{1, 1}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	rows, _, err := ix.Search(context.Background(), []float32{0, 0}, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("got %d rows, want 2", len(rows))
	}
}

func TestAddDimMismatch(t *testing.T) {
	ix := New(3)
	if err := ix.Add([]float32{1, 2}); err == nil {
		t.Error("expected error adding 2-dim vector to 3-dim index")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")

	ix := New(3)
	vectors := [][]float32{
		{0.5, -1.25, 3},
		{2, 0, -0.0625},
	}
	if err := ix.Add(vectors...); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := ix.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Size() != 2 || loaded.Dim() != 3 {
		t.Fatalf("loaded size=%d dim=%d, want 2/3", loaded.Size(), loaded.Dim())
	}
	for row, want := range vectors {
		for j, x := range want {
			if loaded.vectors[row][j] != x {
				t.Errorf("vectors[%d][%d] = %v, want %v", row, j, loaded.vectors[row][j], x)
			}
		}
	}
}

func TestLoadRejectsWrongMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.bin")
	if err := os.WriteFile(path, []byte("NOTANIDX\x00\x00\x00\x00"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error loading file with wrong magic")
	}
}
