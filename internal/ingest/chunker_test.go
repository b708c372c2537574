package ingest

import (
	"fmt"
	"strings"
	"testing"
)

func sentence(n int) string {
	// ~300 byte filler sentence
	return strings.Repeat("palavra ", 36) + fmt.Sprintf("frase %d.", n)
}

func TestChunkTextSplitsOnLimit(t *testing.T) {
	filename := "LEI COMPLEMENTAR Nº 715, DE 16 DE JANEIRO DE 2018.html"
	s1, s2 := sentence(1), sentence(2)
	s3 := "Esta lei entra em vigor na data de sua publicação."
	text := s1 + " " + s2 + " " + s3

	chunks := ChunkText(text, filename, 2018, 400)
	if len(chunks) != 2 {
		t.Fatalf("got %d chunks, want 2: %q", len(chunks), chunks)
	}

	header := fmt.Sprintf("LEI JURÍDICA: %s (Publicada em %d). CONTEÚDO: ", filename, 2018)
	for i, chunk := range chunks {
		if !strings.HasPrefix(chunk, header) {
			t.Errorf("chunk %d missing header: %q", i, chunk)
		}
	}
	if !strings.Contains(chunks[0], "frase 1.") {
		t.Errorf("chunk 0 missing first sentence: %q", chunks[0])
	}
	if !strings.Contains(chunks[1], "frase 2.") || !strings.Contains(chunks[1], "em vigor") {
		t.Errorf("chunk 1 = %q", chunks[1])
	}
	if strings.Count(chunks[1], "CONTEÚDO:") != 1 {
		t.Errorf("trailing fragment duplicated the header: %q", chunks[1])
	}
}

func TestChunkTextShortTextSingleChunk(t *testing.T) {
	chunks := ChunkText("Art. 1º Fica aprovado o regulamento.", "decreto 456.html", 1995, 1500)
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	want := "LEI JURÍDICA: decreto 456.html (Publicada em 1995). CONTEÚDO: Art. 1º Fica aprovado o regulamento."
	if chunks[0] != want {
		t.Errorf("got %q, want %q", chunks[0], want)
	}
}

func TestChunkTextEmpty(t *testing.T) {
	if chunks := ChunkText("", "lei.html", 2020, 1500); len(chunks) != 0 {
		t.Errorf("got %d chunks for empty text, want 0", len(chunks))
	}
}

func TestSplitSentences(t *testing.T) {
	got := splitSentences("Primeira frase. Segunda frase! Terceira?")
	want := []string{"Primeira frase.", "Segunda frase!", "Terceira?"}
	if len(got) != len(want) {
		t.Fatalf("got %d sentences: %q", len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sentence %d = %q, want %q", i, got[i], want[i])
		}
	}
}
