package ingest

import (
	"fmt"
	"regexp"
	"strings"

	"legisc-rag/internal/config"
)

var sentenceRe = regexp.MustCompile(`[^.!?]+(?:[.!?]+|$)`)

// splitSentences breaks legal prose into sentence-sized pieces on
// terminal punctuation. Abbreviation periods over-split slightly, which
// only makes chunks break earlier, never mid-word.
func splitSentences(text string) []string {
	var sentences []string
	for _, raw := range sentenceRe.FindAllString(text, -1) {
		if s := strings.TrimSpace(raw); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// ChunkText splits an extracted law into embedding-sized chunks. Every
// chunk is prefixed with a header naming the source file and publication
// year so each embedded passage is self-describing. Chunks close once
// adding the next sentence would exceed maxSize (header included) and the
// running content already has at least MinChunkContentSize bytes. A small
// trailing fragment is appended to the previous chunk instead of becoming
// its own undersized one.
func ChunkText(text, filename string, year, maxSize int) []string {
	header := fmt.Sprintf("LEI JURÍDICA: %s (Publicada em %d). CONTEÚDO: ", filename, year)

	var chunks []string
	current := ""
	for _, sentence := range splitSentences(text) {
		if len(current)+len(sentence)+1 > maxSize-len(header) &&
			len(current) > config.MinChunkContentSize {
			chunks = append(chunks, header+strings.TrimSpace(current))
			current = sentence
		} else {
			current += " " + sentence
		}
	}

	if current != "" {
		final := strings.TrimSpace(current)
		if len(final) > config.MinChunkContentSize || len(chunks) == 0 {
			chunks = append(chunks, header+final)
		} else {
			chunks[len(chunks)-1] += " " + final
		}
	}

	return chunks
}
