package rag

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"legisc-rag/internal/adapter/utils"
	"legisc-rag/internal/config"
	"legisc-rag/internal/domain/lawModel"
	"legisc-rag/internal/metrics"
)

// Context is the retrieved grounding material for one query: the joined
// chunk texts plus the unique source filenames they came from.
type Context struct {
	Text    string
	Sources []string
}

func (c Context) Empty() bool {
	return c.Text == ""
}

var (
	fuzzyLawNumberRe  = regexp.MustCompile(`(?i)(LC|LEI|DECRETO)\s*(?:[^\d]+)?\s*([\d.]+)`)
	fuzzyNumberOnlyRe = regexp.MustCompile(`(?i)Nº?\s*([\d.]{4,})`)
	nonDigitRe        = regexp.MustCompile(`[^0-9]`)
)

// GetContext resolves grounding context for a query with a two-stage
// hybrid search. Stage one tries to pin the query to a specific norm: an
// LLM extracts the full unique id, a regex falls back to the bare number,
// and any hit in the document map returns that law's chunks wholesale,
// skipping the vector index. Stage two rewrites the query against recent
// history and falls back to k-NN over the flat index.
func (s *service) GetContext(ctx context.Context, query string, history []lawModel.Turn, k int) (Context, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	uniqueID := s.extractUniqueID(ctx, query)
	lawNumber := ""
	if uniqueID == "" {
		lawNumber = extractLawNumber(query)
	}
	searchKey := uniqueID
	if searchKey == "" {
		searchKey = lawNumber
	}

	if searchKey != "" {
		if forced := s.forcedLookup(uniqueID, lawNumber); !forced.Empty() {
			log.Info("forced lookup hit, skipping vector search", "searchKey", searchKey)
			return forced, nil
		}
	}

	searchQuery := s.rewriteQuery(ctx, query, history)
	if searchKey != "" {
		// a law was named but is absent from the map: bias the embedding
		// towards its identifier anyway
		searchQuery = forcedSearchPrefix(searchKey) + searchQuery
		log.Debug("forced lookup missed, biasing vector query", "searchKey", searchKey)
	}

	return s.vectorSearch(ctx, searchQuery, k)
}

// extractUniqueID asks the model for a TYPE_NUMBER_YEAR identifier at
// temperature zero. Anything that is not a well-formed id, including a
// model failure, is treated as "no id" rather than an error.
func (s *service) extractUniqueID(ctx context.Context, query string) string {
	answer, err := s.llmProvider.Generate(ctx, "", extractPrompt(query), config.ToolTemperature)
	if err != nil {
		s.logger.Warn("unique id extraction failed, treating as absent", "error", err)
		return ""
	}
	id := strings.ToUpper(strings.TrimSpace(answer))
	if !strings.HasPrefix(id, "LC_") && !strings.HasPrefix(id, "LEI_") && !strings.HasPrefix(id, "DECRETO_") {
		return ""
	}
	if len(strings.Split(id, "_")) != 3 {
		return ""
	}
	return id
}

// extractLawNumber is the regex fallback when the LLM cannot produce a
// full id: the bare norm number after a type word, or after Nº when at
// least four digits long (so article references are never mistaken for
// law numbers).
func extractLawNumber(query string) string {
	if m := fuzzyLawNumberRe.FindStringSubmatch(query); m != nil {
		if number := nonDigitRe.ReplaceAllString(m[2], ""); number != "" {
			return number
		}
	}
	if m := fuzzyNumberOnlyRe.FindStringSubmatch(query); m != nil {
		if number := nonDigitRe.ReplaceAllString(m[1], ""); number != "" {
			return number
		}
	}
	return ""
}

// forcedLookup scans the document map for chunks of the identified norm.
// A full unique id must match exactly; a bare number matches any id
// containing it, which deliberately over-matches (number 715 also pulls
// LC_7150) rather than miss the law the user asked about.
func (s *service) forcedLookup(uniqueID, lawNumber string) Context {
	var parts []string
	sources := map[string]bool{}

	for _, chunk := range s.docMap.Chunks() {
		idUnico := chunk.Metadata.IDUnico
		match := false
		switch {
		case uniqueID != "" && idUnico == uniqueID:
			match = true
		case lawNumber != "" && strings.Contains(idUnico, lawNumber):
			match = true
		}
		if !match {
			continue
		}
		source := sourceName(chunk)
		sources[source] = true
		parts = append(parts, fmt.Sprintf("[Contexto Forçado (%s)]: %s", source, strings.TrimSpace(chunk.Text)))
	}

	if len(parts) == 0 {
		return Context{}
	}
	return Context{
		Text:    strings.Join(parts, "\n\n---\n\n"),
		Sources: sortedKeys(sources),
	}
}

// rewriteQuery turns a possibly elliptical follow-up into a self-contained
// search phrase using up to the last four prior turns. On failure the
// original query is used unchanged.
func (s *service) rewriteQuery(ctx context.Context, query string, history []lawModel.Turn) string {
	prior := history
	if len(prior) > 0 {
		prior = prior[:len(prior)-1]
	}
	if len(prior) > config.RewriteHistoryTurns {
		prior = prior[len(prior)-config.RewriteHistoryTurns:]
	}
	turns := make([]string, 0, len(prior))
	for _, turn := range prior {
		turns = append(turns, fmt.Sprintf("[%s]: %s", turn.Role, turn.Content))
	}

	answer, err := s.llmProvider.Generate(ctx, "", rewritePrompt(strings.Join(turns, "\n"), query), config.ToolTemperature)
	if err != nil {
		s.logger.Warn("query rewrite failed, using original query", "error", err)
		return query
	}
	rewritten := strings.ReplaceAll(strings.TrimSpace(answer), "\n", " ")
	if rewritten == "" {
		return query
	}
	return rewritten
}

func (s *service) vectorSearch(ctx context.Context, searchQuery string, k int) (Context, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	vector, err := s.embedder.EmbedQuery(ctx, searchQuery)
	if err != nil {
		return Context{}, fmt.Errorf("embedding search query: %w", err)
	}

	var rows []int
	err = utils.Retry(ctx, config.SearchRetryAttempts, config.SearchRetryBaseWait, config.SearchRetryMaxWait, func() error {
		var searchErr error
		rows, _, searchErr = s.index.Search(ctx, vector, k)
		return searchErr
	})
	if err != nil {
		return Context{}, fmt.Errorf("searching index: %w", err)
	}

	var parts []string
	sources := map[string]bool{}
	for i, row := range rows {
		chunk, ok := s.docMap.ByRow(row)
		if !ok {
			continue
		}
		source := sourceName(chunk)
		sources[source] = true
		parts = append(parts, fmt.Sprintf("[Contexto %d (%s)]: %s", i+1, source, strings.TrimSpace(chunk.Text)))
	}

	if len(parts) == 0 {
		return Context{}, nil
	}
	return Context{
		Text:    strings.Join(parts, "\n\n---\n\n"),
		Sources: sortedKeys(sources),
	}, nil
}

func sourceName(chunk lawModel.Chunk) string {
	if chunk.Metadata.Fonte == "" {
		return "Fonte Desconhecida"
	}
	return filepath.Base(chunk.Metadata.Fonte)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
