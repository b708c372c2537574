package lawModel

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	lcMarkerRe     = regexp.MustCompile(`lc\s*n[º°o]?`)
	numberMarkerRe = regexp.MustCompile(`(?:n[º°o]|numero)?\s*([\d.]+)`)
	numberFallRe   = regexp.MustCompile(`\d{4,}`)
	yearRe         = regexp.MustCompile(`19\d{2}|20\d{2}`)
	digitsOnlyRe   = regexp.MustCompile(`[^\d]`)

	articleRe     = regexp.MustCompile(`(?i)Art\.\s*\d+º?|§\s*\d+º?|Parágrafo\s*único|Caput`)
	articleCharRe = regexp.MustCompile(`[^\p{L}\p{N}_]`)
)

// NormalizeLawID derives the canonical law identifier and publication year
// from a corpus filename. Matching is case-insensitive; complementary laws
// take precedence over decrees and ordinary laws, anything unrecognized is
// a generic DOC. The year is the largest plausible year found anywhere in
// the name.
func NormalizeLawID(filename string) (LawID, int) {
	name := strings.ToLower(filename)
	name = strings.TrimSuffix(name, ".html")

	var lawType LawType
	switch {
	case strings.Contains(name, "complementar") || lcMarkerRe.MatchString(name):
		lawType = LC
	case strings.Contains(name, "decreto"):
		lawType = DECRETO
	case strings.Contains(name, "lei") || strings.Contains(name, "promulgada") || strings.Contains(name, "ordinária"):
		lawType = LEI
	default:
		lawType = DOC
	}

	number := ""
	if m := numberMarkerRe.FindStringSubmatch(name); m != nil {
		number = digitsOnlyRe.ReplaceAllString(m[1], "")
	}
	if number == "" {
		if m := numberFallRe.FindString(name); m != "" {
			number = m
		} else {
			number = "0000"
		}
	}

	year := 0
	for _, y := range yearRe.FindAllString(name, -1) {
		if v, err := strconv.Atoi(y); err == nil && v > year {
			year = v
		}
	}

	return LawID{Type: lawType, Number: number, Year: year}, year
}

// ExtractArticleID refines a base law identifier with the first article
// marker found in the chunk text (Art. N, § N, Parágrafo único or Caput).
// Without a marker the base identifier is returned unchanged.
func ExtractArticleID(chunkText, baseID string) string {
	marker := articleRe.FindString(chunkText)
	if marker == "" {
		return baseID
	}
	token := strings.NewReplacer(" ", "_", ".", "", "º", "").Replace(marker)
	token = strings.ToUpper(token)
	token = articleCharRe.ReplaceAllString(token, "")
	return baseID + "_" + token
}
