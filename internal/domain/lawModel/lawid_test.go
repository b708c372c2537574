package lawModel

import "testing"

func TestNormalizeLawID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantID   string
		wantYear int
	}{
		{
			name:     "complementary law",
			filename: "LEI COMPLEMENTAR Nº 715, DE 16 DE JANEIRO DE 2018.html",
			wantID:   "LC_715_2018",
			wantYear: 2018,
		},
		{
			name:     "decree with two year tokens keeps the largest",
			filename: "DECRETO Nº 456, de 1995. Texto de 2021.html",
			wantID:   "DECRETO_456_2021",
			wantYear: 2021,
		},
		{
			name:     "lc marker without the word complementar",
			filename: "LC nº 873 de 2003.html",
			wantID:   "LC_873_2003",
			wantYear: 2003,
		},
		{
			name:     "ordinary law",
			filename: "LEI Nº 18.319, DE 30 DE DEZEMBRO DE 2021.html",
			wantID:   "LEI_18319_2021",
			wantYear: 2021,
		},
		{
			name:     "promulgada counts as law",
			filename: "promulgada em 1989 sob numero 7543.html",
			wantID:   "LEI_1989_1989",
			wantYear: 1989,
		},
		{
			name:     "unrecognized document",
			filename: "constituicao estadual.html",
			wantID:   "DOC_0000_0",
			wantYear: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, year := NormalizeLawID(tt.filename)
			if got := id.String(); got != tt.wantID {
				t.Errorf("NormalizeLawID(%q) id = %q, want %q", tt.filename, got, tt.wantID)
			}
			if year != tt.wantYear {
				t.Errorf("NormalizeLawID(%q) year = %d, want %d", tt.filename, year, tt.wantYear)
			}
		})
	}
}

func TestExtractArticleID(t *testing.T) {
	tests := []struct {
		name string
		text string
		base string
		want string
	}{
		{
			name: "article number",
			text: "dispõe o Art. 5º desta lei que",
			base: "LC_715_2018",
			want: "LC_715_2018_ART_5",
		},
		{
			name: "paragraph sign is not a word character",
			text: "conforme § 2º do artigo anterior",
			base: "LEI_18319_2021",
			want: "LEI_18319_2021__2",
		},
		{
			name: "sole paragraph keeps accents",
			text: "Parágrafo único. Aplica-se o disposto",
			base: "DECRETO_456_2021",
			want: "DECRETO_456_2021_PARÁGRAFO_ÚNICO",
		},
		{
			name: "no marker returns base",
			text: "texto introdutório sem referência",
			base: "LC_715_2018",
			want: "LC_715_2018",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArticleID(tt.text, tt.base); got != tt.want {
				t.Errorf("ExtractArticleID() = %q, want %q", got, tt.want)
			}
		})
	}
}
