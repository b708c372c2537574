package lawModel

import "fmt"

type LawType string

const (
	LC      LawType = "LC"
	DECRETO LawType = "DECRETO"
	LEI     LawType = "LEI"
	DOC     LawType = "DOC"
)

// LawID is the canonical identifier of a norm, derived from the corpus
// filename. Zero-value fields render as "0000" / 0.
type LawID struct {
	Type   LawType
	Number string
	Year   int
}

func (l LawID) String() string {
	return fmt.Sprintf("%s_%s_%d", l.Type, l.Number, l.Year)
}

type ChunkMetadata struct {
	Fonte         string `json:"fonte"`
	AnoPublicacao int    `json:"ano_publicacao"`
	ChunkIndex    int    `json:"chunk_index"`
	IDUnico       string `json:"ID_UNICO"`
}

// Chunk is one embedded passage. Row is the record's row in the vector
// index, written explicitly so the map and the index can be cross-checked
// at load time.
type Chunk struct {
	ID       string        `json:"id"`
	Row      int           `json:"row"`
	Text     string        `json:"text"`
	Metadata ChunkMetadata `json:"metadata"`
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
