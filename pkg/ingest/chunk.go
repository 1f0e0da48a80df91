package ingest

import (
	"github.com/charmbracelet/log"
	"github.com/pkoukk/tiktoken-go"
)

// runesPerToken approximates token length when no encoding is available.
const runesPerToken = 4

/*
Chunker splits text into pieces that fit a model's context window.
*/
type Chunker struct {
	size     int
	encoding *tiktoken.Tiktoken
}

/*
NewChunker splits by tokens of the named tiktoken encoding. When the encoding
cannot be loaded (it is fetched on first use) or the name is empty, it falls
back to splitting by runes.
*/
func NewChunker(size int, encoding string) *Chunker {
	chunker := &Chunker{size: size}

	if chunker.size <= 0 {
		chunker.size = 2000
	}

	if encoding == "" {
		return chunker
	}

	tkm, err := tiktoken.GetEncoding(encoding)

	if err != nil {
		log.Warn("tiktoken encoding unavailable, chunking by runes", "encoding", encoding, "error", err)
		return chunker
	}

	chunker.encoding = tkm

	return chunker
}

/*
Split returns the chunks of text in order. Empty text yields no chunks.
*/
func (chunker *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	if chunker.encoding == nil {
		return splitRunes([]rune(text), chunker.size*runesPerToken)
	}

	tokens := chunker.encoding.Encode(text, nil, nil)
	var chunks []string

	for start := 0; start < len(tokens); start += chunker.size {
		end := min(start+chunker.size, len(tokens))
		chunks = append(chunks, chunker.encoding.Decode(tokens[start:end]))
	}

	return chunks
}

func splitRunes(runes []rune, size int) []string {
	var chunks []string

	for start := 0; start < len(runes); start += size {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
