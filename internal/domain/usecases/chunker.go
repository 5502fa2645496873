// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code, NO external dependencies - just pure business logic.
package usecases

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pondworks/waldenbot/internal/domain/entities"
)

// boundarySets are chunk cut candidates in priority order: paragraph break,
// line break, sentence end, word boundary. Hard character cut is the fallback.
var boundarySets = [][]string{
	{"\n\n"},
	{"\n"},
	{". ", "! ", "? "},
	{" "},
}

// Chunker splits documents into overlapping segments for embedding.
// Chunks are exact substrings - adjacent chunks share exactly the configured
// overlap, so concatenating chunks minus the overlap reproduces the document.
// Size and overlap are measured in runes, never splitting a multi-byte
// character, so every chunk is valid UTF-8.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker with the given size and overlap in characters.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = 1000
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}
	return &Chunker{size: size, overlap: overlap}
}

// Overlap returns the configured overlap in characters.
func (c *Chunker) Overlap() int { return c.overlap }

// ChunkAll chunks every document in order. Zero documents yields an empty
// sequence, not an error.
func (c *Chunker) ChunkAll(docs []entities.Document) []entities.Chunk {
	var chunks []entities.Chunk
	for _, doc := range docs {
		chunks = append(chunks, c.Chunk(doc)...)
	}
	return chunks
}

// Chunk splits one document into overlapping chunks.
func (c *Chunker) Chunk(doc entities.Document) []entities.Chunk {
	if doc.Content == "" {
		return nil
	}
	content := []rune(doc.Content)

	var chunks []entities.Chunk
	start := 0
	index := 0

	for start < len(content) {
		end := c.cutPoint(content, start)
		chunks = append(chunks, entities.Chunk{
			ID:         chunkID(doc.ID, index),
			DocumentID: doc.ID,
			Content:    string(content[start:end]),
			Index:      index,
		})
		index++
		if end >= len(content) {
			break
		}
		start = end - c.overlap
	}

	return chunks
}

// cutPoint returns the end rune offset of the chunk starting at start.
// Boundaries are tried in priority order within the size limit; a boundary is
// usable only if cutting there still advances past the overlap, otherwise the
// next chunk would not make progress. Falls back to a hard cut at the size
// limit.
func (c *Chunker) cutPoint(content []rune, start int) int {
	limit := start + c.size
	if limit >= len(content) {
		return len(content)
	}

	window := string(content[start:limit])
	minCut := c.overlap + 1

	for _, seps := range boundarySets {
		best := -1
		for _, sep := range seps {
			i := strings.LastIndex(window, sep)
			if i < 0 {
				continue
			}
			// Separators are ASCII; their rune length equals their byte length.
			cut := utf8.RuneCountInString(window[:i]) + len(sep)
			if cut >= minCut && cut > best {
				best = cut
			}
		}
		if best > 0 {
			return start + best
		}
	}

	return limit
}

// chunkID creates a deterministic ID for a chunk.
func chunkID(docID string, index int) string {
	hash := sha256.Sum256([]byte(docID + ":" + strconv.Itoa(index)))
	return hex.EncodeToString(hash[:8])
}
