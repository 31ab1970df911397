package scribe

import (
	"time"
	"unicode"
)

const (
	// chunkThreshold is the text length in bytes below which a document
	// renders in one synchronous pass.
	chunkThreshold = 500

	// chunkBudget bounds how long one chunk may draw before the engine
	// yields back to the host.
	chunkBudget = 5 * time.Millisecond

	// budgetCheckEvery is how many words are drawn between clock reads,
	// keeping the cost of time checks off the per-glyph path.
	budgetCheckEvery = 4
)

// token is a maximal run of either whitespace or non-whitespace. The
// token stream concatenates back to the exact input text.
type token struct {
	text  string
	space bool
}

func tokenize(s string) []token {
	var tokens []token
	start := 0
	inSpace := false
	for i, r := range s {
		sp := unicode.IsSpace(r)
		if i == 0 {
			inSpace = sp
			continue
		}
		if sp != inSpace {
			tokens = append(tokens, token{text: s[start:i], space: inSpace})
			start = i
			inSpace = sp
		}
	}
	if start < len(s) {
		tokens = append(tokens, token{text: s[start:], space: inSpace})
	}
	return tokens
}

// chunker walks the token stream of one document. Chunk boundaries are
// decided by the draw loop; the chunker only guarantees the walk covers
// every token exactly once, in order, and that cuts land between
// tokens, never inside a word.
type chunker struct {
	tokens   []token
	pos      int
	total    int
	consumed int

	// single marks documents under the chunk threshold, which render
	// in one pass regardless of the time budget.
	single bool
}

func newChunker(text string) *chunker {
	return &chunker{
		tokens: tokenize(text),
		total:  len(text),
		single: len(text) < chunkThreshold,
	}
}

func (c *chunker) done() bool {
	return c.pos >= len(c.tokens)
}

func (c *chunker) take() token {
	tok := c.tokens[c.pos]
	c.pos++
	c.consumed += len(tok.text)
	return tok
}

// percent reports how much of the document has been consumed, in
// [0, 100]. It only ever grows, and reaches exactly 100 on the last
// token.
func (c *chunker) percent() float64 {
	if c.total == 0 {
		return 100
	}
	return 100 * float64(c.consumed) / float64(c.total)
}
