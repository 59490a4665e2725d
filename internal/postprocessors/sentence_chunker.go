package postprocessors

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/eulens/eulens/internal/core/ports/driven"
)

// DefaultMaxChunkSize is the soft upper bound on chunk length in characters
const DefaultMaxChunkSize = 1000

// sentencePattern matches a run of text closed by one or more terminators
var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]+`)

// SentenceChunker groups sentences greedily into chunks of at most
// MaxChunkSize characters. A sentence longer than the limit becomes
// a chunk of its own and is never split.
type SentenceChunker struct {
	maxChunkSize int
}

// Verify interface compliance
var _ driven.PostProcessor = (*SentenceChunker)(nil)

// NewSentenceChunker creates a chunker. Non-positive sizes use the default.
func NewSentenceChunker(maxChunkSize int) *SentenceChunker {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultMaxChunkSize
	}
	return &SentenceChunker{maxChunkSize: maxChunkSize}
}

// Name returns the processor name.
func (c *SentenceChunker) Name() string {
	return "sentence-chunker"
}

// Order returns 0 - the chunker runs first.
func (c *SentenceChunker) Order() int {
	return 0
}

// Process splits every input chunk and renumbers the output.
func (c *SentenceChunker) Process(chunks []driven.Chunk) []driven.Chunk {
	var result []driven.Chunk
	for _, in := range chunks {
		for _, span := range c.split(in.Content) {
			result = append(result, driven.Chunk{
				Content:     in.Content[span.start:span.end],
				Position:    len(result),
				StartOffset: in.StartOffset + span.start,
				EndOffset:   in.StartOffset + span.end,
				Metadata:    in.Metadata,
			})
		}
	}
	return result
}

// Chunk splits text into sentence-aligned chunks.
func Chunk(text string, maxChunkSize int) []string {
	c := NewSentenceChunker(maxChunkSize)
	spans := c.split(text)
	out := make([]string, len(spans))
	for i, s := range spans {
		out[i] = text[s.start:s.end]
	}
	return out
}

type span struct {
	start, end int
}

// split returns byte spans of trimmed chunks within text
func (c *SentenceChunker) split(text string) []span {
	var (
		spans      []span
		bufStart   int
		bufEnd     int
		bufRunes   int
		haveBuffer bool
	)

	flush := func() {
		if s, ok := trimSpan(text, bufStart, bufEnd); ok {
			spans = append(spans, s)
		}
	}

	for _, sentence := range sentences(text) {
		n := utf8.RuneCountInString(text[sentence.start:sentence.end])
		if haveBuffer && bufRunes+n > c.maxChunkSize {
			flush()
			haveBuffer = false
		}
		if !haveBuffer {
			bufStart, bufRunes, haveBuffer = sentence.start, 0, true
		}
		bufEnd = sentence.end
		bufRunes += n
	}
	if haveBuffer {
		flush()
	}
	return spans
}

// sentences covers text with consecutive spans, each ending at a
// terminator. Text after the last terminator forms a final span.
func sentences(text string) []span {
	var out []span
	prev := 0
	for _, m := range sentencePattern.FindAllStringIndex(text, -1) {
		out = append(out, span{start: prev, end: m[1]})
		prev = m[1]
	}
	if prev < len(text) && strings.TrimSpace(text[prev:]) != "" {
		out = append(out, span{start: prev, end: len(text)})
	}
	return out
}

func trimSpan(text string, start, end int) (span, bool) {
	s := text[start:end]
	lead := len(s) - len(strings.TrimLeftFunc(s, unicode.IsSpace))
	trail := len(s) - len(strings.TrimRightFunc(s, unicode.IsSpace))
	if lead == len(s) {
		return span{}, false
	}
	return span{start: start + lead, end: end - trail}, true
}
