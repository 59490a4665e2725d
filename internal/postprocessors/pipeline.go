package postprocessors

import (
	"sort"
	"sync"

	"github.com/eulens/eulens/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.PostProcessorPipeline = (*Pipeline)(nil)

// Pipeline implements PostProcessorPipeline.
// It chains post-processors by Order, starting with the sentence chunker.
type Pipeline struct {
	mu         sync.RWMutex
	processors []driven.PostProcessor
}

// NewPipeline creates an empty post-processor pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Add adds a processor, keeping the pipeline ordered.
// Processors with equal Order run in insertion order.
func (p *Pipeline) Add(processor driven.PostProcessor) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processors = append(p.processors, processor)
	sort.SliceStable(p.processors, func(i, j int) bool {
		return p.processors[i].Order() < p.processors[j].Order()
	})
}

// Process runs every processor over the document text.
// The first processor receives one chunk spanning the whole text.
func (p *Pipeline) Process(content string) []driven.Chunk {
	p.mu.RLock()
	processors := append([]driven.PostProcessor(nil), p.processors...)
	p.mu.RUnlock()

	chunks := []driven.Chunk{{
		Content:   content,
		EndOffset: len(content),
	}}
	for _, proc := range processors {
		chunks = proc.Process(chunks)
	}
	return chunks
}

// List returns processor names in order.
func (p *Pipeline) List() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}

// DefaultPipeline creates a pipeline that only splits into sentence chunks.
func DefaultPipeline(maxChunkSize int) *Pipeline {
	p := NewPipeline()
	p.Add(NewSentenceChunker(maxChunkSize))
	return p
}
