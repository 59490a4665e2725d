package domain

import "time"

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Fallbacks used when a match carries no document metadata
const (
	UnknownDocumentName = "Unknown Document"
	UnknownSourceURL    = "#"
)

// DefaultRelevanceThreshold is the minimum score for a match to be cited
const DefaultRelevanceThreshold = 0.7

// DefaultTopK is the number of passages retrieved per question
const DefaultTopK = 3

// Source is a cited document shown alongside an answer
type Source struct {
	Name      string  `json:"name" example:"GDPR"`
	URL       string  `json:"url" example:"http://data.europa.eu/eli/reg/2016/679"`
	Relevance float64 `json:"relevance" example:"0.85"`
}

// SourceFromMatch derives a source from a vector match,
// substituting placeholders for missing metadata.
func SourceFromMatch(m VectorMatch) Source {
	name := m.Metadata.DocumentName
	if name == "" {
		name = UnknownDocumentName
	}
	url := m.Metadata.SourceURL
	if url == "" {
		url = UnknownSourceURL
	}
	return Source{
		Name:      name,
		URL:       url,
		Relevance: m.Score,
	}
}

// Answer is the result of answering one question
type Answer struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`

	// Context is the retrieved text passed to the model
	Context string `json:"-"`
}

// ChatMessage is one turn of a conversation.
// Messages live in session memory only and are never sent back to the model.
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	Sources   []Source  `json:"sources,omitempty"`
}

// NewUserMessage creates a user turn
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant turn from an answer
func NewAssistantMessage(answer *Answer) ChatMessage {
	return ChatMessage{
		Role:      RoleAssistant,
		Content:   answer.Response,
		Timestamp: time.Now(),
		Sources:   answer.Sources,
	}
}
