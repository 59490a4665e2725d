package driving

import (
	"context"

	"github.com/eulens/eulens/internal/core/domain"
)

// ChatService answers questions grounded in the ingested documents
type ChatService interface {
	// Answer retrieves relevant passages, asks the chat model, and
	// returns the reply with the sources that scored above threshold.
	Answer(ctx context.Context, question string) (*domain.Answer, error)
}
