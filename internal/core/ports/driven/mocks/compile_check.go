package mocks

import "github.com/eulens/eulens/internal/core/ports/driven"

var (
	_ driven.EmbeddingService = (*MockEmbeddingService)(nil)
	_ driven.ChatModel        = (*MockChatModel)(nil)
	_ driven.VectorIndex      = (*MockVectorIndex)(nil)
	_ driven.DocumentRegistry = (*MockDocumentRegistry)(nil)
	_ driven.DocumentFetcher  = (*MockDocumentFetcher)(nil)
	_ driven.DistributedLock  = (*MockDistributedLock)(nil)
)
