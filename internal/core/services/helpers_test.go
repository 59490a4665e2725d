package services

import (
	"io"
	"log/slog"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven/mocks"
	"github.com/eulens/eulens/internal/runtime"
)

// discardLogger keeps test output quiet
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestServices wires whichever providers are non-nil
func createTestServices(emb *mocks.MockEmbeddingService, index *mocks.MockVectorIndex, chat *mocks.MockChatModel) *runtime.Services {
	services := runtime.NewServices(domain.NewRuntimeConfig(domain.VectorIndexMemory, domain.RegistryBackendFile))
	if emb != nil {
		services.SetEmbeddingService(emb)
	}
	if index != nil {
		services.SetVectorIndex(index)
	}
	if chat != nil {
		services.SetChatModel(chat)
	}
	return services
}
