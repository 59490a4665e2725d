package runtime

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eulens/eulens/internal/core/domain"
	"github.com/eulens/eulens/internal/core/ports/driven/mocks"
)

// closingEmbedder records whether Close was called
type closingEmbedder struct {
	*mocks.MockEmbeddingService
	healthErr error
	closed    bool
}

func (c *closingEmbedder) HealthCheck(ctx context.Context) error { return c.healthErr }
func (c *closingEmbedder) Close() error {
	c.closed = true
	return nil
}

func newServices() *Services {
	return NewServices(domain.NewRuntimeConfig(domain.VectorIndexMemory, domain.RegistryBackendFile))
}

func TestNewServices_Empty(t *testing.T) {
	s := newServices()

	assert.Nil(t, s.EmbeddingService())
	assert.Nil(t, s.ChatModel())
	assert.Nil(t, s.VectorIndex())
	assert.False(t, s.Config().CanAnswer())
}

func TestServices_SetAll(t *testing.T) {
	s := newServices()

	s.SetEmbeddingService(mocks.NewMockEmbeddingService())
	s.SetVectorIndex(mocks.NewMockVectorIndex())
	assert.True(t, s.Config().CanIngest())
	assert.False(t, s.Config().CanAnswer())

	s.SetChatModel(mocks.NewMockChatModel("ok"))
	assert.True(t, s.Config().CanAnswer())
}

func TestServices_ReplaceClosesOld(t *testing.T) {
	s := newServices()
	old := &closingEmbedder{MockEmbeddingService: mocks.NewMockEmbeddingService()}

	s.SetEmbeddingService(old)
	s.SetEmbeddingService(mocks.NewMockEmbeddingService())

	assert.True(t, old.closed)
}

func TestServices_ValidateAndSetEmbedding(t *testing.T) {
	s := newServices()
	bad := &closingEmbedder{
		MockEmbeddingService: mocks.NewMockEmbeddingService(),
		healthErr:            errors.New("unreachable"),
	}

	err := s.ValidateAndSetEmbedding(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, bad.closed)
	assert.Nil(t, s.EmbeddingService())

	good := &closingEmbedder{MockEmbeddingService: mocks.NewMockEmbeddingService()}
	require.NoError(t, s.ValidateAndSetEmbedding(context.Background(), good))
	assert.NotNil(t, s.EmbeddingService())
	assert.True(t, s.Config().EmbeddingAvailable())
}

func TestServices_ValidateAndSetVectorIndex(t *testing.T) {
	s := newServices()
	index := mocks.NewMockVectorIndex()
	index.HealthFn = func() error { return domain.ErrServiceUnavailable }

	err := s.ValidateAndSetVectorIndex(context.Background(), index)
	assert.ErrorIs(t, err, domain.ErrServiceUnavailable)
	assert.False(t, s.Config().IndexAvailable())

	index.HealthFn = nil
	require.NoError(t, s.ValidateAndSetVectorIndex(context.Background(), index))
	assert.True(t, s.Config().IndexAvailable())
}

func TestServices_Close(t *testing.T) {
	s := newServices()
	emb := &closingEmbedder{MockEmbeddingService: mocks.NewMockEmbeddingService()}
	s.SetEmbeddingService(emb)
	s.SetChatModel(mocks.NewMockChatModel("ok"))
	s.SetVectorIndex(mocks.NewMockVectorIndex())

	require.NoError(t, s.Close())
	assert.True(t, emb.closed)
	assert.Nil(t, s.ChatModel())
	assert.False(t, s.Config().CanIngest())
}
