package ports

import (
	"context"
	"sync"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// MockGuideClient is a flexible test double for GuideClient with function
// field customization. This is the canonical mock implementation used across
// all tests.
//
// Usage with function fields (maximum flexibility):
//
//	mock := &ports.MockGuideClient{
//	    FetchGuideFunc: func(ctx context.Context) (*domain.Guide, error) {
//	        return nil, domain.ErrConnection
//	    },
//	}
//
// Usage with builder pattern (convenience):
//
//	mock := ports.NewMockGuideClient().WithGuide(guide)
type MockGuideClient struct {
	// Function fields for custom behavior
	FetchGuideFunc func(ctx context.Context) (*domain.Guide, error)

	// Data fields for builder pattern
	mu         sync.RWMutex
	guide      *domain.Guide
	fetchCount int
}

var _ GuideClient = (*MockGuideClient)(nil)

// NewMockGuideClient creates a new mock with default behavior: an empty
// guide until one is configured.
func NewMockGuideClient() *MockGuideClient {
	return &MockGuideClient{
		guide: domain.NewGuide(domain.GuideInfo{}, nil, nil),
	}
}

// WithGuide sets the guide returned by FetchGuide.
func (m *MockGuideClient) WithGuide(g *domain.Guide) *MockGuideClient {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.guide = g
	return m
}

// FetchCount reports how many times FetchGuide has been called.
func (m *MockGuideClient) FetchCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.fetchCount
}

func (m *MockGuideClient) FetchGuide(ctx context.Context) (*domain.Guide, error) {
	m.mu.Lock()
	m.fetchCount++
	m.mu.Unlock()

	if m.FetchGuideFunc != nil {
		return m.FetchGuideFunc(ctx)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.guide, nil
}
