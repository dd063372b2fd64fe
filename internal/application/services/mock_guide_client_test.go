package services

import (
	"context"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
	"github.com/githubixx/xmltv-epg-go/internal/ports"
)

// mockGuideClient is a lightweight test double for ports.GuideClient.
// Add function fields as tests grow; unconfigured methods return zero values.
//
// Keeping this in one place avoids copy/paste and makes future test expansion easier.
type mockGuideClient struct {
	FetchGuideFunc func(ctx context.Context) (*domain.Guide, error)
}

var _ ports.GuideClient = (*mockGuideClient)(nil)

func (m *mockGuideClient) FetchGuide(ctx context.Context) (*domain.Guide, error) {
	if m.FetchGuideFunc != nil {
		return m.FetchGuideFunc(ctx)
	}
	return domain.NewGuide(domain.GuideInfo{}, nil, nil), nil
}
