package ports

import (
	"context"

	"github.com/githubixx/xmltv-epg-go/internal/domain"
)

// GuideClient defines the interface for fetching a guide from an XMLTV source
type GuideClient interface {
	// FetchGuide retrieves and parses the configured XMLTV document.
	// Returns a fully linked guide; item-level feed problems are handled
	// inside the parse and never surface here.
	FetchGuide(ctx context.Context) (*domain.Guide, error)
}
