package interfaces

import (
	"context"

	"github.com/ternarybob/onboarder/internal/models"
)

// RepositoryFetcher lists and downloads documentation from a source repository
type RepositoryFetcher interface {
	Fetch(ctx context.Context, repoURL string) (*models.FetchResult, error)
}
