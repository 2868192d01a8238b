package github

import (
	"context"
	"time"

	"github.com/ternarybob/onboarder/internal/models"
)

// Fetch crawls a repository for markdown documentation and image paths.
//
// The URL is validated before any network call. Repository metadata and tree
// failures abort with models.ErrUpstreamUnavailable; individual markdown files
// that cannot be downloaded are skipped and logged.
func (c *Connector) Fetch(ctx context.Context, repoURL string) (*models.FetchResult, error) {
	owner, repo, err := ParseRepoURL(repoURL)
	if err != nil {
		return nil, err
	}

	startTime := time.Now()

	branch, err := c.GetDefaultBranch(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	listing, err := c.ListDocumentation(ctx, owner, repo, branch)
	if err != nil {
		return nil, err
	}

	c.logger.Info().
		Str("repo", owner+"/"+repo).
		Str("branch", branch).
		Int("markdown_files", len(listing.MarkdownPaths)).
		Int("image_files", len(listing.ImagePaths)).
		Msg("Repository tree listed")

	result := &models.FetchResult{
		Repository:    models.RepositoryRef{Owner: owner, Name: repo, Branch: branch},
		MarkdownFiles: make(map[string]string, len(listing.MarkdownPaths)),
		ImageFiles:    listing.ImagePaths,
	}
	if result.ImageFiles == nil {
		result.ImageFiles = []string{}
	}

	skipped := 0
	for _, p := range listing.MarkdownPaths {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		content, err := c.DownloadRaw(ctx, owner, repo, branch, p)
		if err != nil {
			skipped++
			c.logger.Warn().
				Err(err).
				Str("path", p).
				Msg("Skipping markdown file that could not be downloaded")
			continue
		}
		result.MarkdownFiles[p] = content
	}

	c.logger.Info().
		Str("repo", owner+"/"+repo).
		Int("downloaded", len(result.MarkdownFiles)).
		Int("skipped", skipped).
		Dur("duration", time.Since(startTime)).
		Msg("Repository documentation fetched")

	return result, nil
}
