package github

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/ternarybob/onboarder/internal/models"
)

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".svg":  true,
}

// TreeListing separates a repository tree into documentation and image paths,
// both in tree order
type TreeListing struct {
	MarkdownPaths []string
	ImagePaths    []string
}

// GetDefaultBranch returns the repository's default branch, or the configured
// fallback when the repository reports none
func (c *Connector) GetDefaultBranch(ctx context.Context, owner, repo string) (string, error) {
	repository, _, err := c.client.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return "", fmt.Errorf("%w: failed to get repository %s/%s: %v", models.ErrUpstreamUnavailable, owner, repo, err)
	}

	if branch := repository.GetDefaultBranch(); branch != "" {
		return branch, nil
	}
	return c.defaultBranch, nil
}

// ListDocumentation walks the recursive tree for branch and classifies blobs.
// Extension matching is case-insensitive; directories and submodules are skipped.
func (c *Connector) ListDocumentation(ctx context.Context, owner, repo, branch string) (*TreeListing, error) {
	tree, _, err := c.client.Git.GetTree(ctx, owner, repo, branch, true)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get tree for %s/%s@%s: %v", models.ErrUpstreamUnavailable, owner, repo, branch, err)
	}

	if tree.GetTruncated() {
		c.logger.Warn().
			Str("repo", owner+"/"+repo).
			Int("entries", len(tree.Entries)).
			Msg("Tree listing truncated by GitHub, some files will be missing")
	}

	listing := &TreeListing{}
	for _, entry := range tree.Entries {
		if entry.GetType() != "blob" {
			continue
		}

		p := entry.GetPath()
		switch ext := strings.ToLower(path.Ext(p)); {
		case ext == ".md":
			listing.MarkdownPaths = append(listing.MarkdownPaths, p)
		case imageExtensions[ext]:
			listing.ImagePaths = append(listing.ImagePaths, p)
		}
	}

	return listing, nil
}

// IsImagePath reports whether a path has a recognised image extension
func IsImagePath(p string) bool {
	return imageExtensions[strings.ToLower(path.Ext(p))]
}
