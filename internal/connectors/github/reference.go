package github

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ternarybob/onboarder/internal/models"
)

// ParseRepoURL extracts owner and repository name from a URL such as
// https://github.com/owner/repo, https://github.com/owner/repo.git or
// https://github.com/owner/repo/tree/main/docs. Anything after the second
// path segment is ignored.
func ParseRepoURL(repoURL string) (owner, repo string, err error) {
	trimmed := strings.TrimSpace(repoURL)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty url", models.ErrInvalidReference)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", models.ErrInvalidReference, err)
	}

	var parts []string
	for _, p := range strings.Split(strings.Trim(parsed.Path, "/"), "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", fmt.Errorf("%w: %q does not name an owner and repository", models.ErrInvalidReference, repoURL)
	}

	owner = parts[0]
	repo = strings.TrimSuffix(parts[1], ".git")
	if repo == "" {
		return "", "", fmt.Errorf("%w: %q has an empty repository name", models.ErrInvalidReference, repoURL)
	}

	return owner, repo, nil
}
