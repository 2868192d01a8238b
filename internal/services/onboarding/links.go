package onboarding

import (
	"net/url"
	"strings"

	"github.com/ternarybob/onboarder/internal/models"
)

// LinkBuilder produces browsable and raw URLs for files in one repository
type LinkBuilder struct {
	WebBaseURL string
	RawBaseURL string
	Repository models.RepositoryRef
}

// RepoURL returns the repository home page
func (l LinkBuilder) RepoURL() string {
	return joinURL(l.WebBaseURL, l.Repository.Owner, l.Repository.Name)
}

// BlobURL returns the host-rendered page for a file on the resolved branch
func (l LinkBuilder) BlobURL(filePath string) string {
	return joinURL(l.WebBaseURL, l.Repository.Owner, l.Repository.Name, "blob", l.Repository.Branch) + "/" + escapePath(filePath)
}

// RawURL returns the raw content URL for a file on the resolved branch
func (l LinkBuilder) RawURL(filePath string) string {
	return joinURL(l.RawBaseURL, l.Repository.Owner, l.Repository.Name, l.Repository.Branch) + "/" + escapePath(filePath)
}

func joinURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSuffix(base, "/"))
	for _, s := range segments {
		b.WriteString("/")
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
