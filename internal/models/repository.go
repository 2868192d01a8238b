package models

import "fmt"

// RepositoryRef identifies a GitHub repository and the branch its content was read from.
// It is resolved once per fetch and not changed afterwards.
type RepositoryRef struct {
	Owner  string `json:"owner"`
	Name   string `json:"name"`
	Branch string `json:"branch"`
}

// FullName returns "owner/name"
func (r RepositoryRef) FullName() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.Name)
}

// FetchResult is the outcome of crawling a repository for documentation.
// MarkdownFiles maps repo-relative path to raw markdown content; ImageFiles
// keeps the tree order of discovered image paths.
type FetchResult struct {
	Repository    RepositoryRef     `json:"repository"`
	MarkdownFiles map[string]string `json:"markdown_files"`
	ImageFiles    []string          `json:"image_files"`
}
