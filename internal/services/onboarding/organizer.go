package onboarding

import (
	"path"
	"sort"
	"strings"

	"github.com/ternarybob/onboarder/internal/common"
)

// DefaultCategory is used when files are not grouped
const DefaultCategory = "Documentation"

// Category is an ordered group of markdown paths shown together in the TOC
type Category struct {
	Name       string
	Paths      []string
	ShowHeader bool
}

// Organize groups files for the table of contents.
//
// Grouping applies only when there are more than cfg.CategoryThreshold summaries and
// the markdown file map is available; the categories then come from the markdown map
// and a file without a summary renders with an empty body. Otherwise every summary
// goes under a single headerless "Documentation" category. Empty categories are
// dropped and paths are sorted within each category.
func Organize(summaries map[string]string, markdownFiles map[string]string, cfg common.DocumentConfig) []Category {
	if markdownFiles == nil || len(summaries) <= cfg.CategoryThreshold {
		if len(summaries) == 0 {
			return nil
		}
		return []Category{{Name: DefaultCategory, Paths: sortedKeys(summaries)}}
	}

	names := make([]string, 0, len(cfg.Categories)+1)
	buckets := make(map[string][]string, len(cfg.Categories)+1)
	for _, rule := range cfg.Categories {
		names = append(names, rule.Name)
	}
	names = append(names, cfg.FallbackCategory)

	for _, p := range sortedKeys(markdownFiles) {
		name := categorize(p, cfg)
		buckets[name] = append(buckets[name], p)
	}

	var categories []Category
	for _, name := range names {
		if len(buckets[name]) == 0 {
			continue
		}
		categories = append(categories, Category{Name: name, Paths: buckets[name], ShowHeader: true})
		delete(buckets, name)
	}
	return categories
}

// categorize returns the first matching rule's name, or the fallback category
func categorize(filePath string, cfg common.DocumentConfig) string {
	fileName := strings.ToLower(path.Base(filePath))
	dirName := strings.ToLower(fileDir(filePath))

	for _, rule := range cfg.Categories {
		for _, name := range rule.FileNames {
			if fileName == strings.ToLower(name) {
				return rule.Name
			}
		}
		for _, keyword := range rule.DirKeywords {
			if keyword != "" && strings.Contains(dirName, strings.ToLower(keyword)) {
				return rule.Name
			}
		}
	}
	return cfg.FallbackCategory
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func fileDir(filePath string) string {
	dir := path.Dir(filePath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
