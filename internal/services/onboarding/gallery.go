package onboarding

import (
	"path"
	"strings"

	"github.com/ternarybob/onboarder/internal/common"
)

// GalleryImage is one image tile in the gallery
type GalleryImage struct {
	Name string
	Path string
	URL  string
}

// GalleryBucket is a titled group of images
type GalleryBucket struct {
	Name   string
	Images []GalleryImage
}

// BuildGallery buckets images by case-insensitive path keywords. The first
// matching rule wins; unmatched images go to cfg.GalleryFallback. Empty buckets
// are dropped and images keep input order.
func BuildGallery(images []string, cfg common.DocumentConfig, links LinkBuilder) []GalleryBucket {
	if len(images) == 0 {
		return nil
	}

	names := make([]string, 0, len(cfg.GalleryBuckets)+1)
	for _, rule := range cfg.GalleryBuckets {
		names = append(names, rule.Name)
	}
	names = append(names, cfg.GalleryFallback)

	grouped := make(map[string][]GalleryImage, len(names))
	for _, img := range images {
		name := galleryBucketFor(img, cfg)
		grouped[name] = append(grouped[name], GalleryImage{
			Name: path.Base(img),
			Path: img,
			URL:  links.RawURL(img),
		})
	}

	var buckets []GalleryBucket
	for _, name := range names {
		if len(grouped[name]) == 0 {
			continue
		}
		buckets = append(buckets, GalleryBucket{Name: name, Images: grouped[name]})
		delete(grouped, name)
	}
	return buckets
}

func galleryBucketFor(img string, cfg common.DocumentConfig) string {
	lower := strings.ToLower(img)
	for _, rule := range cfg.GalleryBuckets {
		for _, keyword := range rule.Keywords {
			if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
				return rule.Name
			}
		}
	}
	return cfg.GalleryFallback
}
