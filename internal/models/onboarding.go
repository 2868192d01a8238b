package models

import "time"

// DocumentMeta carries the identity fields printed on the onboarding pack cover
type DocumentMeta struct {
	Repository RepositoryRef `json:"repository"`
	Author     string        `json:"author"`
	Company    string        `json:"company"`
}

// OnboardingDocument is a rendered onboarding pack
type OnboardingDocument struct {
	HTML         string    `json:"html"`
	FileName     string    `json:"file_name"`
	SectionCount int       `json:"section_count"`
	ImageCount   int       `json:"image_count"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// HTMLFileName returns the download name for a repository's HTML pack
func HTMLFileName(repo string) string {
	return repo + "_onboarding.html"
}

// PDFFileName returns the download name for a repository's PDF pack
func PDFFileName(repo string) string {
	return repo + "_onboarding.pdf"
}

// PDFDocument is a rendered PDF pack
type PDFDocument struct {
	Data     []byte `json:"-"`
	FileName string `json:"file_name"`
	Pages    int    `json:"pages"`
	Mode     string `json:"mode"`
}
