package onboarding

import (
	"regexp"
	"strings"
)

// BlockKind is the presentation of one summary paragraph
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockNote      BlockKind = "note"
	BlockReference BlockKind = "reference"
)

const referencePhrase = "For full details, refer to:"

// Block is one formatted paragraph of a summary. Reference blocks with a
// recognised markdown link carry LinkText and LinkURL instead of Text.
type Block struct {
	Kind     BlockKind
	Text     string
	LinkText string
	LinkURL  string
}

var markdownLinkRegex = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// FormatSummary splits a summary on blank lines and classifies each paragraph.
// A "Note:" paragraph becomes a note; a paragraph containing the reference phrase
// becomes a reference whose first markdown link is pointed at the file's page.
func FormatSummary(summary string, links LinkBuilder) []Block {
	var blocks []Block
	for _, para := range strings.Split(summary, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		switch {
		case strings.HasPrefix(para, "Note:"):
			blocks = append(blocks, Block{Kind: BlockNote, Text: para})
		case strings.Contains(para, referencePhrase):
			block := Block{Kind: BlockReference, Text: para}
			if m := markdownLinkRegex.FindStringSubmatch(para); m != nil {
				block.Text = ""
				block.LinkText = m[1]
				block.LinkURL = links.BlobURL(m[2])
			}
			blocks = append(blocks, block)
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: para})
		}
	}
	return blocks
}
