// Package ingestion builds strategic-context fragments from external text
// and HTML sources.
package ingestion

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/priority-engine/internal/types"
)

// minFragmentLength drops boilerplate fragments (nav labels, bare dates)
// that carry no strategic signal.
const minFragmentLength = 12

// Error represents an error building a strategy context.
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("context ingestion error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("context ingestion error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ContextFromText builds a strategy context from plain text, one fragment
// per blank-line-separated paragraph.
func ContextFromText(text string) (*types.StrategyContext, error) {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")

	var fragments []types.StrategyFragment
	for _, paragraph := range strings.Split(normalized, "\n\n") {
		paragraph = strings.TrimSpace(paragraph)
		if len(paragraph) < minFragmentLength {
			continue
		}
		fragments = append(fragments, types.StrategyFragment{
			ID:   fmt.Sprintf("frag_%03d", len(fragments)+1),
			Text: collapseWhitespace(paragraph),
		})
	}

	if len(fragments) == 0 {
		return nil, &Error{Message: "no usable fragments found in text"}
	}
	return &types.StrategyContext{Fragments: fragments}, nil
}

// ContextFromHTML builds a strategy context from an HTML document (e.g. an
// exported goals page), extracting headings, paragraphs, and list items.
func ContextFromHTML(html string) (*types.StrategyContext, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{Message: "failed to parse HTML", Cause: err}
	}

	// Scripts and styles leak into .Text() otherwise.
	doc.Find("script, style, nav, footer").Remove()

	var fragments []types.StrategyFragment
	seen := make(map[string]bool)
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, selection *goquery.Selection) {
		text := collapseWhitespace(selection.Text())
		if len(text) < minFragmentLength || seen[text] {
			return
		}
		seen[text] = true
		fragments = append(fragments, types.StrategyFragment{
			ID:   fmt.Sprintf("frag_%03d", len(fragments)+1),
			Text: text,
		})
	})

	if len(fragments) == 0 {
		return nil, &Error{Message: "no usable fragments found in HTML document"}
	}
	return &types.StrategyContext{Fragments: fragments}, nil
}

// collapseWhitespace squashes runs of whitespace into single spaces.
func collapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
