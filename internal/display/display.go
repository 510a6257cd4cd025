// Package display writes formatted output: replies, markdown rendering,
// citations, related questions, and errors.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
)

// Citation is one rendered source reference. Absent fields render as
// explicit placeholders rather than empty strings.
type Citation struct {
	Title string
	URL   string
	Date  string
}

// Placeholders for absent citation fields
const (
	NoTitle = "No Title"
	NoURL   = "No URL"
	NoDate  = "No Date"
)

var renderer *glamour.TermRenderer

// InitRenderer initializes the markdown renderer. Must be called before
// ShowContentRendered when the render flag is set.
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}
	renderer = r
	return nil
}

// ShowContent prints the reply text as-is.
func ShowContent(content string) {
	fmt.Println(content)
}

// ShowContentRendered prints the reply through the markdown renderer,
// falling back to plain output if rendering fails or was never initialized.
func ShowContentRendered(content string) {
	if renderer == nil {
		ShowContent(content)
		return
	}
	out, err := renderer.Render(content)
	if err != nil {
		ShowContent(content)
		return
	}
	fmt.Print(out)
}

// ShowError prints a user-facing error message to stderr.
func ShowError(msg string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", msg)
}

// ShowWarning prints a non-fatal warning to stderr.
func ShowWarning(msg string) {
	fmt.Fprintf(os.Stderr, "Warning: %s\n", msg)
}

// ShowCitations prints the citation list to stdout.
func ShowCitations(citations []Citation) {
	WriteCitations(os.Stdout, citations)
}

// WriteCitations prints citations in original order, one per line, with
// placeholders for absent fields. An empty list prints nothing.
func WriteCitations(w io.Writer, citations []Citation) {
	if len(citations) == 0 {
		return
	}

	fmt.Fprintln(w, "\nSources:")
	for i, c := range citations {
		title := c.Title
		if title == "" {
			title = NoTitle
		}
		url := c.URL
		if url == "" {
			url = NoURL
		}
		date := c.Date
		if date == "" {
			date = NoDate
		}
		fmt.Fprintf(w, "  [%d] %s - %s (%s)\n", i+1, title, url, date)
	}
}

// ShowRelatedQuestions prints follow-up questions returned by the API.
func ShowRelatedQuestions(questions []string) {
	WriteRelatedQuestions(os.Stdout, questions)
}

// WriteRelatedQuestions prints related questions, one per line. An empty
// list prints nothing.
func WriteRelatedQuestions(w io.Writer, questions []string) {
	if len(questions) == 0 {
		return
	}

	fmt.Fprintln(w, "\nRelated questions:")
	for _, q := range questions {
		fmt.Fprintf(w, "  - %s\n", q)
	}
}
