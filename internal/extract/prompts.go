package extract

import (
	_ "embed"
	"text/template"
)

//go:embed prompts/summarize.md
var summarizePromptRaw string

// summarizeTemplate is the parsed prompt template for email summarization.
// Parsed once at package init; reused on every Extract call.
var summarizeTemplate = template.Must(template.New("summarize").Parse(summarizePromptRaw))

// promptData are the message fields substituted into the template.
type promptData struct {
	Subject string
	From    string
	Body    string
}
