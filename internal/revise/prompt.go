// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package revise

import (
	"strings"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

var planPromptTmpl = template.Must(template.New("plan").Parse(`You are revising an article in response to an editorial review.

Article title: {{.Draft.Title}}

Article content:
{{.Draft.Content}}

Overall assessment: {{.Assessment}}

Issues raised by the reviewer:
{{range $i, $issue := .Issues}}{{$i}}. [{{$issue.Severity}}] {{$issue.Type}}{{if $issue.Location}} at {{$issue.Location}}{{end}}: {{$issue.Issue}}{{if $issue.Suggestion}} (suggestion: {{$issue.Suggestion}}){{end}}
{{end}}
Produce a concrete improvement plan addressing each issue. Respond with JSON only, no surrounding text:

{
  "changes": [
    {
      "type": "clarity",
      "description": "Rework the introduction to state the thesis up front",
      "before": "The topic has many aspects worth considering.",
      "after": "Caching trades memory for latency; this article shows where that trade pays off."
    }
  ]
}

The before and after fields are optional excerpts illustrating a change.`))

var rewritePromptTmpl = template.Must(template.New("rewrite").Parse(`You are rewriting an article according to an improvement plan.

Original title: {{.Draft.Title}}

Original content:
{{.Draft.Content}}

Improvement plan:
{{range $i, $c := .Changes}}{{$i}}. {{$c.Type}}: {{$c.Description}}
{{end}}
Apply every planned change and produce the complete revised article. Respond with JSON only, no surrounding text:

{
  "title": "Revised article title",
  "description": "One-sentence summary of the revised article",
  "content": "The full revised article in markdown",
  "tags": ["tag-one", "tag-two"]
}`))

func renderPlanPrompt(rec types.CritiqueRecord) (string, error) {
	var b strings.Builder
	if err := planPromptTmpl.Execute(&b, rec); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderRewritePrompt(draft types.DraftRecord, changes []types.ChangeLogEntry) (string, error) {
	var b strings.Builder
	err := rewritePromptTmpl.Execute(&b, struct {
		Draft   types.DraftRecord
		Changes []types.ChangeLogEntry
	}{draft, changes})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
