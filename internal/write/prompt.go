// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package write

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// draftPromptTmpl asks the model for a complete article draft grounded in
// the curated sources. Per prd005-writing R2.1.
var draftPromptTmpl = template.Must(template.New("draft").Parse(`You are a technical writer drafting an article.

Topic: {{.Topic}}

Research summary:
{{.Summary}}

Curated sources (most relevant first):
{{range $i, $r := .Selected}}{{$i}}. {{$r.Title}} ({{$r.Link}})
   {{$r.Snippet}}
   Relevance: {{$r.RelevanceScore}}/10 ({{$r.Reason}})
{{end}}
Write a complete article on the topic, grounded in the sources above.

Respond with a JSON object containing:
- "title": the article headline
- "description": one or two sentences summarizing the article
- "content": the full article body in Markdown, with section headings and multiple paragraphs
- "tags": an array of lowercase topic tags
- "key_takeaways": an array of short strings, the article's main points
- "sources": an array of the URLs you drew on

Do not include any text outside the JSON object.
`))

// renderDraftPrompt executes the drafting prompt template.
func renderDraftPrompt(rec types.CuratedRecord) (string, error) {
	var buf bytes.Buffer
	if err := draftPromptTmpl.Execute(&buf, rec); err != nil {
		return "", err
	}
	return buf.String(), nil
}
