// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// summaryPromptTmpl asks the model to synthesize search evidence into a
// research summary. Per prd003-research R3.1.
var summaryPromptTmpl = template.Must(template.New("summary").Parse(`You are a research assistant preparing background material for an article.

Topic: {{.Topic}}

Search results:
{{range $i, $r := .Results}}{{$i}}. {{$r.Title}}
   {{$r.Snippet}}
   {{$r.Link}}
{{end}}
Synthesize the evidence above into a research summary for a writer who has not seen the sources. Identify the angles worth covering.

Respond with a JSON object containing:
- "summary": a paragraph summarizing what the sources establish about the topic
- "key_points": an array of short strings, one per angle worth covering

Do not include any text outside the JSON object.

Example response:
{"summary": "The sources agree that ...", "key_points": ["adoption is accelerating", "tooling remains immature"]}
`))

// renderSummaryPrompt executes the summary prompt template.
func renderSummaryPrompt(topic string, results []types.SearchResult) (string, error) {
	var buf bytes.Buffer
	err := summaryPromptTmpl.Execute(&buf, struct {
		Topic   string
		Results []types.SearchResult
	}{Topic: topic, Results: results})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
