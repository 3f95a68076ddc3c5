// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package curate

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// scoringPromptTmpl asks the model to judge each result's relevance on a
// 0-10 scale. Per prd004-curation R2.1.
var scoringPromptTmpl = template.Must(template.New("scoring").Parse(`You are curating source material for an article.

Topic: {{.Topic}}

Research summary:
{{.Summary}}

Candidate sources:
{{range $i, $r := .Results}}{{$i}}. {{$r.Title}}
   {{$r.Snippet}}
   {{$r.Link}}
{{end}}
Judge how relevant each candidate is to an article on the topic.

Respond with a JSON object containing a "scores" array with one element per candidate:
- "index": the candidate's number above
- "relevance_score": an integer from 0 (irrelevant) to 10 (essential)
- "reason": one sentence justifying the score

Do not include any text outside the JSON object.

Example response:
{"scores": [{"index": 0, "relevance_score": 9, "reason": "Primary source on the topic."}]}
`))

// renderScoringPrompt executes the scoring prompt template.
func renderScoringPrompt(rec types.ResearchRecord) (string, error) {
	var buf bytes.Buffer
	if err := scoringPromptTmpl.Execute(&buf, rec); err != nil {
		return "", err
	}
	return buf.String(), nil
}
