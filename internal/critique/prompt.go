// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package critique

import (
	"bytes"
	"text/template"

	"github.com/pdiddy/content-engine/pkg/types"
)

// critiquePromptTmpl asks the model to review the draft like an editor.
// Per prd006-critique R1.1.
var critiquePromptTmpl = template.Must(template.New("critique").Parse(`You are an editor reviewing a draft article before publication.

Topic: {{.Topic}}

Title: {{.Title}}

Draft:
{{.Content}}

Review the draft for clarity, accuracy, structure, and completeness.

Respond with a JSON object containing:
- "assessment": a short overall judgment of the draft
- "strengths": an array of short strings, what the draft does well
- "issues": an array of findings, each with:
  - "type": one word classifying the issue (e.g. "clarity", "accuracy", "structure")
  - "severity": "low", "medium", or "high"
  - "location": where in the draft the issue appears
  - "issue": what is wrong
  - "suggestion": a concrete fix

Do not include any text outside the JSON object.

Example response:
{"assessment": "Solid draft, needs sharper examples.", "strengths": ["clear structure"], "issues": [{"type": "clarity", "severity": "medium", "location": "second section", "issue": "The example is abstract.", "suggestion": "Use a concrete code sample."}]}
`))

// renderCritiquePrompt executes the critique prompt template.
func renderCritiquePrompt(draft types.DraftRecord) (string, error) {
	var buf bytes.Buffer
	if err := critiquePromptTmpl.Execute(&buf, draft); err != nil {
		return "", err
	}
	return buf.String(), nil
}
