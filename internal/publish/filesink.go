// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// FileSink writes articles as markdown files with YAML frontmatter.
type FileSink struct {
	Dir string
}

func NewFileSink(dir string) *FileSink {
	return &FileSink{Dir: dir}
}

// Publish writes <dir>/<date>-<slug>.md and returns the written path.
func (s *FileSink) Publish(_ context.Context, doc Document, slug, date string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	body, err := render(doc)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, fmt.Sprintf("%s-%s.md", date, slug))
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("writing article: %w", err)
	}
	return path, nil
}

func render(doc Document) (string, error) {
	meta, err := yaml.Marshal(doc.Frontmatter)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(meta)
	b.WriteString("---\n\n")
	b.WriteString(doc.Content)
	if !strings.HasSuffix(doc.Content, "\n") {
		b.WriteString("\n")
	}
	return b.String(), nil
}
