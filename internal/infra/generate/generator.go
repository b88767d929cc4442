// Package generate defines the HTML generation boundary used by
// authoring sessions. The shipped generator is a deterministic template
// fill; a real deployment swaps in a remote generation service.
package generate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Request carries one generation round. Adjustment rounds also carry
// the prior draft so the generator can refine instead of restart.
type Request struct {
	Prompt     string
	PriorDraft string
	Adjustment string
}

// Generator produces a complete HTML document for a request. The core
// treats the call as already-completed work; retries and streaming are
// the integrator's concern.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// TemplateGenerator fills a fixed document template from the prompt.
type TemplateGenerator struct {
	now func() time.Time
}

func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{now: time.Now}
}

func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Adjustment != "" && req.PriorDraft != "" {
		return g.adjust(req), nil
	}
	return g.fill(req.Prompt), nil
}

func (g *TemplateGenerator) fill(prompt string) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Generated Tool | Toolhub</title>
  <style>
    :root {
      --void: #050508;
      --aurora-cyan: #00f5ff;
      --text-primary: #ffffff;
      --text-tertiary: rgba(255, 255, 255, 0.55);
    }
    body {
      font-family: system-ui, -apple-system, sans-serif;
      background: var(--void);
      color: var(--text-primary);
      padding: 2rem;
      min-height: 100vh;
    }
    .container { max-width: 800px; margin: 0 auto; }
    h1 {
      background: linear-gradient(135deg, var(--aurora-cyan), #bd34fe);
      -webkit-background-clip: text;
      -webkit-text-fill-color: transparent;
    }
    .prompt-box {
      background: rgba(255, 255, 255, 0.05);
      border: 1px solid rgba(255, 255, 255, 0.1);
      border-radius: 12px;
      padding: 1rem;
      margin: 1rem 0;
      color: var(--text-tertiary);
    }
    .feature { display: flex; align-items: center; gap: 0.5rem; margin: 0.5rem 0; }
  </style>
</head>
<body>
  <div class="container">
    <h1>Generated Tool</h1>
    <p>A custom tool built from your description.</p>

    <div class="prompt-box">
      <strong>Original request:</strong><br>
`)
	b.WriteString("      " + escapeHTML(prompt) + "\n")
	b.WriteString(`    </div>

    <h2>Features</h2>
    <div class="feature">Single HTML file, nothing to install</div>
    <div class="feature">Works fully offline</div>
    <div class="feature">Responsive layout</div>

    <h2>Usage</h2>
    <ul>
      <li>Open the file directly in a browser</li>
      <li>Save it locally for offline use</li>
      <li>Share it with others</li>
      <li>Edit it further as needed</li>
    </ul>

`)
	b.WriteString(fmt.Sprintf(`    <p style="margin-top: 2rem; color: var(--text-tertiary);">
      Generated by Toolhub on %s
    </p>
  </div>
</body>
</html>`, g.now().Format("2006-01-02")))
	return b.String()
}

func (g *TemplateGenerator) adjust(req Request) string {
	note := fmt.Sprintf(`
    <div class="prompt-box">
      <strong>Adjustment:</strong><br>
      %s
    </div>
  </div>
</body>
</html>`, escapeHTML(req.Adjustment))
	draft := req.PriorDraft
	idx := strings.LastIndex(draft, "  </div>\n</body>\n</html>")
	if idx < 0 {
		return draft + note
	}
	return draft[:idx] + note
}

func escapeHTML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
	)
	return replacer.Replace(s)
}
