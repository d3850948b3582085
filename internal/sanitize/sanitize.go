// Package sanitize turns model output into plain text Telegram can display as is.
package sanitize

import (
	"bytes"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
)

var (
	blockTagRegex    = regexp.MustCompile(`<br\s*/?>|</?p>|</?div>|</?pre>|</?h[1-6]>|</?blockquote>`)
	listItemRegex    = regexp.MustCompile(`<li>`)
	extraNewlinesRgx = regexp.MustCompile(`\n\s*\n+`)
)

// Policy strips Markdown and HTML from text.
type Policy struct {
	policy   *bluemonday.Policy
	markdown goldmark.Markdown
}

// NewTelegramPolicy creates a Policy for plain text Telegram messages.
func NewTelegramPolicy() *Policy {
	return &Policy{
		policy:   bluemonday.StrictPolicy(),
		markdown: goldmark.New(),
	}
}

// SanitizeText renders Markdown, drops every tag and keeps paragraph breaks.
// List items become "• " bullets. Text that fails to render is returned trimmed.
func (p *Policy) SanitizeText(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := p.markdown.Convert([]byte(text), &buf); err != nil {
		return strings.TrimSpace(text)
	}

	rendered := blockTagRegex.ReplaceAllString(buf.String(), "\n")
	rendered = listItemRegex.ReplaceAllString(rendered, "• ")

	sanitized := p.policy.Sanitize(rendered)
	sanitized = extraNewlinesRgx.ReplaceAllString(sanitized, "\n\n")
	sanitized = html.UnescapeString(sanitized)

	return strings.TrimSpace(sanitized)
}
