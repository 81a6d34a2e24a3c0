package pages

import (
	"fmt"

	"github.com/yuin/goldmark"

	"ovos-htmx-gui-gateway/internal/sanitize"
)

// Formatter converts a raw bus property value into display text for a
// bound element. It is passed to PageManager.UpdateData by the caller;
// InteractionParameter itself carries no formatter.
type Formatter func(value any) string

// IdentityFormatter renders value's string form unchanged (after
// sanitizing), used for plain text fields like a skill's status line.
func IdentityFormatter(value any) string {
	return sanitize.Text(fmt.Sprintf("%v", value))
}

// WeatherTemperatureFormatter renders a numeric temperature with a degree
// suffix, used by the home screen's weather widget.
func WeatherTemperatureFormatter(value any) string {
	switch v := value.(type) {
	case float64:
		return fmt.Sprintf("%.0f°", v)
	case int:
		return fmt.Sprintf("%d°", v)
	default:
		return sanitize.Text(fmt.Sprintf("%v", value))
	}
}

// MarkdownFormatter renders value as markdown-derived HTML, used for
// skill-authored long-form messages. The output still passes through the
// sanitizer since goldmark's output is trusted to be well-formed HTML, not
// trusted to be safe HTML.
func MarkdownFormatter(value any) string {
	text, _ := value.(string)
	var buf fmtBuffer
	if err := goldmark.Convert([]byte(text), &buf); err != nil {
		return sanitize.Text(text)
	}
	return sanitize.HTML(buf.String())
}

// fmtBuffer is a minimal io.Writer adapter so we don't need bytes.Buffer's
// full surface just to capture goldmark's output.
type fmtBuffer struct {
	data []byte
}

func (b *fmtBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	return len(p), nil
}

func (b *fmtBuffer) String() string {
	return string(b.data)
}
