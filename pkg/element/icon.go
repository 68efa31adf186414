package element

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	iconPolicyOnce sync.Once
	iconPolicy     *bluemonday.Policy
)

// SanitizeIcon normalises icon markup before it is embedded in an element
// spec. Material tokens of the form ":material/thumb_up:" pass through when
// well formed. Inline SVG markup is stripped down to a safe subset. Anything
// the policy reduces to nothing returns "".
func SanitizeIcon(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if isMaterialToken(trimmed) {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "<") {
		return strings.TrimSpace(svgPolicy().Sanitize(trimmed))
	}
	// Plain text icons (emoji shortcodes, single glyphs) are used verbatim.
	return trimmed
}

func isMaterialToken(s string) bool {
	if !strings.HasPrefix(s, ":material/") || !strings.HasSuffix(s, ":") {
		return false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(s, ":material/"), ":")
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}

func svgPolicy() *bluemonday.Policy {
	iconPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"svg", "g", "path", "circle", "rect", "line", "polyline",
			"polygon", "ellipse", "title", "desc", "defs", "use",
		)

		policy.AllowAttrs(
			"xmlns", "viewBox", "width", "height", "fill", "stroke",
			"stroke-width", "stroke-linecap", "stroke-linejoin",
			"aria-hidden", "role", "focusable", "class",
		).OnElements("svg")

		policy.AllowAttrs("href", "xlink:href").OnElements("use")

		for _, el := range []string{"path", "circle", "rect", "line", "polyline", "polygon", "ellipse"} {
			policy.AllowAttrs(
				"d", "cx", "cy", "r", "x", "y", "x1", "y1", "x2", "y2",
				"points", "rx", "ry", "fill", "stroke", "stroke-width",
				"stroke-linecap", "stroke-linejoin", "class",
			).OnElements(el)
		}

		policy.AllowAttrs("id").OnElements("defs", "g")

		iconPolicy = policy
	})
	return iconPolicy
}
