// Package html renders pages as static HTML documents using pongo2
// templates. Theme tokens resolved through go-theme become CSS custom
// properties on the document root.
package html

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/render"
	"github.com/goliatone/go-liveform/pkg/runtime"
)

//go:embed templates
var templateFS embed.FS

const rendererName = "html"

// Renderer implements render.Renderer over the embedded templates.
type Renderer struct {
	mu       sync.Mutex
	set      *pongo2.TemplateSet
	pageTmpl *pongo2.Template
}

// New constructs the HTML renderer.
func New() (*Renderer, error) {
	templates, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("html: template fs: %w", err)
	}
	set := pongo2.NewSet(rendererName, pongo2.NewFSLoader(templates))
	page, err := set.FromFile("page.html")
	if err != nil {
		return nil, fmt.Errorf("html: parse page template: %w", err)
	}
	return &Renderer{set: set, pageTmpl: page}, nil
}

// Name implements render.Renderer.
func (r *Renderer) Name() string { return rendererName }

// ContentType implements render.Renderer.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render implements render.Renderer.
func (r *Renderer) Render(ctx context.Context, page *runtime.Page, options render.Options) ([]byte, error) {
	if page == nil {
		return nil, fmt.Errorf("html: page is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := pongo2.Context{
		"title":    page.Title,
		"elements": convertElements(page.Elements),
	}
	if options.Theme != nil {
		data["theme_class"] = themeClass(options.Theme.Theme, options.Theme.Variant)
		data["css_vars"] = cssVars(options.Theme.Tokens, options.Theme.CSSVars)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out, err := r.pageTmpl.ExecuteBytes(data)
	if err != nil {
		return nil, fmt.Errorf("html: execute page template: %w", err)
	}
	return out, nil
}

func convertElements(elements []element.Element) []pongo2.Context {
	out := make([]pongo2.Context, 0, len(elements))
	for _, el := range elements {
		bg, ok := el.(element.ButtonGroup)
		if !ok {
			continue
		}
		out = append(out, convertButtonGroup(bg))
	}
	return out
}

func convertButtonGroup(bg element.ButtonGroup) pongo2.Context {
	selected := make(map[int]bool, len(bg.Value))
	for _, pos := range bg.Value {
		selected[pos] = true
	}

	opts := make([]pongo2.Context, len(bg.Options))
	for i, opt := range bg.Options {
		icon := opt.ContentIcon
		if selected[i] && opt.SelectedContentIcon != "" {
			icon = opt.SelectedContentIcon
		}
		opts[i] = pongo2.Context{
			"index":    i,
			"content":  opt.Content,
			"icon":     icon,
			"selected": selected[i],
		}
	}

	return pongo2.Context{
		"id":          bg.ID,
		"label":       bg.Label,
		"show_label":  bg.Label != "" && bg.LabelVisibility == element.LabelVisible,
		"help":        bg.Help,
		"style_class": styleClass(bg.Style),
		"click_mode":  bg.ClickMode.String(),
		"disabled":    bg.Disabled,
		"form_id":     bg.FormID,
		"options":     opts,
	}
}

func styleClass(style element.Style) string {
	switch style {
	case element.StylePills:
		return "style-pills"
	case element.StyleSegmented:
		return "style-segmented"
	default:
		return "style-normal"
	}
}

func themeClass(name, variant string) string {
	parts := make([]string, 0, 2)
	if name != "" {
		parts = append(parts, "theme-"+name)
	}
	if variant != "" {
		parts = append(parts, "variant-"+variant)
	}
	return strings.Join(parts, " ")
}

// cssVars merges theme tokens (prefixed) with explicit CSS variables into a
// deterministic declaration list.
func cssVars(tokens, explicit map[string]string) string {
	merged := make(map[string]string, len(tokens)+len(explicit))
	for key, value := range tokens {
		merged["--lf-"+key] = value
	}
	for key, value := range explicit {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		merged[name] = value
	}
	if len(merged) == 0 {
		return ""
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "%s: %s; ", name, merged[name])
	}
	return strings.TrimSpace(b.String())
}
