package widgets

import (
	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/options"
)

// Option customises a widget invocation.
type Option func(*config)

type config struct {
	key             string
	defaults        []any
	mode            element.ClickMode
	icons           []string
	iconsSet        bool
	disabled        bool
	onChange        func()
	format          options.FormatFunc
	style           element.Style
	labelVisibility element.LabelVisibility
	visualization   element.SelectionVisualization
	help            string
}

func newConfig(style element.Style, opts []Option) config {
	cfg := config{
		mode:            element.SingleSelect,
		style:           style,
		labelVisibility: element.LabelVisible,
		visualization:   element.VisualizeOnlySelected,
		format:          options.DefaultFormat,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithKey assigns an explicit widget key. Equal keys alias deliberately;
// two simultaneously live widgets sharing a key is a configuration error.
func WithKey(key string) Option {
	return func(c *config) { c.key = key }
}

// WithDefault declares the script default. Pass one value for single select
// or any number for multiselect.
func WithDefault(values ...any) Option {
	return func(c *config) { c.defaults = values }
}

// WithSelectionMode switches between single select and multiselect.
func WithSelectionMode(mode element.ClickMode) Option {
	return func(c *config) { c.mode = mode }
}

// WithIcons supplies one icon per option. The list length must equal the
// option count exactly.
func WithIcons(icons ...string) Option {
	return func(c *config) {
		c.icons = icons
		c.iconsSet = true
	}
}

// WithDisabled renders the widget inert.
func WithDisabled(disabled bool) Option {
	return func(c *config) { c.disabled = disabled }
}

// WithOnChange registers a callback fired on the rerun that first observes a
// changed client value for this widget.
func WithOnChange(callback func()) Option {
	return func(c *config) { c.onChange = callback }
}

// WithFormat overrides the option display conversion.
func WithFormat(format options.FormatFunc) Option {
	return func(c *config) {
		if format != nil {
			c.format = format
		}
	}
}

// WithStyle overrides the visual variant.
func WithStyle(style element.Style) Option {
	return func(c *config) { c.style = style }
}

// WithLabelVisibility controls label rendering.
func WithLabelVisibility(v element.LabelVisibility) Option {
	return func(c *config) { c.labelVisibility = v }
}

// WithHelp attaches a help tooltip.
func WithHelp(help string) Option {
	return func(c *config) { c.help = help }
}
