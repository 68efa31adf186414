// Package widgets is the script-authoring surface: each call normalizes its
// options, computes the widget's identity, reconciles its value with the
// session store, emits the element spec, and returns the semantic value back
// into the script's control flow.
package widgets

import (
	"strconv"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/options"
	"github.com/goliatone/go-liveform/pkg/runtime"
	"github.com/goliatone/go-liveform/pkg/serde"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// Selection is the semantic result of a button-group invocation.
type Selection struct {
	set  options.Set
	wire []int
	mode element.ClickMode
}

// Value returns the selected option for single-select widgets.
func (s *Selection) Value() (any, bool) {
	if s == nil || len(s.wire) == 0 {
		return nil, false
	}
	return s.set.Raw[s.wire[0]], true
}

// Values returns the selected options in declaration order.
func (s *Selection) Values() []any {
	if s == nil {
		return nil
	}
	out := make([]any, 0, len(s.wire))
	for _, pos := range s.wire {
		out = append(out, s.set.Raw[pos])
	}
	return out
}

// Indices returns the selected canonical positions.
func (s *Selection) Indices() []int {
	if s == nil {
		return nil
	}
	out := make([]int, len(s.wire))
	copy(out, s.wire)
	return out
}

// ButtonGroup builds a plain button-group widget and returns the current
// selection. All validation happens before any state mutation.
func ButtonGroup(rc *runtime.Context, label string, src options.Source, opts ...Option) (*Selection, error) {
	cfg := newConfig(element.StyleNormal, opts)
	return buildButtonGroup(rc, "button_group", label, src, cfg)
}

// Pills builds a pill-styled button group.
func Pills(rc *runtime.Context, label string, src options.Source, opts ...Option) (*Selection, error) {
	cfg := newConfig(element.StylePills, opts)
	return buildButtonGroup(rc, "pills", label, src, cfg)
}

func buildButtonGroup(rc *runtime.Context, kind, label string, src options.Source, cfg config) (*Selection, error) {
	set, err := options.Normalize(src, cfg.format)
	if err != nil {
		return nil, err
	}

	icons, err := sanitizedIcons(cfg, set.Len())
	if err != nil {
		return nil, err
	}

	defWire, err := encodeDefaults(set, cfg)
	if err != nil {
		return nil, err
	}

	id := widgetid.Compute(widgetid.Params{
		Kind:        kind,
		Label:       label,
		UserKey:     cfg.key,
		FormID:      rc.FormID(),
		Path:        rc.Path(),
		Fingerprint: fingerprint(set, cfg),
	})

	current, err := rc.Register(id, defWire, cfg.onChange)
	if err != nil {
		return nil, err
	}

	// Wire values echoed by the client are opaque until validated against
	// the freshly computed option set.
	multi := serde.MultiSelectSerde{Set: set}
	if _, err := multi.Deserialize(current, string(id)); err != nil {
		return nil, err
	}

	spec := element.ButtonGroup{
		ID:                     string(id),
		Label:                  label,
		LabelVisibility:        cfg.labelVisibility,
		Help:                   cfg.help,
		Options:                buildOptions(set, icons),
		Default:                defWire,
		Value:                  current,
		ClickMode:              cfg.mode,
		Disabled:               cfg.disabled,
		FormID:                 rc.FormID(),
		Style:                  cfg.style,
		SelectionVisualization: cfg.visualization,
	}
	if err := rc.Emit(spec); err != nil {
		return nil, err
	}

	return &Selection{set: set, wire: spec.Value, mode: cfg.mode}, nil
}

func sanitizedIcons(cfg config, optionCount int) ([]string, error) {
	if !cfg.iconsSet {
		return nil, nil
	}
	if len(cfg.icons) != optionCount {
		return nil, apierror.Configf("the number of icons must match the number of options")
	}
	out := make([]string, len(cfg.icons))
	for i, icon := range cfg.icons {
		out[i] = element.SanitizeIcon(icon)
	}
	return out, nil
}

func encodeDefaults(set options.Set, cfg config) ([]int, error) {
	if len(cfg.defaults) == 0 {
		return nil, nil
	}
	if cfg.mode == element.SingleSelect && len(cfg.defaults) > 1 {
		return nil, apierror.Configf(
			"the default argument to a button group must be a single value when the selection mode is single-select")
	}

	wire, err := serde.MultiSelectSerde{Set: set}.Serialize(cfg.defaults, cfg.format)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(wire))
	for _, pos := range wire {
		if _, dup := seen[pos]; dup {
			return nil, apierror.Configf("the default argument contains duplicate values")
		}
		seen[pos] = struct{}{}
	}
	return wire, nil
}

func buildOptions(set options.Set, icons []string) []element.Option {
	out := make([]element.Option, set.Len())
	for i, content := range set.Contents {
		out[i] = element.Option{Content: content}
		if icons != nil {
			out[i].ContentIcon = icons[i]
		}
	}
	return out
}

func fingerprint(set options.Set, cfg config) []string {
	fp := make([]string, 0, set.Len()+len(cfg.icons)+2)
	fp = append(fp, set.Contents...)
	fp = append(fp, cfg.icons...)
	fp = append(fp, cfg.mode.String(), strconv.Itoa(int(cfg.style)))
	return fp
}
