// Package element defines the declarative UI element descriptions the widget
// pipeline emits towards the client. Elements are pure data: building one
// performs no I/O and mutates no shared state.
package element

// ClickMode controls how many options a button group accepts.
type ClickMode int

const (
	// SingleSelect allows zero or one selected option.
	SingleSelect ClickMode = iota
	// MultiSelect allows any subset of the options.
	MultiSelect
)

func (m ClickMode) String() string {
	switch m {
	case SingleSelect:
		return "select"
	case MultiSelect:
		return "multiselect"
	default:
		return "unknown"
	}
}

// Style selects the visual variant of a button group.
type Style int

const (
	StyleNormal Style = iota
	StylePills
	StyleSegmented
)

// SelectionVisualization controls how the client highlights selections.
type SelectionVisualization int

const (
	// VisualizeOnlySelected highlights exactly the selected options.
	VisualizeOnlySelected SelectionVisualization = iota
	// VisualizeAllUpToSelected highlights every option up to and including
	// the selected one (star ratings).
	VisualizeAllUpToSelected
)

// LabelVisibility controls whether a widget label is rendered.
type LabelVisibility int

const (
	LabelVisible LabelVisibility = iota
	LabelHidden
	LabelCollapsed
)

// Element is any declarative UI description the runtime can emit.
type Element interface {
	// Kind names the element type for renderers and transports.
	Kind() string
	// ElementID is the widget identity the element's state lives under.
	// Non-widget elements return "".
	ElementID() string
}

// Option is one selectable entry of a button group. Content need not be
// unique within a widget; position is the canonical identity used for
// indexing on the wire.
type Option struct {
	Content             string `json:"content,omitempty"`
	ContentIcon         string `json:"contentIcon,omitempty"`
	SelectedContentIcon string `json:"selectedContentIcon,omitempty"`
}

// ButtonGroup is the serialized description of a button-group widget: the
// ordered options, the encoded default, and the presentation flags the
// client needs to render it. FormID is empty when the widget lives outside
// a form grouping.
type ButtonGroup struct {
	ID                     string                 `json:"id"`
	Label                  string                 `json:"label,omitempty"`
	LabelVisibility        LabelVisibility        `json:"labelVisibility"`
	Help                   string                 `json:"help,omitempty"`
	Options                []Option               `json:"options"`
	Default                []int                  `json:"default"`
	Value                  []int                  `json:"value"`
	ClickMode              ClickMode              `json:"clickMode"`
	Disabled               bool                   `json:"disabled"`
	FormID                 string                 `json:"formId,omitempty"`
	Style                  Style                  `json:"style"`
	SelectionVisualization SelectionVisualization `json:"selectionVisualization"`
}

// Kind implements Element.
func (ButtonGroup) Kind() string { return "button_group" }

// ElementID implements Element.
func (b ButtonGroup) ElementID() string { return b.ID }
