package widgets

import (
	"strconv"

	"github.com/goliatone/go-liveform/pkg/apierror"
	"github.com/goliatone/go-liveform/pkg/element"
	"github.com/goliatone/go-liveform/pkg/runtime"
	"github.com/goliatone/go-liveform/pkg/serde"
	"github.com/goliatone/go-liveform/pkg/widgetid"
)

// Fixed-vocabulary feedback scales.
const (
	FeedbackThumbs = "thumbs"
	FeedbackFaces  = "faces"
	FeedbackStars  = "stars"
)

var thumbIcons = []string{
	":material/thumb_up:",
	":material/thumb_down:",
}

var faceIcons = []string{
	":material/sentiment_sad:",
	":material/sentiment_dissatisfied:",
	":material/sentiment_neutral:",
	":material/sentiment_satisfied:",
	":material/sentiment_very_satisfied:",
}

const (
	starIcon         = ":material/star:"
	selectedStarIcon = ":material/star_filled:"
)

// MappedOptions translates a fixed-vocabulary scale name into its concrete
// ordered option list plus the index mapping that translates wire positions
// back into abstract sentiment categories. Thumbs render up before down but
// map to categories [1, 0] so that a higher category always means a more
// positive sentiment.
func MappedOptions(kind string) ([]element.Option, []int, error) {
	switch kind {
	case FeedbackThumbs:
		opts := make([]element.Option, len(thumbIcons))
		for i, icon := range thumbIcons {
			opts[i] = element.Option{ContentIcon: icon}
		}
		return opts, []int{1, 0}, nil
	case FeedbackFaces:
		opts := make([]element.Option, len(faceIcons))
		indices := make([]int, len(faceIcons))
		for i, icon := range faceIcons {
			opts[i] = element.Option{ContentIcon: icon}
			indices[i] = i
		}
		return opts, indices, nil
	case FeedbackStars:
		opts := make([]element.Option, 5)
		indices := make([]int, 5)
		for i := range opts {
			opts[i] = element.Option{
				ContentIcon:         starIcon,
				SelectedContentIcon: selectedStarIcon,
			}
			indices[i] = i
		}
		return opts, indices, nil
	default:
		return nil, nil, apierror.Configf(
			"the options argument to feedback must be one of [%q, %q, %q]; the argument passed was %q",
			FeedbackThumbs, FeedbackFaces, FeedbackStars, kind)
	}
}

// Feedback renders a fixed-vocabulary sentiment widget and returns the
// selected category index, or ok=false when nothing is selected. Stars
// highlight every option up to the selection; thumbs and faces highlight
// only the selected one.
func Feedback(rc *runtime.Context, kind string, opts ...Option) (int, bool, error) {
	cfg := newConfig(element.StyleNormal, opts)
	cfg.labelVisibility = element.LabelCollapsed

	mapped, indices, err := MappedOptions(kind)
	if err != nil {
		return 0, false, err
	}
	codec := serde.FeedbackSerde{OptionIndices: indices}

	var defWire []int
	if len(cfg.defaults) > 0 {
		if len(cfg.defaults) > 1 {
			return 0, false, apierror.Configf(
				"the default argument to feedback must be a single sentiment category")
		}
		category, ok := cfg.defaults[0].(int)
		if !ok {
			return 0, false, apierror.Configf(
				"the default argument to feedback must be an integer sentiment category, got %T", cfg.defaults[0])
		}
		defWire, err = codec.Serialize(category)
		if err != nil {
			return 0, false, err
		}
	}

	id := widgetid.Compute(widgetid.Params{
		Kind:        "feedback",
		UserKey:     cfg.key,
		FormID:      rc.FormID(),
		Path:        rc.Path(),
		Fingerprint: feedbackFingerprint(kind, indices),
	})

	current, err := rc.Register(id, defWire, cfg.onChange)
	if err != nil {
		return 0, false, err
	}

	value, selected, err := codec.Deserialize(current, string(id))
	if err != nil {
		return 0, false, err
	}

	visualization := element.VisualizeOnlySelected
	if kind == FeedbackStars {
		visualization = element.VisualizeAllUpToSelected
	}

	spec := element.ButtonGroup{
		ID:                     string(id),
		LabelVisibility:        cfg.labelVisibility,
		Help:                   cfg.help,
		Options:                mapped,
		Default:                defWire,
		Value:                  current,
		ClickMode:              element.SingleSelect,
		Disabled:               cfg.disabled,
		FormID:                 rc.FormID(),
		Style:                  element.StyleNormal,
		SelectionVisualization: visualization,
	}
	if err := rc.Emit(spec); err != nil {
		return 0, false, err
	}

	if !selected {
		return 0, false, nil
	}
	return value, true, nil
}

func feedbackFingerprint(kind string, indices []int) []string {
	fp := make([]string, 0, len(indices)+1)
	fp = append(fp, kind)
	for _, idx := range indices {
		fp = append(fp, strconv.Itoa(idx))
	}
	return fp
}
