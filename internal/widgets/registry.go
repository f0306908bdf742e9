package widgets

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/fragebogen/internal/element"
)

// ErrUnknownKind is returned for a Spec whose kind has no constructor.
var ErrUnknownKind = errors.New("unknown item kind")

// Kind names an element kind in questionnaire definitions.
type Kind string

const (
	KindText              Kind = "text"
	KindMarkdown          Kind = "markdown"
	KindTextLine          Kind = "textline"
	KindTextArea          Kind = "textarea"
	KindDate              Kind = "date"
	KindDefinedOne        Kind = "one"
	KindDefinedMulti      Kind = "multi"
	KindRange             Kind = "range"
	KindSelector          Kind = "selector"
	KindNASATLX           Kind = "nasatlx"
	KindQuality7pt        Kind = "quality7pt"
	KindVisualAnalogue    Kind = "vas"
	KindAudio             Kind = "audio"
	KindVideo             Kind = "video"
	KindImage             Kind = "image"
	KindDelayedSelectable Kind = "delayed"
	KindWaitWebsocket     Kind = "websocket"
	KindConst             Kind = "const"
	KindScreenDateTime    Kind = "datetime"
	KindScreenDuration    Kind = "duration"
	KindViewportSize      Kind = "viewport"
	KindFocus             Kind = "focus"
	KindWait              Kind = "wait"
)

// Spec is the declarative form of one element. Fields that do not apply to
// the kind are ignored.
type Spec struct {
	Kind     Kind   `yaml:"kind" json:"kind"`
	Question string `yaml:"question,omitempty" json:"question,omitempty"`
	Required bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Hidden   bool   `yaml:"hidden,omitempty" json:"hidden,omitempty"`

	// Text is the body of text and markdown, the caption of delayed.
	Text    string   `yaml:"text,omitempty" json:"text,omitempty"`
	Options []string `yaml:"options,omitempty" json:"options,omitempty"`
	Labels  []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Content any      `yaml:"content,omitempty" json:"content,omitempty"`

	Min int `yaml:"min,omitempty" json:"min,omitempty"`
	Max int `yaml:"max,omitempty" json:"max,omitempty"`

	MinDate string `yaml:"min_date,omitempty" json:"min_date,omitempty"`
	MaxDate string `yaml:"max_date,omitempty" json:"max_date,omitempty"`
	Pattern string `yaml:"pattern,omitempty" json:"pattern,omitempty"`

	Rows        int    `yaml:"rows,omitempty" json:"rows,omitempty"`
	Cols        int    `yaml:"cols,omitempty" json:"cols,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`

	CaptionLeft  string `yaml:"caption_left,omitempty" json:"caption_left,omitempty"`
	CaptionRight string `yaml:"caption_right,omitempty" json:"caption_right,omitempty"`

	URLs         []string      `yaml:"urls,omitempty" json:"urls,omitempty"`
	Duration     time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
	ReadyOnError bool          `yaml:"ready_on_error,omitempty" json:"ready_on_error,omitempty"`
	Repeatable   bool          `yaml:"repeatable,omitempty" json:"repeatable,omitempty"`
	ReplayLabel  string        `yaml:"replay_label,omitempty" json:"replay_label,omitempty"`
	Retries      int           `yaml:"retries,omitempty" json:"retries,omitempty"`

	Delay     time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	ReadyMode int           `yaml:"ready_mode,omitempty" json:"ready_mode,omitempty"`

	URL               string        `yaml:"url,omitempty" json:"url,omitempty"`
	Send              *string       `yaml:"send,omitempty" json:"send,omitempty"`
	Expect            *string       `yaml:"expect,omitempty" json:"expect,omitempty"`
	ReconnectAttempts *int          `yaml:"reconnect_attempts,omitempty" json:"reconnect_attempts,omitempty"`
	Timeout           time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

type constructor func(s Spec, deps Deps, opts []element.Option) (element.Element, error)

// registry maps every kind to its constructor.
var registry map[Kind]constructor

func init() {
	registry = map[Kind]constructor{
		KindText: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewText(s.Text, opts...), nil
		},
		KindMarkdown: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewMarkdown(s.Text, opts...), nil
		},
		KindTextLine: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewTextLine(s.Question, s.Required, opts...), nil
		},
		KindTextArea: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewTextArea(s.Question, s.Required, s.Rows, s.Cols, s.Placeholder, opts...), nil
		},
		KindDate: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewDate(s.Question, s.Required, s.MinDate, s.MaxDate, s.Pattern, opts...), nil
		},
		KindDefinedOne: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			if len(s.Options) == 0 {
				return nil, errors.New("options required")
			}
			return NewDefinedOne(s.Question, s.Required, s.Options, opts...), nil
		},
		KindDefinedMulti: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			if len(s.Options) == 0 {
				return nil, errors.New("options required")
			}
			return NewDefinedMulti(s.Question, s.Required, s.Options, opts...), nil
		},
		KindRange: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			if s.Min >= s.Max {
				return nil, fmt.Errorf("min %d must be below max %d", s.Min, s.Max)
			}
			return NewRange(s.Question, s.Required, s.Min, s.Max, opts...), nil
		},
		KindSelector: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			if len(s.Options) == 0 {
				return nil, errors.New("options required")
			}
			return NewSelector(s.Question, s.Required, s.Options, opts...), nil
		},
		KindNASATLX:        scaleOf(NASATLX),
		KindQuality7pt:     scaleOf(Quality7pt),
		KindVisualAnalogue: scaleOf(VisualAnalogue),
		KindAudio:          mediaOf(Audio),
		KindVideo:          mediaOf(Video),
		KindImage:          mediaOf(Image),
		KindDelayedSelectable: func(s Spec, deps Deps, opts []element.Option) (element.Element, error) {
			return NewDelayedSelectable(s.Text, s.Delay, ReadyMode(s.ReadyMode), deps, opts...), nil
		},
		KindWaitWebsocket: func(s Spec, deps Deps, opts []element.Option) (element.Element, error) {
			if s.URL == "" {
				return nil, errors.New("url required")
			}
			attempts := -1
			if s.ReconnectAttempts != nil {
				attempts = *s.ReconnectAttempts
			}
			return NewWaitWebsocket(WebsocketConfig{
				URL:               s.URL,
				Send:              s.Send,
				Expect:            s.Expect,
				ReconnectAttempts: attempts,
				Timeout:           s.Timeout,
			}, deps, opts...), nil
		},
		KindConst: func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewConst(s.Question, s.Content, opts...), nil
		},
		KindScreenDateTime: func(_ Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewScreenDateTime(opts...), nil
		},
		KindScreenDuration: func(_ Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewScreenDuration(opts...), nil
		},
		KindViewportSize: func(_ Spec, deps Deps, opts []element.Option) (element.Element, error) {
			return NewViewportSize(deps.Terminal, opts...), nil
		},
		KindFocus: func(_ Spec, _ Deps, opts []element.Option) (element.Element, error) {
			return NewFocus(opts...), nil
		},
		KindWait: func(s Spec, deps Deps, opts []element.Option) (element.Element, error) {
			return NewWait(deps.Loop, s.Duration, opts...), nil
		},
	}
}

func scaleOf(v ScaleVariant) constructor {
	return func(s Spec, _ Deps, opts []element.Option) (element.Element, error) {
		return NewScale(v, s.Question, s.Required, s.CaptionLeft, s.CaptionRight, s.Labels, opts...), nil
	}
}

func mediaOf(kind MediaKind) constructor {
	return func(s Spec, deps Deps, opts []element.Option) (element.Element, error) {
		if len(s.URLs) == 0 {
			return nil, errors.New("urls required")
		}
		return NewMedia(MediaConfig{
			Kind:         kind,
			Question:     s.Question,
			Required:     s.Required,
			URLs:         s.URLs,
			ReadyOnError: s.ReadyOnError,
			Duration:     s.Duration,
			Repeatable:   s.Repeatable,
			ReplayLabel:  s.ReplayLabel,
			Retries:      s.Retries,
		}, deps, opts...), nil
	}
}

// Build creates the element s describes.
func Build(s Spec, deps Deps) (element.Element, error) {
	ctor, ok := registry[s.Kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, s.Kind)
	}
	deps = deps.Defaults()
	var extra []element.Option
	if s.Hidden {
		extra = append(extra, element.Hidden())
	}
	e, err := ctor(s, deps, deps.Options(extra...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Kind, err)
	}
	return e, nil
}

// Kinds returns all known kinds in sorted order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
