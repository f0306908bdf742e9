package widgets

import (
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// ScaleVariant describes one rating scale layout.
type ScaleVariant struct {
	Type    string
	Lo, Hi  int
	Step    int
	Options string
}

var (
	// NASATLX is a 21 point subscale of the NASA task load index.
	NASATLX = ScaleVariant{Type: "NASATLX", Lo: 0, Hi: 20, Step: 1, Options: "0-20"}
	// Quality7pt is the 7 point quality scale of ITU-T P.851.
	Quality7pt = ScaleVariant{Type: "Quality7pt", Lo: 10, Hi: 70, Step: 10, Options: "10-70"}
	// VisualAnalogue is a 100 point visual analogue scale.
	VisualAnalogue = ScaleVariant{Type: "VisualAnalogueScale", Lo: 10, Hi: 109, Step: 1, Options: "10-109"}
)

// DefaultQualityLabels are the German ITU-T P.851 labels.
var DefaultQualityLabels = []string{
	"extrem schlecht", "schlecht", "dürftig", "ordentlich", "gut", "ausgezeichnet", "ideal",
}

// Scale is a rating scale answered with one of its points. The pointer is
// moved with the arrow keys and the answer is set with enter or space.
type Scale struct {
	element.Item
	variant      ScaleVariant
	captionLeft  string
	captionRight string
	labels       []string
}

// NewScale creates a scale of the given variant. Captions label the ends of
// continuous scales; labels name every point of Quality7pt.
func NewScale(v ScaleVariant, question string, required bool, captionLeft, captionRight string, labels []string, opts ...element.Option) *Scale {
	s := &Scale{
		Item:         element.NewItem(v.Type, question, required, opts...),
		variant:      v,
		captionLeft:  captionLeft,
		captionRight: captionRight,
	}
	if v.Type == Quality7pt.Type {
		s.labels = DefaultQualityLabels
		if len(labels) == 7 {
			s.labels = labels
			s.Log().Debug("Quality7pt.New", fmt.Sprintf("custom labels %v", labels))
		} else if len(labels) > 0 {
			s.Log().Warn("Quality7pt.New", fmt.Sprintf("need 7 labels, got %d; using defaults", len(labels)))
		}
	}
	return s
}

func (s *Scale) AnswerOptions() any { return s.variant.Options }

// Points returns the values of all scale points in order.
func (s *Scale) Points() []int {
	var pts []int
	for v := s.variant.Lo; v <= s.variant.Hi; v += s.variant.Step {
		pts = append(pts, v)
	}
	return pts
}

// Choose sets the answer to value if it is a point of the scale.
func (s *Scale) Choose(value int) bool {
	for _, p := range s.Points() {
		if p == value {
			s.SetAnswer(value)
			return true
		}
	}
	s.Log().Error(s.Type()+".Choose", "invalid answer "+strconv.Itoa(value))
	return false
}

func (s *Scale) CreateUI() element.Handle {
	pts := s.Points()
	h := &scaleHandle{s: s, cursor: len(pts) / 2}
	if v, ok := s.Answer().(int); ok {
		for i, p := range pts {
			if p == v {
				h.cursor = i
			}
		}
	}
	return s.Attach(h)
}

type scaleHandle struct {
	focus
	s      *Scale
	cursor int
}

func (h *scaleHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.s.IsEnabled() {
		return nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	pts := h.s.Points()
	switch kmsg.String() {
	case "left", "h":
		h.cursor = max(0, h.cursor-1)
	case "right", "l":
		h.cursor = min(len(pts)-1, h.cursor+1)
	case "home":
		h.cursor = 0
	case "end":
		h.cursor = len(pts) - 1
	case "enter", "space":
		h.s.Choose(pts[h.cursor])
	}
	return nil
}

func (h *scaleHandle) View(width int) string {
	var body string
	if h.s.labels != nil {
		body = h.labelledView()
	} else {
		body = h.continuousView(width)
	}
	return itemView(&h.s.Item, h.focused, h.s.Question(), body, width)
}

func (h *scaleHandle) continuousView(width int) string {
	pts := h.s.Points()
	var marker *int
	if h.focused {
		marker = &pts[h.cursor]
	} else if v, ok := h.s.Answer().(int); ok {
		marker = &v
	}
	line := components.Slider(h.s.variant.Lo, h.s.variant.Hi, marker, width-4, h.s.captionLeft, h.s.captionRight)
	if v, ok := h.s.Answer().(int); ok {
		return line + "\n" + theme.Selected.Render("✕ "+strconv.Itoa(v))
	}
	return line
}

func (h *scaleHandle) labelledView() string {
	answer, answered := h.s.Answer().(int)
	pts := h.s.Points()
	parts := make([]string, len(pts))
	for i, p := range pts {
		label := h.s.labels[i]
		switch {
		case answered && p == answer:
			parts[i] = theme.Selected.Render("✕ " + label)
		case h.focused && i == h.cursor:
			parts[i] = theme.Selected.Render("▸ " + label)
		default:
			parts[i] = theme.Unselected.Render("  " + label)
		}
	}
	return strings.Join(parts, "\n")
}
