package widgets

import (
	"fmt"
	"sort"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

func checkOptions(it *element.Item, options []string) {
	if len(options) == 0 {
		it.Log().Error(it.Type()+".New", "no options given")
	}
	it.Log().Debug(it.Type()+".New", fmt.Sprintf("options %v", options))
}

// DefinedOne asks to choose exactly one of a fixed list of options.
type DefinedOne struct {
	element.Item
	options []string
}

func NewDefinedOne(question string, required bool, options []string, opts ...element.Option) *DefinedOne {
	d := &DefinedOne{Item: element.NewItem("DefinedOne", question, required, opts...), options: options}
	checkOptions(&d.Item, options)
	return d
}

func (d *DefinedOne) AnswerOptions() any { return d.options }

func (d *DefinedOne) CreateUI() element.Handle {
	h := &choiceHandle{item: &d.Item, list: components.NewChoiceList(d.options, false)}
	if s, ok := d.Answer().(string); ok {
		h.list.Select(s)
	}
	h.onChange = func() {
		if sel := h.list.Selected(); len(sel) == 1 {
			d.SetAnswer(sel[0])
		}
	}
	return d.Attach(h)
}

// DefinedMulti asks to choose any number of options. The answer is the
// sorted list of chosen options; an empty list counts as unanswered.
type DefinedMulti struct {
	element.Item
	options []string
}

func NewDefinedMulti(question string, required bool, options []string, opts ...element.Option) *DefinedMulti {
	opts = append(opts, element.WithAnsweredWhen(func(v any) bool {
		sel, _ := v.([]string)
		return len(sel) > 0
	}))
	d := &DefinedMulti{Item: element.NewItem("DefinedMulti", question, required, opts...), options: options}
	checkOptions(&d.Item, options)
	return d
}

func (d *DefinedMulti) AnswerOptions() any { return d.options }

func (d *DefinedMulti) CreateUI() element.Handle {
	h := &choiceHandle{item: &d.Item, list: components.NewChoiceList(d.options, true)}
	if sel, ok := d.Answer().([]string); ok {
		h.list.Select(sel...)
	}
	h.onChange = func() {
		sel := h.list.Selected()
		sort.Strings(sel)
		if sel == nil {
			sel = []string{}
		}
		d.SetAnswer(sel)
	}
	return d.Attach(h)
}

type choiceHandle struct {
	focus
	item     *element.Item
	list     components.ChoiceList
	onChange func()
}

func (h *choiceHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.item.IsEnabled() {
		return nil
	}
	if h.list.Update(msg) {
		h.onChange()
	}
	return nil
}

func (h *choiceHandle) View(width int) string {
	h.list.Disabled = !h.item.IsEnabled()
	return itemView(h.item, h.focused, h.item.Question(), h.list.View(h.focused), width)
}

// Range asks for an integer between min and max inclusive.
type Range struct {
	element.Item
	min, max int
}

func NewRange(question string, required bool, min, max int, opts ...element.Option) *Range {
	r := &Range{Item: element.NewItem("Range", question, required, opts...), min: min, max: max}
	if min >= max {
		r.Log().Error("Range.New", fmt.Sprintf("min %d must be below max %d", min, max))
	}
	return r
}

func (r *Range) AnswerOptions() any { return []int{r.min, r.max} }

func (r *Range) CreateUI() element.Handle {
	h := &rangeHandle{r: r, cursor: r.min + (r.max-r.min)/2}
	if v, ok := r.Answer().(int); ok {
		h.cursor = v
	}
	return r.Attach(h)
}

type rangeHandle struct {
	focus
	r      *Range
	cursor int
}

func (h *rangeHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.r.IsEnabled() {
		return nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch kmsg.String() {
	case "left", "h":
		if h.cursor > h.r.min {
			h.cursor--
		}
	case "right", "l":
		if h.cursor < h.r.max {
			h.cursor++
		}
	case "enter", "space":
	default:
		return nil
	}
	h.r.SetAnswer(h.cursor)
	return nil
}

func (h *rangeHandle) View(width int) string {
	var marker *int
	value := theme.Hint.Render("not set")
	if v, ok := h.r.Answer().(int); ok {
		marker = &h.cursor
		value = theme.Selected.Render(strconv.Itoa(v))
	} else if h.focused {
		marker = &h.cursor
	}
	body := components.Slider(h.r.min, h.r.max, marker, width-4, strconv.Itoa(h.r.min), strconv.Itoa(h.r.max)) +
		"\n" + value
	return itemView(&h.r.Item, h.focused, h.r.Question(), body, width)
}

// Selector asks to choose one option from a cycling drop-down. It starts
// on an empty, unselectable entry.
type Selector struct {
	element.Item
	options []string
}

func NewSelector(question string, required bool, options []string, opts ...element.Option) *Selector {
	s := &Selector{Item: element.NewItem("Selector", question, required, opts...), options: options}
	checkOptions(&s.Item, options)
	return s
}

func (s *Selector) AnswerOptions() any { return s.options }

func (s *Selector) CreateUI() element.Handle {
	h := &selectorHandle{s: s, index: -1}
	if v, ok := s.Answer().(string); ok {
		for i, opt := range s.options {
			if opt == v {
				h.index = i
			}
		}
	}
	return s.Attach(h)
}

type selectorHandle struct {
	focus
	s     *Selector
	index int
}

func (h *selectorHandle) Update(msg tea.Msg) tea.Cmd {
	if !h.s.IsEnabled() || len(h.s.options) == 0 {
		return nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	n := len(h.s.options)
	switch kmsg.String() {
	case "right", "down", "l", "j":
		h.index = (h.index + 1) % n
	case "left", "up", "h", "k":
		if h.index <= 0 {
			h.index = n - 1
		} else {
			h.index--
		}
	default:
		return nil
	}
	h.s.SetAnswer(h.s.options[h.index])
	return nil
}

func (h *selectorHandle) View(width int) string {
	current := theme.Hint.Render("choose…")
	if h.index >= 0 {
		current = theme.Selected.Render(h.s.options[h.index])
	}
	body := "◂ " + current + " ▸"
	return itemView(&h.s.Item, h.focused, h.s.Question(), body, width)
}
