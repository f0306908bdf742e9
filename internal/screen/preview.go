package screen

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/abhisek/fragebogen/internal/export"
	"github.com/abhisek/fragebogen/internal/paginate"
	"github.com/abhisek/fragebogen/internal/ui/components"
	"github.com/abhisek/fragebogen/internal/ui/layout"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// DataPreview shows the answers collected so far as a table.
type DataPreview struct {
	Base

	includeChangelog bool
	getRawData       func(includeChangelog bool) export.Table
	paginator        paginate.Paginator

	data      export.Table
	pagHandle paginate.Handle
	offset    int
}

var _ Screen = (*DataPreview)(nil)
var _ RawDataRequester = (*DataPreview)(nil)
var _ PaginateUISetter = (*DataPreview)(nil)

// NewDataPreview creates a preview screen with a next button.
func NewDataPreview(includeChangelog bool, opts ...Option) *DataPreview {
	s := &DataPreview{
		Base:             newBase("DataPreview", resolve(opts, "Data Preview")),
		includeChangelog: includeChangelog,
	}
	s.paginator = paginate.Next(paginate.WithLogger(s.log))
	s.bind(s)
	return s
}

func (s *DataPreview) SetGetRawDataCallback(fn func(includeChangelog bool) export.Table) bool {
	if fn == nil {
		return false
	}
	s.getRawData = fn
	return true
}

func (s *DataPreview) SetPaginateUI(p paginate.Paginator) bool {
	if s.uiCreated {
		return false
	}
	s.paginator = p
	return true
}

func (s *DataPreview) CreateUI() {
	if s.getRawData != nil {
		s.data = s.getRawData(s.includeChangelog)
	} else {
		s.log.Warn(s.location("CreateUI"), "no raw data callback set")
	}
	if s.paginator != nil {
		s.paginator.SetPaginateCallback(func(offset int) { s.sendPaginate(offset, true) })
		s.pagHandle = s.paginator.CreateUI()
	}
	s.offset = 0
	s.uiCreated = true
}

func (s *DataPreview) Start() {
	if s.pagHandle != nil {
		s.pagHandle.Focus()
	}
}

func (s *DataPreview) ReleaseUI() {
	if s.paginator != nil {
		s.paginator.ReleaseUI()
	}
	s.pagHandle = nil
	s.data = nil
	s.uiCreated = false
}

// Data returns the table fetched when the UI was created.
func (s *DataPreview) Data() export.Table { return s.data }

func (s *DataPreview) Update(msg tea.Msg) tea.Cmd {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up", "k":
			s.offset = max(0, s.offset-1)
			return nil
		case "down", "j":
			s.offset = min(max(0, len(s.data.Rows())-1), s.offset+1)
			return nil
		}
	}
	if s.pagHandle != nil {
		return s.pagHandle.Update(msg)
	}
	return nil
}

func (s *DataPreview) View(width, height int) string {
	w := components.ContentWidth(width)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Width(w).
		YOffset(s.offset)
	if len(s.data) > 0 {
		t = t.Headers(row(s.data[0], false)...)
	}
	for _, r := range s.data.Rows() {
		t = t.Row(row(r, true)...)
	}

	var footer string
	if s.pagHandle != nil {
		footer = s.pagHandle.View(w)
	}
	body := t.Height(max(3, height-lipgloss.Height(footer)-1)).String()
	content := lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, content)
}

func row(cells []any, jsonAnswer bool) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if jsonAnswer && i == len(cells)-1 {
			out[i] = export.JSON(c)
			continue
		}
		out[i] = export.Text(c)
	}
	return out
}

func (s *DataPreview) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Enter", Description: "Continue"},
	}
}
