package screen

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fragebogen/internal/export"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/ui/theme"
)

// Format selects the file type written by WaitDataDownload.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// DefaultDownloadName is used when no file name is configured.
const DefaultDownloadName = "TheFragebogen.csv"

// DownloadConfig configures a WaitDataDownload screen.
type DownloadConfig struct {
	// Path is the file written; its extension picks the format when Format
	// is empty.
	Path             string
	Format           Format
	Message          string
	IncludeChangelog bool
}

// WaitDataDownload writes the export to a local file and moves on.
type WaitDataDownload struct {
	Base
	dataSource

	cfg  DownloadConfig
	loop loop.Loop

	gen     int
	written bool
	failure string
}

var _ Screen = (*WaitDataDownload)(nil)
var _ DataRequester = (*WaitDataDownload)(nil)
var _ RawDataRequester = (*WaitDataDownload)(nil)

// NewWaitDataDownload creates a download screen.
func NewWaitDataDownload(cfg DownloadConfig, l loop.Loop, opts ...Option) *WaitDataDownload {
	if cfg.Path == "" {
		cfg.Path = DefaultDownloadName
	}
	if cfg.Format == "" {
		cfg.Format = FormatCSV
		if strings.EqualFold(filepath.Ext(cfg.Path), ".xlsx") {
			cfg.Format = FormatXLSX
		}
	}
	if cfg.Message == "" {
		cfg.Message = "Downloading data"
	}
	s := &WaitDataDownload{
		Base:       newBase("WaitDataDownload", resolve(opts, "")),
		dataSource: dataSource{includeChangelog: cfg.IncludeChangelog},
		cfg:        cfg,
		loop:       l,
	}
	s.bind(s)
	return s
}

// Path returns the file the export is written to.
func (s *WaitDataDownload) Path() string { return s.cfg.Path }

// Written reports whether the file was written during this visit.
func (s *WaitDataDownload) Written() bool { return s.written }

func (s *WaitDataDownload) CreateUI() {
	s.written = false
	s.failure = ""
	s.uiCreated = true
}

func (s *WaitDataDownload) Start() {
	s.gen++
	gen := s.gen
	path := s.cfg.Path

	var write func() error
	switch s.cfg.Format {
	case FormatXLSX:
		table := s.table(s.log, s.location("Start"))
		write = func() error { return export.SaveXLSX(table, path) }
	default:
		data := s.csv(s.log, s.location("Start"))
		write = func() error { return os.WriteFile(path, []byte(data), 0o644) }
	}
	go func() {
		err := write()
		s.loop.Post(func() { s.onWritten(gen, err) })
	}()
}

func (s *WaitDataDownload) onWritten(gen int, err error) {
	if gen != s.gen || !s.uiCreated {
		return
	}
	if err != nil {
		s.failure = fmt.Sprintf("Could not write %s: %v", s.cfg.Path, err)
		s.log.Error(s.location("onWritten"), s.failure)
		return
	}
	s.written = true
	s.log.Info(s.location("onWritten"), "data written to "+s.cfg.Path)
	s.sendPaginate(1, true)
}

func (s *WaitDataDownload) ReleaseUI() {
	s.gen++
	s.uiCreated = false
}

func (s *WaitDataDownload) View(width, height int) string {
	lines := []string{theme.Message.Render(s.cfg.Message)}
	if s.failure != "" {
		lines = append(lines, theme.Failure.Render(s.failure))
	}
	content := lipgloss.JoinVertical(lipgloss.Center, lines...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
