package definition

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/abhisek/fragebogen/internal/element"
	"github.com/abhisek/fragebogen/internal/export"
	"github.com/abhisek/fragebogen/internal/paginate"
	"github.com/abhisek/fragebogen/internal/screen"
	"github.com/abhisek/fragebogen/internal/widgets"
)

// Deps are the collaborators screens and items are built with.
type Deps struct {
	Widgets widgets.Deps
	// HTTP is used by upload screens.
	HTTP      *http.Client
	SessionID string
	// OutputDir is where download screens write relative paths.
	OutputDir string
}

// Build creates the screens of def in order. The first invalid item or
// screen aborts the build.
func Build(def *Definition, deps Deps) ([]screen.Screen, error) {
	deps.Widgets = deps.Widgets.Defaults()
	screens := make([]screen.Screen, 0, len(def.Screens))
	for i, s := range def.Screens {
		built, err := buildScreen(s, deps)
		if err != nil {
			return nil, fmt.Errorf("screen %d (%s): %w", i, s.Kind, err)
		}
		screens = append(screens, built)
	}
	return screens, nil
}

func buildScreen(s Screen, deps Deps) (screen.Screen, error) {
	opts := []screen.Option{screen.WithLogger(deps.Widgets.Log)}
	if s.Title != "" {
		opts = append(opts, screen.WithTitle(s.Title))
	}

	switch s.Kind {
	case ScreenElements, ScreenAuto, ScreenSequential:
		elements, err := buildItems(s.Items, deps.Widgets)
		if err != nil {
			return nil, err
		}
		sc := screen.New(modeOf(s.Kind), elements, opts...)
		if s.Paginator != nil {
			sc.SetPaginateUI(buildPaginator(s.Paginator, deps))
		}
		return sc, nil

	case ScreenWait:
		return screen.NewWait(deps.Widgets.Loop, s.Delay, s.Message, opts...), nil

	case ScreenPreview:
		sc := screen.NewDataPreview(s.Changelog, opts...)
		if s.Paginator != nil {
			sc.SetPaginateUI(buildPaginator(s.Paginator, deps))
		}
		return sc, nil

	case ScreenUpload:
		return screen.NewWaitDataUpload(screen.UploadConfig{
			URL:              s.URL,
			Param:            s.Param,
			Timeout:          s.Timeout,
			RetryDelay:       s.RetryDelay,
			MaxAttempts:      s.MaxAttempts,
			NextScreenOnFail: s.NextOnFail,
			Message:          s.Message,
			FailMessage:      s.FailMessage,
			IncludeChangelog: s.Changelog,
			SessionID:        deps.SessionID,
		}, deps.Widgets.Loop, deps.HTTP, opts...), nil

	case ScreenDownload:
		format := screen.Format(s.Format)
		path := s.Path
		if path == "" {
			ext := string(format)
			if ext == "" {
				ext = string(screen.FormatCSV)
			}
			path = export.FileName(deps.Widgets.Clock(), deps.SessionID, ext)
		}
		if !filepath.IsAbs(path) && deps.OutputDir != "" {
			path = filepath.Join(deps.OutputDir, path)
		}
		return screen.NewWaitDataDownload(screen.DownloadConfig{
			Path:             path,
			Format:           format,
			Message:          s.Message,
			IncludeChangelog: s.Changelog,
		}, deps.Widgets.Loop, opts...), nil
	}
	return nil, fmt.Errorf("unknown screen kind %q", s.Kind)
}

func modeOf(k ScreenKind) screen.Mode {
	switch k {
	case ScreenAuto:
		return screen.Auto
	case ScreenSequential:
		return screen.Sequential
	default:
		return screen.Manual
	}
}

func buildItems(specs []widgets.Spec, deps widgets.Deps) ([]element.Element, error) {
	elements := make([]element.Element, 0, len(specs))
	for i, spec := range specs {
		e, err := widgets.Build(spec, deps)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		elements = append(elements, e)
	}
	return elements, nil
}

func buildPaginator(p *Paginator, deps Deps) *paginate.Buttons {
	opts := []paginate.Option{paginate.WithLogger(deps.Widgets.Log)}
	if p.BackLabel != "" || p.NextLabel != "" {
		opts = append(opts, paginate.WithLabels(orDefault(p.BackLabel, "Back"), orDefault(p.NextLabel, "Next")))
	}
	return paginate.NewButtons(p.Back, p.Next, opts...)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
