// Package definition loads questionnaire definitions from YAML and builds
// the screens they describe.
package definition

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/fragebogen/internal/widgets"
)

// SupportedMajor is the definition format major version this build reads.
const SupportedMajor = "v1"

// ErrUnsupportedVersion is returned for definitions of another major version.
var ErrUnsupportedVersion = errors.New("unsupported definition version")

// ScreenKind names a screen type in a definition.
type ScreenKind string

const (
	ScreenElements   ScreenKind = "elements"
	ScreenAuto       ScreenKind = "auto"
	ScreenSequential ScreenKind = "sequential"
	ScreenWait       ScreenKind = "wait"
	ScreenPreview    ScreenKind = "preview"
	ScreenUpload     ScreenKind = "upload"
	ScreenDownload   ScreenKind = "download"
)

// ScreenKinds lists every screen kind in definition order.
var ScreenKinds = []ScreenKind{
	ScreenElements, ScreenAuto, ScreenSequential, ScreenWait, ScreenPreview, ScreenUpload, ScreenDownload,
}

// Definition is a complete questionnaire.
type Definition struct {
	Version string   `yaml:"version" json:"version"`
	Title   string   `yaml:"title,omitempty" json:"title,omitempty"`
	Screens []Screen `yaml:"screens" json:"screens"`
}

// Screen describes one screen. Fields that do not apply to the kind are
// ignored.
type Screen struct {
	Kind      ScreenKind     `yaml:"kind" json:"kind"`
	Title     string         `yaml:"title,omitempty" json:"title,omitempty"`
	Items     []widgets.Spec `yaml:"items,omitempty" json:"items,omitempty"`
	Paginator *Paginator     `yaml:"paginator,omitempty" json:"paginator,omitempty"`

	Message   string        `yaml:"message,omitempty" json:"message,omitempty"`
	Delay     time.Duration `yaml:"delay,omitempty" json:"delay,omitempty"`
	Changelog bool          `yaml:"changelog,omitempty" json:"changelog,omitempty"`

	URL         string        `yaml:"url,omitempty" json:"url,omitempty"`
	Param       string        `yaml:"param,omitempty" json:"param,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	RetryDelay  time.Duration `yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`
	MaxAttempts int           `yaml:"max_attempts,omitempty" json:"max_attempts,omitempty"`
	NextOnFail  bool          `yaml:"next_on_fail,omitempty" json:"next_on_fail,omitempty"`
	FailMessage string        `yaml:"fail_message,omitempty" json:"fail_message,omitempty"`
	Path        string        `yaml:"path,omitempty" json:"path,omitempty"`
	Format      string        `yaml:"format,omitempty" json:"format,omitempty"`
}

// Paginator configures the navigation buttons of a screen. Back and Next
// are relative offsets; an omitted offset hides its button.
type Paginator struct {
	Back      *int   `yaml:"back,omitempty" json:"back,omitempty"`
	Next      *int   `yaml:"next,omitempty" json:"next,omitempty"`
	BackLabel string `yaml:"back_label,omitempty" json:"back_label,omitempty"`
	NextLabel string `yaml:"next_label,omitempty" json:"next_label,omitempty"`
}

// Parse validates data against the definition schema and decodes it.
func Parse(data []byte) (*Definition, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	if err := checkVersion(def.Version); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses the definition at path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func checkVersion(v string) error {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedVersion, v)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return fmt.Errorf("%w: %s, want %s", ErrUnsupportedVersion, major, SupportedMajor)
	}
	return nil
}

// ItemCount returns the number of items over all screens.
func (d *Definition) ItemCount() int {
	n := 0
	for _, s := range d.Screens {
		n += len(s.Items)
	}
	return n
}
