package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/fwojciec/scddb"
	"gopkg.in/yaml.v3"
)

// Exporter writes dances as markdown files with YAML frontmatter.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit, so an interrupted export never replaces a previous one.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates a new Exporter.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{baseDir: baseDir, name: name}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Save writes one dance to the temporary directory and returns the
// file name it used.
func (e *Exporter) Save(ctx context.Context, dance *scddb.Dance) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return "", err
	}

	content, err := FormatDance(dance)
	if err != nil {
		return "", err
	}
	name := Filename(dance)
	if err := os.WriteFile(filepath.Join(e.tempDir(), name), []byte(content), 0644); err != nil {
		return "", err
	}
	return name, nil
}

// Commit replaces the final directory with the temporary one.
func (e *Exporter) Commit() error {
	if err := os.MkdirAll(e.tempDir(), 0755); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort removes the temporary directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}

// Filename returns "<slug>-<id>.md" for a stored dance and "<slug>.md"
// otherwise.
func Filename(d *scddb.Dance) string {
	s := slug(d.Name)
	if s == "" {
		s = "dance"
	}
	if d.ID != "" {
		id := d.ID
		if len(id) > 8 {
			id = id[:8]
		}
		s += "-" + id
	}
	return s + ".md"
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type frontmatter struct {
	ID          string   `yaml:"id,omitempty"`
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type,omitempty"`
	Meter       string   `yaml:"meter,omitempty"`
	Bars        int      `yaml:"bars"`
	Repetitions int      `yaml:"repetitions"`
	Formation   string   `yaml:"formation"`
	Couples     int      `yaml:"couples"`
	Set         int      `yaml:"set"`
	Author      string   `yaml:"author,omitempty"`
	Year        int      `yaml:"year,omitempty"`
	Published   []string `yaml:"published,omitempty"`
	Source      string   `yaml:"source,omitempty"`
	Exported    string   `yaml:"exported"`
}

// FormatDance renders a dance as markdown with YAML frontmatter.
func FormatDance(d *scddb.Dance) (string, error) {
	fm, err := yaml.Marshal(frontmatter{
		ID:          d.ID,
		Name:        d.Name,
		Type:        d.DanceType,
		Meter:       d.Meter,
		Bars:        d.BarsCount,
		Repetitions: d.Repetitions,
		Formation:   d.Formation,
		Couples:     d.CouplesCount,
		Set:         d.SetFormat,
		Author:      d.Author,
		Year:        d.Year,
		Published:   d.PublishedIn,
		Source:      d.SourceURL,
		Exported:    time.Now().Format("2006-01-02"),
	})
	if err != nil {
		return "", fmt.Errorf("encoding frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n# " + d.Name + "\n")

	if d.Description != "" {
		b.WriteString("\n" + d.Description + "\n")
	}
	if len(d.Figures) > 0 {
		b.WriteString("\n## Figures\n\n")
		for _, f := range d.Figures {
			fmt.Fprintf(&b, "- **%s** %s\n", f.BarsLabel, f.Text)
		}
	}
	if d.Crib != "" {
		b.WriteString("\n## Crib\n\n" + d.Crib + "\n")
	}
	if d.ExtraInfo != "" {
		b.WriteString("\n## Notes\n\n" + d.ExtraInfo + "\n")
	}
	if len(d.Images) > 0 {
		b.WriteString("\n## Images\n\n")
		for _, img := range d.Images {
			src := img.URL
			if img.Location != "" {
				src = img.Location
			}
			fmt.Fprintf(&b, "- ![%s](%s) (%s)\n", img.AltText, src, img.Type)
		}
	}
	return b.String(), nil
}
