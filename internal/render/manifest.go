package render

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/KaramelBytes/loaneda-cli/internal/figure"
	"github.com/KaramelBytes/loaneda-cli/internal/logging"
	"github.com/KaramelBytes/loaneda-cli/internal/utils"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written next to the rendered charts.
const ManifestFile = "manifest.yaml"

// Manifest records what a render run produced.
type Manifest struct {
	Source    string    `yaml:"source,omitempty"`
	Backend   string    `yaml:"backend"`
	Format    Format    `yaml:"format"`
	CreatedAt time.Time `yaml:"created_at"`
	Charts    []Entry   `yaml:"charts"`
	Failed    []Failure `yaml:"failed,omitempty"`
}

// Entry describes one rendered chart.
type Entry struct {
	ID    string   `yaml:"id"`
	Name  string   `yaml:"name"`
	Title string   `yaml:"title"`
	Kind  string   `yaml:"kind"`
	File  string   `yaml:"file"`
	Notes []string `yaml:"notes,omitempty"`
}

// Failure names a chart that could not be produced.
type Failure struct {
	Name  string `yaml:"name"`
	Error string `yaml:"error"`
}

// RenderAll renders every figure into dir as <name>.<format>. A figure that fails
// to render is recorded in Failed and the rest are still written; the returned
// error joins all failures. Files are written atomically.
func RenderAll(r Renderer, figs []*figure.Figure, format Format, dir string) (*Manifest, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	m := &Manifest{Backend: r.Name(), Format: format, CreatedAt: time.Now().UTC()}
	used := map[string]int{}
	var errs []error
	for _, f := range figs {
		var buf bytes.Buffer
		if err := r.Render(f, format, &buf); err != nil {
			logging.Warnf("%s: render failed: %v", f.Name, err)
			m.Fail(f.Name, err)
			errs = append(errs, err)
			continue
		}
		file := fileName(f.Name, format, used)
		if err := utils.SafeWriteFile(filepath.Join(dir, file), buf.Bytes()); err != nil {
			err = fmt.Errorf("%s: %w", f.Name, err)
			m.Fail(f.Name, err)
			errs = append(errs, err)
			continue
		}
		logging.Debugf("wrote %s (%d bytes)", file, buf.Len())
		m.Charts = append(m.Charts, Entry{
			ID:    f.ID,
			Name:  f.Name,
			Title: f.Title,
			Kind:  string(f.Kind),
			File:  file,
			Notes: f.Notes,
		})
	}
	return m, errors.Join(errs...)
}

// Fail records a chart failure.
func (m *Manifest) Fail(name string, err error) {
	m.Failed = append(m.Failed, Failure{Name: name, Error: err.Error()})
}

// Write stores the manifest as dir/manifest.yaml and returns its path.
func (m *Manifest) Write(dir string) (string, error) {
	b, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := utils.SafeWriteFile(path, b); err != nil {
		return "", err
	}
	return path, nil
}

// ReadManifest loads a manifest written by Write.
func ReadManifest(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// fileName keeps names unique within one run.
func fileName(name string, format Format, used map[string]int) string {
	base := utils.SafeName(name)
	if base == "" {
		base = "chart"
	}
	used[base]++
	if n := used[base]; n > 1 {
		base = fmt.Sprintf("%s_%d", base, n)
	}
	return base + "." + strings.ToLower(string(format))
}
