// Package catalog carries the display labels and option lists of the report
// form. The data is embedded YAML so non-developers can edit wording without
// touching Go code.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/csg33k/ldpr-reports/internal/domain"
)

//go:embed catalog.yaml
var raw []byte

// Entry is a keyed label.
type Entry struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

type Catalog struct {
	Steps                map[string]string `yaml:"steps"`
	Topics               []Entry           `yaml:"topics"`
	Receptions           []Entry           `yaml:"receptions"`
	LegislationStatuses  []string          `yaml:"legislation_statuses"`
	RepresentativeLevels []string          `yaml:"representative_levels"`
	Regions              []string          `yaml:"regions"`
}

// Parse decodes a catalog document and checks it covers every step, topic
// and reception the form knows about.
func Parse(b []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	for _, s := range domain.Steps() {
		if c.Steps[s.ID()] == "" {
			return nil, fmt.Errorf("catalog: missing title for step %q", s.ID())
		}
	}
	for _, t := range domain.Topics() {
		if c.label(c.Topics, t.Key()) == "" {
			return nil, fmt.Errorf("catalog: missing label for topic %q", t.Key())
		}
	}
	for _, r := range domain.Receptions() {
		if c.label(c.Receptions, r.Key()) == "" {
			return nil, fmt.Errorf("catalog: missing label for reception %q", r.Key())
		}
	}
	return &c, nil
}

var (
	once    sync.Once
	def     *Catalog
	loadErr error
)

// Default returns the embedded catalog. It panics if the embedded document is
// broken, which the package tests rule out.
func Default() *Catalog {
	once.Do(func() { def, loadErr = Parse(raw) })
	if loadErr != nil {
		panic(loadErr)
	}
	return def
}

func (c *Catalog) StepTitle(s domain.Step) string { return c.Steps[s.ID()] }

func (c *Catalog) TopicLabel(t domain.Topic) string { return c.label(c.Topics, t.Key()) }

func (c *Catalog) ReceptionLabel(r domain.Reception) string { return c.label(c.Receptions, r.Key()) }

func (c *Catalog) label(entries []Entry, key string) string {
	for _, e := range entries {
		if e.Key == key {
			return e.Label
		}
	}
	return ""
}
