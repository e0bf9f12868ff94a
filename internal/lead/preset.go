package lead

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Preset is a saved filter view. Fields left out of the file keep the
// values of the base criteria it is applied to.
type Preset struct {
	Industries []string `yaml:"industries"`
	Cities     []string `yaml:"cities"`
	RevenueMin *float64 `yaml:"revenue_min"`
	RevenueMax *float64 `yaml:"revenue_max"`
	Dedupe     *bool    `yaml:"dedupe"`
	MinScore   *float64 `yaml:"min_score"`
}

// LoadPreset reads a preset from a YAML file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "lead: read preset %s", path)
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, eris.Wrapf(err, "lead: parse preset %s", path)
	}
	if p.RevenueMin != nil && p.RevenueMax != nil && *p.RevenueMax < *p.RevenueMin {
		return nil, eris.Errorf("lead: preset %s: revenue_max must be >= revenue_min", path)
	}
	if p.MinScore != nil && (*p.MinScore < 0 || *p.MinScore > 100) {
		return nil, eris.Errorf("lead: preset %s: min_score must be between 0 and 100", path)
	}
	return &p, nil
}

// Apply returns base with every field set in the preset replaced.
func (p *Preset) Apply(base Criteria) Criteria {
	c := base
	if p.Industries != nil {
		c.Industries = p.Industries
	}
	if p.Cities != nil {
		c.Cities = p.Cities
	}
	if p.RevenueMin != nil {
		c.RevenueMin = p.RevenueMin
	}
	if p.RevenueMax != nil {
		c.RevenueMax = p.RevenueMax
	}
	if p.Dedupe != nil {
		c.Dedupe = *p.Dedupe
	}
	if p.MinScore != nil {
		c.MinScore = *p.MinScore
	}
	return c
}
