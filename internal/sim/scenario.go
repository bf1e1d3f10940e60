package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/snowglobe/internal/cloud"
	"github.com/san-kum/snowglobe/internal/shape"
)

// Scenario is a scripted sequence of modes and silhouettes.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Dt          float64        `yaml:"dt"`
	Preset      string         `yaml:"preset"`
	Steps       []ScenarioStep `yaml:"steps"`
}

type ScenarioStep struct {
	Mode       string  `yaml:"mode"`
	Seconds    float64 `yaml:"seconds"`
	Silhouette string  `yaml:"silhouette"`
	Text       string  `yaml:"text"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &scenario, nil
}

// Schedule converts the scenario steps into a validated Schedule.
func (s *Scenario) Schedule() (Schedule, error) {
	out := make(Schedule, 0, len(s.Steps))
	for i, step := range s.Steps {
		seg := Segment{Mode: cloud.ParseMode(step.Mode), Seconds: step.Seconds, Text: step.Text}
		if step.Silhouette != "" {
			kind, err := shape.ParseKind(step.Silhouette)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", i+1, err)
			}
			seg.Silhouette = kind
		}
		out = append(out, seg)
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}
