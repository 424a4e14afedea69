package scorer

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/water-intel/internal/model"
	"github.com/sells-group/water-intel/internal/tier"
)

//go:embed rubric.yaml
var rubricYAML []byte

// Criterion is one line of the scoring rubric.
type Criterion struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Max      int    `yaml:"max"`
	Guidance string `yaml:"guidance"`
}

// TierBand is a rubric tier with its inclusive lower bound.
type TierBand struct {
	Tier int     `yaml:"tier"`
	Min  float64 `yaml:"min"`
}

// Rubric is the scoring rubric sent to the provider as the system prompt.
type Rubric struct {
	Role     string      `yaml:"role"`
	Task     string      `yaml:"task"`
	Criteria []Criterion `yaml:"criteria"`
	Tiers    []TierBand  `yaml:"tiers"`
}

// DefaultRubric parses the embedded rubric.
func DefaultRubric() (*Rubric, error) {
	return ParseRubric(rubricYAML)
}

// ParseRubric decodes and validates a YAML rubric. Criterion points must sum
// to 100, every criterion must be a known breakdown key, and the tier bands
// must match the canonical tier table.
func ParseRubric(data []byte) (*Rubric, error) {
	var r Rubric
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, eris.Wrap(err, "scorer: parse rubric")
	}

	known := make(map[string]bool, len(model.Criteria))
	for _, c := range model.Criteria {
		known[c] = true
	}
	total := 0
	for _, c := range r.Criteria {
		if !known[c.Key] {
			return nil, eris.Errorf("scorer: rubric criterion %q is not a breakdown key", c.Key)
		}
		total += c.Max
	}
	if total != 100 {
		return nil, eris.Errorf("scorer: rubric points sum to %d, want 100", total)
	}

	if len(r.Tiers) != len(tier.Table) {
		return nil, eris.Errorf("scorer: rubric has %d tiers, want %d", len(r.Tiers), len(tier.Table))
	}
	for i, band := range r.Tiers {
		want := tier.Table[i]
		if band.Tier != want.Tier || band.Min != want.MinScore {
			return nil, eris.Errorf("scorer: rubric tier %d starts at %v, want tier %d at %v",
				band.Tier, band.Min, want.Tier, want.MinScore)
		}
	}
	return &r, nil
}

// SystemPrompt renders the rubric as the cached system instruction.
func (r *Rubric) SystemPrompt() string {
	var sb strings.Builder
	sb.WriteString(r.Role)
	sb.WriteString("\n\n")
	sb.WriteString(r.Task)
	sb.WriteString("\n\nScoring Criteria (out of 100):\n")
	for i, c := range r.Criteria {
		fmt.Fprintf(&sb, "%d. %s (max. %d pts, key %q): %s\n", i+1, c.Label, c.Max, c.Key, c.Guidance)
	}
	sb.WriteString("\nReturn a single JSON object with:\n")
	sb.WriteString("- score: numerical score 0-100\n")
	sb.WriteString("- tier: 1-4 based on score (")
	for i, band := range r.Tiers {
		if i > 0 {
			sb.WriteString(", ")
		}
		if i == 0 {
			fmt.Fprintf(&sb, "%d=%g-100", band.Tier, band.Min)
			continue
		}
		if i == len(r.Tiers)-1 {
			fmt.Fprintf(&sb, "%d=<%g", band.Tier, r.Tiers[i-1].Min)
			continue
		}
		fmt.Fprintf(&sb, "%d=%g-%g", band.Tier, band.Min, r.Tiers[i-1].Min-1)
	}
	sb.WriteString(")\n")
	sb.WriteString("- breakdown: object mapping each criterion key to its awarded points\n")
	sb.WriteString("Respond with JSON only.")
	return sb.String()
}
