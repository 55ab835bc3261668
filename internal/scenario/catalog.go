// Package scenario holds the immutable catalog of pricing strategies the
// quote engine is run against.
package scenario

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Simplici0/docquote/internal/pricing"
)

const (
	Conservative = "conservative"
	Standard     = "standard"
	Aggressive   = "aggressive"
)

// ErrUnknownScenario is returned when a key is not in the catalog.
var ErrUnknownScenario = errors.New("unknown scenario")

// Catalog is a read-only set of scenarios keyed by Scenario.Key.
type Catalog struct {
	order     []string
	scenarios map[string]pricing.Scenario
}

// file is the YAML layout accepted by Load.
type file struct {
	Scenarios []pricing.Scenario `yaml:"scenarios"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(defaults())
	if err != nil {
		panic(fmt.Sprintf("built-in scenario catalog is invalid: %v", err))
	}
	return c
}

// New builds a catalog from scenarios, rejecting any that fail validation.
// A margin of 1 or more is rejected here so the engine never divides by zero.
func New(scenarios []pricing.Scenario) (*Catalog, error) {
	c := &Catalog{scenarios: make(map[string]pricing.Scenario, len(scenarios))}
	for _, s := range scenarios {
		if err := Check(s); err != nil {
			return nil, err
		}
		if _, dup := c.scenarios[s.Key]; dup {
			return nil, fmt.Errorf("duplicate scenario %q", s.Key)
		}
		c.order = append(c.order, s.Key)
		c.scenarios[s.Key] = s.Clone()
	}
	return c, nil
}

// Check validates a single scenario's rates and margins.
func Check(s pricing.Scenario) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("scenario %q: %s", s.Key, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("scenario %q: %w", s.Key, err)
	}
	return nil
}

// Load reads YAML overrides from path and applies them on top of the built-in
// catalog. Entries with a new key are appended; existing keys are replaced.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenarios: %w", err)
	}

	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse scenarios: %w", err)
	}

	merged := defaults()
	index := make(map[string]int, len(merged))
	for i, s := range merged {
		index[s.Key] = i
	}
	for _, s := range f.Scenarios {
		if i, ok := index[s.Key]; ok {
			merged[i] = s
			continue
		}
		index[s.Key] = len(merged)
		merged = append(merged, s)
	}

	return New(merged)
}

// Get returns a copy of the scenario stored under key.
func (c *Catalog) Get(key string) (pricing.Scenario, error) {
	s, ok := c.scenarios[key]
	if !ok {
		return pricing.Scenario{}, fmt.Errorf("%w: %q", ErrUnknownScenario, key)
	}
	return s.Clone(), nil
}

// All returns copies of every scenario in catalog order.
func (c *Catalog) All() []pricing.Scenario {
	out := make([]pricing.Scenario, 0, len(c.order))
	for _, key := range c.order {
		out = append(out, c.scenarios[key].Clone())
	}
	return out
}

// Keys returns the scenario keys sorted alphabetically.
func (c *Catalog) Keys() []string {
	keys := append([]string(nil), c.order...)
	sort.Strings(keys)
	return keys
}

func defaults() []pricing.Scenario {
	return []pricing.Scenario{
		{
			Key:         Conservative,
			Name:        "Conservative",
			Description: "Premium day-rates with a high labor margin; protects delivery risk.",
			DayRates: map[pricing.Role]float64{
				pricing.RoleSolutionArchitect: 1100,
				pricing.RoleMLEngineer:        950,
				pricing.RoleBackend:           800,
				pricing.RoleFrontend:          750,
				pricing.RoleDevOps:            850,
				pricing.RoleQA:                600,
				pricing.RoleProjectManager:    700,
			},
			AnalystRate:       44,
			LaborMargin:       0.47,
			PassthroughMargin: 0.12,
			TargetMargin:      0.40,
		},
		{
			Key:         Standard,
			Name:        "Standard",
			Description: "Market day-rates with balanced margins.",
			DayRates: map[pricing.Role]float64{
				pricing.RoleSolutionArchitect: 950,
				pricing.RoleMLEngineer:        850,
				pricing.RoleBackend:           700,
				pricing.RoleFrontend:          650,
				pricing.RoleDevOps:            750,
				pricing.RoleQA:                500,
				pricing.RoleProjectManager:    600,
			},
			AnalystRate:       38,
			LaborMargin:       0.40,
			PassthroughMargin: 0.10,
			TargetMargin:      0.35,
		},
		{
			Key:         Aggressive,
			Name:        "Aggressive",
			Description: "Competitive day-rates and thin margins to win the bid.",
			DayRates: map[pricing.Role]float64{
				pricing.RoleSolutionArchitect: 850,
				pricing.RoleMLEngineer:        750,
				pricing.RoleBackend:           600,
				pricing.RoleFrontend:          550,
				pricing.RoleDevOps:            650,
				pricing.RoleQA:                450,
				pricing.RoleProjectManager:    500,
			},
			AnalystRate:       32,
			LaborMargin:       0.32,
			PassthroughMargin: 0.06,
			TargetMargin:      0.25,
		},
	}
}
