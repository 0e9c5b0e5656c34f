package grouping

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// GroupConfig declares one group and the raw process identifiers it owns.
type GroupConfig struct {
	Name           string   `yaml:"name"`
	Family         string   `yaml:"family"`
	HydrogenSource string   `yaml:"hydrogen_source"`
	Prefixes       []string `yaml:"prefixes"`
	Processes      []string `yaml:"processes"`
}

// Config is the read-only configuration consumed by the grouper and the
// decomposition pipeline.
type Config struct {
	Groups          []GroupConfig `yaml:"groups"`
	ElectricityFuel string        `yaml:"electricity_fuel"`
	Epsilon         float64       `yaml:"epsilon"`
}

// DefaultConfig returns the built-in process map: the five industrial
// subsector groups plus the non-industrial sector families.
func DefaultConfig() Config {
	return Config{
		ElectricityFuel: "electricity",
		Groups: []GroupConfig{
			{Name: "Alumina", Family: "industry", Prefixes: []string{"i-alumina", "alumina"}},
			{Name: "Aluminium", Family: "industry", Prefixes: []string{"i-aluminium", "aluminium", "smelter"}},
			{Name: "Cement+", Family: "industry", Prefixes: []string{"i-cement", "cement", "lime", "clinker"}},
			{Name: "PetChem", Family: "industry", HydrogenSource: "smr", Prefixes: []string{"i-petchem", "petchem", "chem", "refinery"}},
			{Name: "Iron & Steel", Family: "industry", HydrogenSource: "electrolysis", Prefixes: []string{"i-ironsteel", "ironsteel", "iron-steel", "steel"}},
			{Name: "ES", Family: "commercial", Prefixes: []string{"es-"}},
			{Name: "CS", Family: "commercial", Prefixes: []string{"cs-"}},
			{Name: "RS", Family: "residential", Prefixes: []string{"rs-"}},
		},
	}
}

// LoadConfig loads the grouping config from a yaml file. An empty path
// returns the built-in defaults. File values replace defaults wholesale for
// groups; the electricity fuel and epsilon fall back when unset.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("grouping: parse config %s: %w", path, err)
	}
	if len(loaded.Groups) > 0 {
		cfg.Groups = loaded.Groups
	}
	if loaded.ElectricityFuel != "" {
		cfg.ElectricityFuel = loaded.ElectricityFuel
	}
	if loaded.Epsilon > 0 {
		cfg.Epsilon = loaded.Epsilon
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks group names and families.
func (c Config) Validate() error {
	if len(c.Groups) == 0 {
		return ErrNoGroups
	}
	seen := make(map[string]struct{}, len(c.Groups))
	for _, gc := range c.Groups {
		name := strings.TrimSpace(gc.Name)
		if name == "" {
			return ErrEmptyGroupName
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("grouping: duplicate group %q", gc.Name)
		}
		seen[key] = struct{}{}
		if !SectorFamily(strings.ToLower(gc.Family)).IsValid() {
			return fmt.Errorf("grouping: group %q has invalid family %q", gc.Name, gc.Family)
		}
	}
	return nil
}
