package dataset

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// builtinAliases maps common naming variants found in public indicator
// datasets to the canonical name used across all sources. Keys are
// lowercase.
var builtinAliases = map[string]string{
	"czechia":                                   "Czech Republic",
	"republic of korea":                         "South Korea",
	"korea, rep.":                               "South Korea",
	"korea, dem. people's rep.":                 "North Korea",
	"democratic people's republic of korea":     "North Korea",
	"russian federation":                        "Russia",
	"united states of america":                  "United States",
	"usa":                                       "United States",
	"viet nam":                                  "Vietnam",
	"iran (islamic republic of)":                "Iran",
	"iran, islamic rep.":                        "Iran",
	"syrian arab republic":                      "Syria",
	"lao pdr":                                   "Laos",
	"lao people's democratic republic":          "Laos",
	"bolivia (plurinational state of)":          "Bolivia",
	"venezuela (bolivarian republic of)":        "Venezuela",
	"venezuela, rb":                             "Venezuela",
	"tanzania, united rep.":                     "Tanzania",
	"united republic of tanzania":               "Tanzania",
	"congo, dem. rep.":                          "Democratic Republic of the Congo",
	"congo, rep.":                               "Congo",
	"egypt, arab rep.":                          "Egypt",
	"gambia, the":                               "Gambia",
	"bahamas, the":                              "Bahamas",
	"kyrgyz republic":                           "Kyrgyzstan",
	"slovak republic":                           "Slovakia",
	"macedonia, fyr":                            "North Macedonia",
	"the former yugoslav republic of macedonia": "North Macedonia",
	"swaziland":                                 "Eswatini",
	"cabo verde":                                "Cape Verde",
	"cote d'ivoire":                             "Ivory Coast",
	"côte d'ivoire":                             "Ivory Coast",
	"burma":                                     "Myanmar",
	"turkiye":                                   "Turkey",
	"türkiye":                                   "Turkey",
	"brunei darussalam":                         "Brunei",
	"timor-leste":                               "East Timor",
	"republic of moldova":                       "Moldova",
	"moldova, rep.":                             "Moldova",
	"yemen, rep.":                               "Yemen",
	"micronesia, fed. sts.":                     "Micronesia",
	"st. lucia":                                 "Saint Lucia",
	"st. vincent and the grenadines":            "Saint Vincent and the Grenadines",
	"st. kitts and nevis":                       "Saint Kitts and Nevis",
}

// Resolver maps source country names onto the canonical name set.
type Resolver struct {
	aliases   map[string]string
	canonical map[string]struct{}

	// Unresolved counts names that matched neither an alias nor a
	// canonical country, keyed by the raw name seen.
	Unresolved map[string]int
}

// NewResolver builds a resolver from the built-in alias table.
func NewResolver() *Resolver {
	aliases := make(map[string]string, len(builtinAliases))
	for k, v := range builtinAliases {
		aliases[k] = v
	}
	canonical := make(map[string]struct{}, len(canonicalCountries))
	for _, name := range canonicalCountries {
		canonical[strings.ToLower(name)] = struct{}{}
	}
	return &Resolver{
		aliases:    aliases,
		canonical:  canonical,
		Unresolved: make(map[string]int),
	}
}

// LoadOverrides merges extra alias→canonical pairs from a YAML file.
// Overrides win over the built-in table.
func (r *Resolver) LoadOverrides(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "dataset: read alias overrides %s", path)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return eris.Wrapf(err, "dataset: parse alias overrides %s", path)
	}
	for alias, canonical := range overrides {
		r.aliases[strings.ToLower(strings.TrimSpace(alias))] = canonical
	}
	zap.L().Info("loaded alias overrides",
		zap.String("path", path),
		zap.Int("count", len(overrides)),
	)
	return nil
}

// Resolve returns the canonical name for a raw source name. The second
// return is false when the name is unknown; the miss is recorded.
func (r *Resolver) Resolve(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	lower := strings.ToLower(name)
	if canonical, ok := r.aliases[lower]; ok {
		return canonical, true
	}
	if _, ok := r.canonical[lower]; ok {
		// Preserve canonical casing from the table, not the source.
		return canonicalCasing(lower), true
	}
	r.Unresolved[name]++
	return "", false
}

// UnresolvedCount returns the total number of dropped name occurrences.
func (r *Resolver) UnresolvedCount() int {
	total := 0
	for _, n := range r.Unresolved {
		total += n
	}
	return total
}

var casingIndex map[string]string

func canonicalCasing(lower string) string {
	if casingIndex == nil {
		casingIndex = make(map[string]string, len(canonicalCountries))
		for _, name := range canonicalCountries {
			casingIndex[strings.ToLower(name)] = name
		}
	}
	return casingIndex[lower]
}
