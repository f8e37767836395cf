// Package geo decides which countries the choropleth can actually place.
// It reads country names from a world-boundaries shapefile when one is
// configured, and falls back to the canonical country set otherwise.
package geo

import (
	"strings"

	shp "github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/dataset"
)

// Boundaries is the set of country names for which boundary geometry
// exists. Lookup is case-insensitive.
type Boundaries struct {
	names  map[string]struct{}
	source string
}

// LoadShapefile reads the name attribute of every shape in a boundaries
// shapefile. nameField is the attribute carrying the country name
// (typically NAME or ADMIN in public world datasets).
func LoadShapefile(path, nameField string) (*Boundaries, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "geo: open shapefile %s", path)
	}
	defer func() { _ = reader.Close() }()

	nameIdx := -1
	for i, f := range reader.Fields() {
		name := strings.TrimRight(f.String(), "\x00")
		if strings.EqualFold(name, nameField) {
			nameIdx = i
			break
		}
	}
	if nameIdx < 0 {
		return nil, eris.Errorf("geo: field %q not found in %s", nameField, path)
	}

	b := &Boundaries{
		names:  make(map[string]struct{}),
		source: path,
	}
	for reader.Next() {
		name := strings.TrimSpace(strings.TrimRight(reader.Attribute(nameIdx), "\x00"))
		if name == "" {
			continue
		}
		b.names[strings.ToLower(name)] = struct{}{}
	}

	zap.L().Info("loaded boundary names",
		zap.String("path", path),
		zap.Int("countries", len(b.names)),
	)

	return b, nil
}

// Builtin returns boundaries backed by the canonical country name set, used
// when no shapefile is configured. The choropleth's world map recognizes
// these names directly.
func Builtin() *Boundaries {
	b := &Boundaries{
		names:  make(map[string]struct{}),
		source: "builtin",
	}
	for _, name := range dataset.CanonicalNames() {
		b.names[strings.ToLower(name)] = struct{}{}
	}
	return b
}

// Contains reports whether boundary geometry exists for the country.
func (b *Boundaries) Contains(country string) bool {
	_, ok := b.names[strings.ToLower(country)]
	return ok
}

// Len returns the number of mappable countries.
func (b *Boundaries) Len() int { return len(b.names) }

// Source names where the boundary set came from.
func (b *Boundaries) Source() string { return b.source }
