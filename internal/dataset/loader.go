package dataset

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Series holds one indicator across years, keyed year → country → value.
// Country names are already canonical.
type Series struct {
	Name       string
	Values     map[int]map[string]float64
	MaxYear    int
	Unresolved int
}

// countryColumns are the header names accepted for the country key, in
// priority order. Public datasets disagree on this more than anything else.
var countryColumns = []string{"country", "country_name", "entity", "name"}

// LoadIndicator reads one indicator CSV into a Series. The file must carry
// a country column, a year column, and the value column (configured name,
// or the first remaining column when unset). A file that cannot be parsed
// as tabular data at all is a fatal error naming the file and cause.
func LoadIndicator(path, name, valueColumn string, resolver *Resolver) (*Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: open %s (%s)", path, name)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "dataset: read %s (%s)", path, name)
	}
	if len(records) < 2 {
		return nil, eris.Errorf("dataset: %s (%s) has no data rows", path, name)
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}

	countryIdx := -1
	for _, col := range countryColumns {
		if idx, ok := colIdx[col]; ok {
			countryIdx = idx
			break
		}
	}
	if countryIdx < 0 {
		return nil, eris.Errorf("dataset: %s (%s) has no country column", path, name)
	}

	yearIdx, ok := colIdx["year"]
	if !ok {
		return nil, eris.Errorf("dataset: %s (%s) has no year column", path, name)
	}

	valueIdx := -1
	if valueColumn != "" {
		if idx, ok := colIdx[strings.ToLower(valueColumn)]; ok {
			valueIdx = idx
		}
	}
	if valueIdx < 0 {
		if valueColumn != "" {
			zap.L().Warn("dataset: configured value column not in header, falling back",
				zap.String("indicator", name),
				zap.String("path", path),
				zap.String("value_column", valueColumn))
		}
		// Fall back to the first column that is neither country nor year.
		for i := range header {
			if i != countryIdx && i != yearIdx {
				valueIdx = i
				break
			}
		}
	}
	if valueIdx < 0 {
		return nil, eris.Errorf("dataset: %s (%s) has no value column", path, name)
	}

	series := &Series{
		Name:   name,
		Values: make(map[int]map[string]float64),
	}
	unresolvedBefore := resolver.UnresolvedCount()
	var skipped int

	for _, row := range records[1:] {
		if countryIdx >= len(row) || yearIdx >= len(row) || valueIdx >= len(row) {
			skipped++
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		if err != nil {
			skipped++
			continue
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(row[valueIdx]), 64)
		if err != nil {
			// Blank cells in panel data are routine, not an error.
			skipped++
			continue
		}

		country, ok := resolver.Resolve(row[countryIdx])
		if !ok {
			continue
		}

		if series.Values[year] == nil {
			series.Values[year] = make(map[string]float64)
		}
		series.Values[year][country] = value
		if year > series.MaxYear {
			series.MaxYear = year
		}
	}

	series.Unresolved = resolver.UnresolvedCount() - unresolvedBefore

	zap.L().Info("loaded indicator",
		zap.String("indicator", name),
		zap.String("path", path),
		zap.Int("years", len(series.Values)),
		zap.Int("unresolved_names", series.Unresolved),
		zap.Int("skipped_rows", skipped),
	)

	return series, nil
}

// YearSlice returns the country→value map for one year, never nil.
func (s *Series) YearSlice(year int) map[string]float64 {
	if m := s.Values[year]; m != nil {
		return m
	}
	return map[string]float64{}
}
