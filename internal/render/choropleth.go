// Package render is the presentation layer: it draws the choropleth and
// bubble charts and writes the flat exports. No computation happens here.
package render

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Choropleth renders an interactive world map colored by CFI score.
// Only countries whose boundary match succeeded (GeoMapped) and whose index
// is defined contribute data; everything else renders as no-data on the
// map while remaining present in the exports.
func Choropleth(records []model.CountryRecord, year int, path string) error {
	var data []opts.MapData
	minV, maxV := 0.0, 0.0
	first := true
	for _, r := range records {
		if !r.GeoMapped || !r.CFIDefined {
			continue
		}
		if first || r.CFIScore < minV {
			minV = r.CFIScore
		}
		if first || r.CFIScore > maxV {
			maxV = r.CFIScore
		}
		first = false
		data = append(data, opts.MapData{Name: r.Country, Value: r.CFIScore})
	}

	m := charts.NewMap()
	m.RegisterMapType("world")
	m.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Climate Fairness Index (%d)", year),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        float32(minV),
			Max:        float32(maxV),
			InRange: &opts.VisualMapInRange{
				Color: []string{"#313695", "#ffffbf", "#a50026"},
			},
		}),
	)
	m.AddSeries("CFI", data)

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close()

	if err := m.Render(f); err != nil {
		return eris.Wrap(err, "render: choropleth")
	}
	zap.L().Info("wrote choropleth",
		zap.String("path", path),
		zap.Int("countries", len(data)),
	)
	return nil
}
