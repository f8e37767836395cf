package render

import (
	"image/color"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/openclimate/cfi-cli/internal/model"
)

// Bubble sizes in pixels (HTML) and points (PNG).
const (
	minBubblePx = 6
	maxBubblePx = 40
	minBubblePt = 3
	maxBubblePt = 14
)

var clusterColors = map[model.ClusterLabel]color.RGBA{
	model.ClusterJusticePriority:    {R: 178, G: 24, B: 43, A: 255},
	model.ClusterHighResponsibility: {R: 33, G: 102, B: 172, A: 255},
	model.ClusterTransitional:       {R: 27, G: 120, B: 55, A: 255},
	model.ClusterOutlier:            {R: 230, G: 145, B: 56, A: 255},
}

// BubbleHTML renders the interactive bubble plot: CO₂ per-capita on x,
// poverty share on y, bubble size from revenue gap, one series per cluster
// label.
func BubbleHTML(records []model.CountryRecord, path string) error {
	s := charts.NewScatter()
	s.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Emissions vs. Poverty by Cluster"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "CO2 per-capita (t)"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Extreme poverty (%)"}),
		charts.WithLegendOpts(opts.Legend{Show: true}),
	)

	sizer := newBubbleSizer(records)

	for _, label := range orderedLabels(records) {
		var data []opts.ScatterData
		for _, r := range records {
			if r.ClusterLabel != label {
				continue
			}
			data = append(data, opts.ScatterData{
				Name:       r.Country,
				Value:      []interface{}{r.CO2PerCapita, r.PovertyPct},
				SymbolSize: sizer.pixels(r.RevenueGapPct),
			})
		}
		s.AddSeries(string(label), data)
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "render: create %s", path)
	}
	defer f.Close()

	if err := s.Render(f); err != nil {
		return eris.Wrap(err, "render: bubble html")
	}
	zap.L().Info("wrote bubble plot", zap.String("path", path))
	return nil
}

// BubblePNG renders the same chart as a static image.
func BubblePNG(records []model.CountryRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Emissions vs. Poverty by Cluster"
	p.Title.TextStyle.Font.Size = vg.Points(16)
	p.X.Label.Text = "CO2 per-capita (t)"
	p.Y.Label.Text = "Extreme poverty (%)"
	p.Add(plotter.NewGrid())

	sizer := newBubbleSizer(records)

	for _, r := range records {
		pt, err := plotter.NewScatter(plotter.XYs{{X: r.CO2PerCapita, Y: r.PovertyPct}})
		if err != nil {
			return eris.Wrap(err, "render: bubble point")
		}
		pt.GlyphStyle.Color = clusterColors[r.ClusterLabel]
		pt.GlyphStyle.Radius = sizer.points(r.RevenueGapPct)
		pt.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(pt)
	}

	// One legend entry per cluster present.
	for _, label := range orderedLabels(records) {
		thumb, err := plotter.NewScatter(plotter.XYs{})
		if err != nil {
			return eris.Wrap(err, "render: legend thumb")
		}
		thumb.GlyphStyle.Color = clusterColors[label]
		thumb.GlyphStyle.Radius = vg.Points(5)
		thumb.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Legend.Add(string(label), thumb)
	}
	p.Legend.Top = true

	if err := p.Save(12*vg.Inch, 8*vg.Inch, path); err != nil {
		return eris.Wrapf(err, "render: save %s", path)
	}
	zap.L().Info("wrote bubble image", zap.String("path", path))
	return nil
}

// bubbleSizer scales revenue gap onto a bounded bubble size range.
// Negative gaps clamp to the minimum size.
type bubbleSizer struct {
	min, max float64
}

func newBubbleSizer(records []model.CountryRecord) bubbleSizer {
	s := bubbleSizer{min: math.Inf(1), max: math.Inf(-1)}
	for _, r := range records {
		v := math.Max(r.RevenueGapPct, 0)
		s.min = math.Min(s.min, v)
		s.max = math.Max(s.max, v)
	}
	if !(s.max > s.min) {
		s.min, s.max = 0, 1
	}
	return s
}

func (s bubbleSizer) scale(gap float64) float64 {
	v := math.Max(gap, 0)
	return (v - s.min) / (s.max - s.min)
}

func (s bubbleSizer) pixels(gap float64) int {
	return minBubblePx + int(s.scale(gap)*float64(maxBubblePx-minBubblePx))
}

func (s bubbleSizer) points(gap float64) vg.Length {
	return vg.Points(minBubblePt + s.scale(gap)*(maxBubblePt-minBubblePt))
}

func orderedLabels(records []model.CountryRecord) []model.ClusterLabel {
	seen := make(map[model.ClusterLabel]struct{})
	var labels []model.ClusterLabel
	for _, r := range records {
		if _, ok := seen[r.ClusterLabel]; ok {
			continue
		}
		seen[r.ClusterLabel] = struct{}{}
		labels = append(labels, r.ClusterLabel)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}
