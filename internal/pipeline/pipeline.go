// Package pipeline drives one analysis run, strictly in sequence:
// load → normalize → index → cluster → render. There is no concurrency,
// no retry, and no state shared between runs; each stage either completes
// or the run fails with a reported cause.
package pipeline

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/cluster"
	"github.com/openclimate/cfi-cli/internal/config"
	"github.com/openclimate/cfi-cli/internal/dataset"
	"github.com/openclimate/cfi-cli/internal/geo"
	"github.com/openclimate/cfi-cli/internal/index"
	"github.com/openclimate/cfi-cli/internal/model"
	"github.com/openclimate/cfi-cli/internal/normalize"
	"github.com/openclimate/cfi-cli/internal/render"
)

// Pipeline holds the configuration of one run.
type Pipeline struct {
	cfg *config.Config
}

// New builds a pipeline from the loaded configuration.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{cfg: cfg}
}

// Loaded carries the join stage output into the remaining stages.
type Loaded struct {
	Join            dataset.JoinResult
	MissingOptional int
}

// Load reads and joins the indicator sources. This is the full extent of
// the `validate` command; `Run` continues from here.
func (p *Pipeline) Load() (*Loaded, error) {
	resolver := dataset.NewResolver()
	if p.cfg.Aliases.Path != "" {
		if err := resolver.LoadOverrides(p.cfg.Aliases.Path); err != nil {
			return nil, err
		}
	}

	in := p.cfg.Inputs
	co2, err := dataset.LoadIndicator(in.CO2.Path, "co2", in.CO2.ValueColumn, resolver)
	if err != nil {
		return nil, err
	}
	poverty, err := dataset.LoadIndicator(in.Poverty.Path, "poverty", in.Poverty.ValueColumn, resolver)
	if err != nil {
		return nil, err
	}
	revenue, err := dataset.LoadIndicator(in.Revenue.Path, "revenue", in.Revenue.ValueColumn, resolver)
	if err != nil {
		return nil, err
	}

	var fertility *dataset.Series
	missingOptional := 0
	if in.Fertility.Path != "" {
		if _, statErr := os.Stat(in.Fertility.Path); statErr != nil {
			// The fertility indicator is optional: a missing file is
			// counted and the run continues without the column.
			missingOptional++
			zap.L().Warn("optional fertility input missing",
				zap.String("path", in.Fertility.Path),
			)
		} else {
			fertility, err = dataset.LoadIndicator(in.Fertility.Path, "fertility", in.Fertility.ValueColumn, resolver)
			if err != nil {
				return nil, err
			}
		}
	}

	common := dataset.SelectYear(0, co2, poverty, revenue)
	years := dataset.Years{
		CO2:     dataset.SelectYear(in.CO2.Year, co2, poverty, revenue),
		Poverty: dataset.SelectYear(in.Poverty.Year, co2, poverty, revenue),
		Revenue: dataset.SelectYear(in.Revenue.Year, co2, poverty, revenue),
	}
	if fertility != nil {
		years.Fertility = in.Fertility.Year
		if years.Fertility == 0 {
			years.Fertility = common
		}
	}

	join := dataset.Join(co2, poverty, revenue, fertility, years)
	return &Loaded{Join: join, MissingOptional: missingOptional}, nil
}

// Run executes the full pipeline and returns the run report together with
// the enriched table in export order.
func (p *Pipeline) Run() (*model.RunReport, []model.CountryRecord, error) {
	// The ID is assigned up front so the rendered artifacts can carry it;
	// the registry keeps a non-empty ID as-is.
	report := &model.RunReport{ID: uuid.NewString(), StartedAt: time.Now().UTC()}

	ld, err := p.Load()
	if err != nil {
		return nil, nil, err
	}
	records := ld.Join.Records
	report.Year = ld.Join.Year
	report.RowsJoined = len(records)
	report.MissingInputFiles = ld.MissingOptional
	report.UnresolvableNames = ld.Join.Unresolved
	report.DroppedJoinRows = ld.Join.Dropped

	normRes := normalize.Apply(records)
	report.DegenerateColumns = normRes.DegenerateColumns

	idxRes := index.Compute(records)
	report.RowsRanked = idxRes.Ranked
	report.UndefinedIndexRows = idxRes.Undefined

	cluster.Assign(records, cluster.KMeans{
		K:             p.cfg.Cluster.K,
		Seed:          p.cfg.Cluster.Seed,
		MaxIterations: p.cfg.Cluster.MaxIterations,
	})

	report.GeoMappingMisses, err = p.markGeoMapped(records)
	if err != nil {
		return nil, nil, err
	}

	if err := p.renderArtifacts(records, report); err != nil {
		return nil, nil, err
	}

	report.FinishedAt = time.Now().UTC()
	logReport(report)
	return report, render.ExportOrder(records), nil
}

// markGeoMapped flags each record with whether the choropleth can place it,
// and returns the miss count. Misses stay in the table and the exports.
func (p *Pipeline) markGeoMapped(records []model.CountryRecord) (int, error) {
	var bounds *geo.Boundaries
	if p.cfg.Geo.BoundariesPath != "" {
		b, err := geo.LoadShapefile(p.cfg.Geo.BoundariesPath, p.cfg.Geo.NameField)
		if err != nil {
			return 0, err
		}
		bounds = b
	} else {
		bounds = geo.Builtin()
	}

	misses := 0
	for i := range records {
		records[i].GeoMapped = bounds.Contains(records[i].Country)
		if !records[i].GeoMapped {
			misses++
			zap.L().Warn("no boundary match, choropleth renders as no-data",
				zap.String("country", records[i].Country),
				zap.String("boundaries", bounds.Source()),
			)
		}
	}
	return misses, nil
}

func (p *Pipeline) renderArtifacts(records []model.CountryRecord, report *model.RunReport) error {
	dir := p.cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "pipeline: create output dir %s", dir)
	}

	year := strconv.Itoa(report.Year)
	artifacts := []struct {
		path  string
		write func(string) error
	}{
		{filepath.Join(dir, "cfi_export_"+year+".csv"), func(path string) error {
			return render.WriteCSV(records, path)
		}},
		{filepath.Join(dir, "cfi_model_"+year+".xlsx"), func(path string) error {
			return render.WriteXLSX(records, *report, path)
		}},
		{filepath.Join(dir, "cfi_choropleth_"+year+".html"), func(path string) error {
			return render.Choropleth(records, report.Year, path)
		}},
		{filepath.Join(dir, "bubble_plot.html"), func(path string) error {
			return render.BubbleHTML(records, path)
		}},
		{filepath.Join(dir, "bubble_plot.png"), func(path string) error {
			return render.BubblePNG(records, path)
		}},
	}

	for _, a := range artifacts {
		if err := a.write(a.path); err != nil {
			return err
		}
		report.Artifacts = append(report.Artifacts, a.path)
	}
	return nil
}

func logReport(report *model.RunReport) {
	zap.L().Info("run complete",
		zap.Int("year", report.Year),
		zap.Int("rows_joined", report.RowsJoined),
		zap.Int("rows_ranked", report.RowsRanked),
		zap.Int("missing_input_files", report.MissingInputFiles),
		zap.Int("unresolvable_names", report.UnresolvableNames),
		zap.Int("dropped_join_rows", report.DroppedJoinRows),
		zap.Int("degenerate_columns", report.DegenerateColumns),
		zap.Int("undefined_index_rows", report.UndefinedIndexRows),
		zap.Int("geo_mapping_misses", report.GeoMappingMisses),
		zap.Duration("elapsed", report.FinishedAt.Sub(report.StartedAt)),
	)
}
