package render

import (
	"fmt"
	"os"
	"sort"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/openclimate/cfi-cli/internal/model"
)

// exportRow is the flat export schema. Pointer fields stay empty for rows
// whose index is undefined, so those countries are visibly flagged rather
// than silently dropped.
type exportRow struct {
	Country       string   `csv:"country"`
	CO2PerCapita  float64  `csv:"co2_per_capita"`
	PovertyPct    float64  `csv:"poverty_pct"`
	RevenueGapPct float64  `csv:"revenue_gap_pct"`
	FertilityRate *float64 `csv:"fertility_rate"`
	CFIScore      *float64 `csv:"cfi_score"`
	CFIRank       *int     `csv:"cfi_rank"`
	CFIDecile     *int     `csv:"cfi_decile"`
	ClusterLabel  string   `csv:"cluster_label"`
	CFIUndefined  bool     `csv:"cfi_undefined"`
	GeoMapped     bool     `csv:"geo_mapped"`
}

var exportHeader = []string{
	"country", "co2_per_capita", "poverty_pct", "revenue_gap_pct",
	"fertility_rate", "cfi_score", "cfi_rank", "cfi_decile",
	"cluster_label", "cfi_undefined", "geo_mapped",
}

// ExportOrder returns the records in deterministic export order: ranked
// rows by rank ascending, then undefined-index rows by country name.
func ExportOrder(records []model.CountryRecord) []model.CountryRecord {
	out := append([]model.CountryRecord(nil), records...)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.CFIDefined != b.CFIDefined {
			return a.CFIDefined
		}
		if a.CFIDefined {
			return a.CFIRank < b.CFIRank
		}
		return a.Country < b.Country
	})
	return out
}

func toRows(records []model.CountryRecord) []exportRow {
	rows := make([]exportRow, 0, len(records))
	for _, r := range records {
		row := exportRow{
			Country:       r.Country,
			CO2PerCapita:  r.CO2PerCapita,
			PovertyPct:    r.PovertyPct,
			RevenueGapPct: r.RevenueGapPct,
			ClusterLabel:  string(r.ClusterLabel),
			CFIUndefined:  !r.CFIDefined,
			GeoMapped:     r.GeoMapped,
		}
		if r.HasFertilityRate {
			v := r.FertilityRate
			row.FertilityRate = &v
		}
		if r.CFIDefined {
			score, rank, decile := r.CFIScore, r.CFIRank, r.CFIDecile
			row.CFIScore = &score
			row.CFIRank = &rank
			row.CFIDecile = &decile
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV writes the enriched table as a delimited flat file in export
// order.
func WriteCSV(records []model.CountryRecord, path string) error {
	data, err := csvutil.Marshal(toRows(ExportOrder(records)))
	if err != nil {
		return eris.Wrap(err, "render: marshal export csv")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrapf(err, "render: write %s", path)
	}
	zap.L().Info("wrote export table",
		zap.String("path", path),
		zap.Int("rows", len(records)),
	)
	return nil
}

// WriteXLSX writes the enriched table plus a run summary sheet as an Excel
// workbook.
func WriteXLSX(records []model.CountryRecord, report model.RunReport, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "CFI"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return eris.Wrap(err, "render: rename sheet")
	}

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return eris.Wrap(err, "render: write xlsx header")
		}
	}

	for i, row := range toRows(ExportOrder(records)) {
		values := []any{
			row.Country, row.CO2PerCapita, row.PovertyPct, row.RevenueGapPct,
			deref(row.FertilityRate), deref(row.CFIScore),
			derefInt(row.CFIRank), derefInt(row.CFIDecile),
			row.ClusterLabel, row.CFIUndefined, row.GeoMapped,
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return eris.Wrap(err, "render: write xlsx row")
			}
		}
	}

	if err := writeSummarySheet(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return eris.Wrapf(err, "render: save %s", path)
	}
	zap.L().Info("wrote workbook", zap.String("path", path))
	return nil
}

func writeSummarySheet(f *excelize.File, report model.RunReport) error {
	const sheet = "Summary"
	if _, err := f.NewSheet(sheet); err != nil {
		return eris.Wrap(err, "render: create summary sheet")
	}

	rows := [][2]any{
		{"run_id", report.ID},
		{"year", report.Year},
		{"rows_joined", report.RowsJoined},
		{"rows_ranked", report.RowsRanked},
		{"missing_input_files", report.MissingInputFiles},
		{"unresolvable_names", report.UnresolvableNames},
		{"dropped_join_rows", report.DroppedJoinRows},
		{"degenerate_columns", report.DegenerateColumns},
		{"undefined_index_rows", report.UndefinedIndexRows},
		{"geo_mapping_misses", report.GeoMappingMisses},
	}
	for i, kv := range rows {
		keyCell := fmt.Sprintf("A%d", i+1)
		valCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheet, keyCell, kv[0]); err != nil {
			return eris.Wrap(err, "render: write summary")
		}
		if err := f.SetCellValue(sheet, valCell, kv[1]); err != nil {
			return eris.Wrap(err, "render: write summary")
		}
	}
	return nil
}

func deref(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return nil
	}
	return *v
}
