// Package excel moves scenario samples and reports in and out of
// spreadsheet files.
package excel

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"statdemo/domain/scenario"
	"statdemo/domain/stats"
	"statdemo/internal/logging"
)

// Writer exports samples to xlsx workbooks
type Writer struct {
	logger *zap.Logger
}

// NewWriter creates a new workbook writer
func NewWriter(logger *zap.Logger) *Writer {
	return &Writer{logger: logging.OrNop(logger)}
}

// WriteSample writes the sample to path. When report is non-nil a second
// sheet lists the report fields.
func (w *Writer) WriteSample(path string, sample *scenario.Sample, report *stats.Report) error {
	if !strings.EqualFold(fileExt(path), ".xlsx") {
		return fmt.Errorf("export path must end in .xlsx: %s", path)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SampleSheet); err != nil {
		return fmt.Errorf("failed to name sample sheet: %w", err)
	}
	if err := writeSampleSheet(f, sample); err != nil {
		return err
	}
	if report != nil {
		if err := writeReportSheet(f, report); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	w.logger.Info("sample exported",
		zap.String("path", path),
		zap.String("key", sample.Key().String()),
		zap.Bool("with_report", report != nil))
	return nil
}

func writeSampleSheet(f *excelize.File, sample *scenario.Sample) error {
	if err := f.SetSheetRow(SampleSheet, "A1", &[]interface{}{ControlColumn, TreatmentColumn}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	control, treatment := sample.Control(), sample.Treatment()
	for i := range control {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SampleSheet, cell, &[]interface{}{control[i], treatment[i]}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	return nil
}

func writeReportSheet(f *excelize.File, r *stats.Report) error {
	if _, err := f.NewSheet(ReportSheet); err != nil {
		return fmt.Errorf("failed to create report sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", ControlColumn, TreatmentColumn},
		{"Mean", r.ControlMean, r.TreatmentMean},
		{"Median", r.ControlMedian, r.TreatmentMedian},
		{"Std dev", r.ControlStd, r.TreatmentStd},
		{"Shapiro-Wilk W", r.ShapiroWControl, r.ShapiroWTreatment},
		{"Shapiro-Wilk p", r.ShapiroPValueControl, r.ShapiroPValueTreatment},
		{},
		{"t statistic", formatStatistic(r.TStatistic)},
		{"t-test variant", string(r.TTestVariant)},
		{"t-test df", r.TTestDF},
		{"t-test p", r.TTestPValue},
		{"Mann-Whitney U", r.UStatistic},
		{"Mann-Whitney p", r.MannWhitneyPValue},
		{"Recommended", string(r.RecommendedTest)},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(ReportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write report row %d: %w", i+1, err)
		}
	}
	return nil
}

// formatStatistic keeps infinities readable; excelize cannot store them as numbers.
func formatStatistic(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Sprintf("%g", v)
	}
	return v
}
