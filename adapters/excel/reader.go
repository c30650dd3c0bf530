package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"statdemo/internal/logging"
)

// Reader loads Control and Treatment columns from xlsx or csv files
type Reader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *zap.Logger
}

// NewReader creates a reader; the file type follows the extension
func NewReader(filePath string, logger *zap.Logger) *Reader {
	fileType := "xlsx"
	if strings.EqualFold(fileExt(filePath), ".csv") {
		fileType = "csv"
	}
	return &Reader{filePath: filePath, fileType: fileType, logger: logging.OrNop(logger)}
}

// ReadGroups reads both groups. Blank cells are skipped so the groups may
// differ in length.
func (r *Reader) ReadGroups() (*Groups, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("file must have a header row and at least one data row")
	}

	groups, err := parseGroups(rows)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("groups read",
		zap.String("path", r.filePath),
		zap.Int("control", len(groups.Control)),
		zap.Int("treatment", len(groups.Treatment)))
	return groups, nil
}

// readExcelRows reads the sample sheet, falling back to the first sheet
func (r *Reader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := SampleSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func (r *Reader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

func parseGroups(rows [][]string) (*Groups, error) {
	controlIdx, treatmentIdx := -1, -1
	for i, h := range rows[0] {
		switch {
		case strings.EqualFold(strings.TrimSpace(h), ControlColumn):
			controlIdx = i
		case strings.EqualFold(strings.TrimSpace(h), TreatmentColumn):
			treatmentIdx = i
		}
	}
	if controlIdx < 0 || treatmentIdx < 0 {
		return nil, fmt.Errorf("header must contain %q and %q columns", ControlColumn, TreatmentColumn)
	}

	groups := &Groups{}
	for line, row := range rows[1:] {
		for _, col := range []struct {
			idx  int
			dest *[]float64
		}{{controlIdx, &groups.Control}, {treatmentIdx, &groups.Treatment}} {
			if col.idx >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[col.idx])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %q is not a number", line+2, col.idx+1, cell)
			}
			*col.dest = append(*col.dest, v)
		}
	}
	return groups, nil
}

func fileExt(path string) string {
	return filepath.Ext(path)
}
