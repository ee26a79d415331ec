package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"driftwatch/domain/core"
	"driftwatch/domain/dataset"
	"driftwatch/internal"
)

// DataReader loads a tabular snapshot from an Excel or CSV file into a
// dataset.Table. Columns that do not parse as numeric are skipped with a
// warning; drift analysis only consumes numeric columns.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	logger   *internal.Logger
}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader(filePath string, logger *internal.Logger) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{filePath: filePath, fileType: fileType, logger: logger}
}

// Read implements ports.TableReader
func (r *DataReader) Read() (*dataset.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: file %s", core.ErrNotFound, r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, core.NewValidationError("file", fmt.Sprintf("unsupported file type %q", r.fileType))
	}
	if err != nil {
		return nil, err
	}

	return r.buildTable(rows)
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	r.logger.Debug("Read %d rows from sheet %q", len(rows), sheet)
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	r.logger.Debug("Read %d rows from %s", len(rows), r.filePath)
	return rows, nil
}

// buildTable converts header+data rows into numeric columns. The first row
// is the header; rows shorter than the header are rejected.
func (r *DataReader) buildTable(rows [][]string) (*dataset.Table, error) {
	if len(rows) < 2 {
		return nil, core.NewInsufficientDataError(
			fmt.Sprintf("file %s needs a header row and at least one data row", r.filePath))
	}

	header := rows[0]
	data := rows[1:]
	table := dataset.NewTable()

	for j, rawName := range header {
		name := strings.TrimSpace(rawName)
		if name == "" {
			r.logger.Warn("Skipping unnamed column %d in %s", j, r.filePath)
			continue
		}

		values := make([]float64, 0, len(data))
		numeric := true
		for i, row := range data {
			if j >= len(row) {
				return nil, core.NewValidationError("rows",
					fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), len(header)))
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
			if err != nil {
				numeric = false
				break
			}
			values = append(values, v)
		}
		if !numeric {
			r.logger.Warn("Skipping non-numeric column %q in %s", name, r.filePath)
			continue
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	if table.NumColumns() == 0 {
		return nil, core.NewValidationError("columns",
			fmt.Sprintf("file %s has no numeric columns", r.filePath))
	}
	return table, nil
}
