package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"abstop/domain/experiment"
	"abstop/ports"

	"github.com/xuri/excelize/v2"
)

var _ ports.DatasetReaderPort = (*DataReader)(nil)

// Column headers the reader recognizes, checked case-insensitively.
var (
	groupHeaders   = []string{"group", "variant", "arm", "bucket"}
	revenueHeaders = []string{"revenue", "amount", "value", "spend", "total"}
)

// DataReader loads (group, revenue) observations from Excel or CSV files
type DataReader struct{}

// NewDataReader creates a reader that handles both Excel and CSV files
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read loads and validates the experiment dataset at path. The format is
// chosen by file extension: ".csv" is parsed as CSV, anything else as xlsx.
func (r *DataReader) Read(path string) (*experiment.Dataset, error) {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(path)) == ".csv" {
		fileType = "csv"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(fileType), path)
	}

	var rows [][]string
	var err error
	if fileType == "csv" {
		rows, err = readCSVRows(path)
	} else {
		rows, err = readExcelRows(path)
	}
	if err != nil {
		return nil, err
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("%s file must have at least a header row and one data row", strings.ToUpper(fileType))
	}
	return processRows(rows)
}

// readExcelRows reads all rows from Sheet1
func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	return rows, nil
}

// readCSVRows reads all rows from a CSV file
func readCSVRows(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	return rows, nil
}

// processRows converts raw string rows into an experiment dataset
func processRows(rows [][]string) (*experiment.Dataset, error) {
	groupCol, revenueCol, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	obs := make([]experiment.Observation, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) <= groupCol || len(row) <= revenueCol {
			continue // ragged trailing row
		}
		group, err := experiment.ParseGroup(strings.ToLower(strings.TrimSpace(row[groupCol])))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		revenue, err := strconv.ParseFloat(strings.TrimSpace(row[revenueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid revenue %q", i+2, row[revenueCol])
		}
		obs = append(obs, experiment.Observation{Group: group, Revenue: revenue})
	}
	return experiment.NewDataset(obs)
}

// detectColumns locates the group and revenue columns by header name,
// falling back to the first two columns when no known header matches.
func detectColumns(header []string) (groupCol, revenueCol int, err error) {
	groupCol, revenueCol = -1, -1
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(h))
		if groupCol < 0 && contains(groupHeaders, name) {
			groupCol = i
		}
		if revenueCol < 0 && contains(revenueHeaders, name) {
			revenueCol = i
		}
	}
	if groupCol < 0 && revenueCol < 0 && len(header) >= 2 {
		return 0, 1, nil
	}
	if groupCol < 0 || revenueCol < 0 {
		return 0, 0, fmt.Errorf("could not detect group and revenue columns in header %v", header)
	}
	return groupCol, revenueCol, nil
}

func contains(candidates []string, name string) bool {
	for _, c := range candidates {
		if c == name {
			return true
		}
	}
	return false
}
