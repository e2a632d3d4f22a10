package excel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"pcenrich/domain/core"
	"pcenrich/domain/enrichment"
)

// DataReader loads numeric matrices from Excel and CSV files. The first
// row is a header of variable names; every following row is one
// observation.
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader that handles both Excel and CSV files.
func NewDataReader(filePath string) *DataReader {
	fileType := "xlsx"
	if strings.ToLower(filepath.Ext(filePath)) == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadMatrix reads the file into a DataMatrix.
func (r *DataReader) ReadMatrix() (*enrichment.DataMatrix, error) {
	rows, err := r.readRows()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, core.NewConfigurationError("matrix file", "must have a header row and at least one data row")
	}

	header := rows[0]
	p := len(header)
	data := make([][]float64, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != p {
			return nil, core.NewConfigurationError("matrix file",
				fmt.Sprintf("row %d has %d cells, header has %d", i+2, len(row), p))
		}
		values := make([]float64, p)
		for j, cell := range row {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, core.NewConfigurationError("matrix file",
					fmt.Sprintf("row %d column %q: %q is not numeric", i+2, header[j], cell))
			}
			values[j] = v
		}
		data = append(data, values)
	}
	return enrichment.NewDataMatrix(data, append([]string(nil), header...))
}

func (r *DataReader) readRows() ([][]string, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}
	switch r.fileType {
	case "csv":
		f, err := os.Open(r.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer f.Close()
		reader := csv.NewReader(f)
		// Gene set rows legitimately vary in length; width checks happen
		// downstream where the expected shape is known.
		reader.FieldsPerRecord = -1
		return reader.ReadAll()
	default:
		f, err := excelize.OpenFile(r.filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open Excel file: %w", err)
		}
		defer f.Close()
		return f.GetRows(f.GetSheetName(0))
	}
}

// GeneSetReader loads gene sets from Excel or CSV files. Each row starts
// with the set name followed by member gene names, which are resolved
// against the variable names of the data matrix (GMT-style layout).
type GeneSetReader struct {
	reader *DataReader
}

// NewGeneSetReader creates a gene set reader for the given file.
func NewGeneSetReader(filePath string) *GeneSetReader {
	return &GeneSetReader{reader: NewDataReader(filePath)}
}

// ReadGeneSets reads the file and maps gene names to 0-based variable
// indexes. Unknown gene names and single-member rows are rejected.
func (r *GeneSetReader) ReadGeneSets(variableNames []string) ([]enrichment.GeneSet, error) {
	rows, err := r.reader.readRows()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(variableNames))
	for j, name := range variableNames {
		index[name] = j
	}

	sets := make([]enrichment.GeneSet, 0, len(rows))
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		name := strings.TrimSpace(row[0])
		var members []int
		for _, cell := range row[1:] {
			gene := strings.TrimSpace(cell)
			if gene == "" {
				continue
			}
			j, ok := index[gene]
			if !ok {
				return nil, core.NewConfigurationError("gene set file",
					fmt.Sprintf("row %d set %q references unknown gene %q", i+1, name, gene))
			}
			members = append(members, j)
		}
		if len(members) == 0 {
			return nil, core.NewDegenerateGroupError(name, "no member genes listed")
		}
		sets = append(sets, enrichment.GeneSet{Name: name, Members: members})
	}
	if len(sets) == 0 {
		return nil, core.NewConfigurationError("gene set file", "no gene sets found")
	}
	return sets, nil
}
