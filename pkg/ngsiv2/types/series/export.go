package series

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table renders the series as a header row followed by one row per index
// entry. The first column holds the time index, the remaining columns the
// attribute values in series order. Columns shorter than the index render
// as empty cells, since query results are passed through unvalidated.
func (s *EntitySeries) Table() [][]string {
	header := append([]string{"index"}, s.names...)
	table := make([][]string, 0, len(s.index)+1)
	table = append(table, header)

	for i, timestamp := range s.index {
		row := make([]string, 0, len(header))
		row = append(row, timestamp.Format(time.RFC3339Nano))

		for _, name := range s.names {
			values := s.columns[name]
			if i < len(values) {
				row = append(row, cellString(values[i]))
			} else {
				row = append(row, "")
			}
		}

		table = append(table, row)
	}

	return table
}

// WriteCSV writes the series table to w in CSV format
func (s *EntitySeries) WriteCSV(w io.Writer) error {
	return csv.NewWriter(w).WriteAll(s.Table())
}

// WriteXLSX writes the series table to w as a spreadsheet with a single
// sheet named {entityType}Series
func (s *EntitySeries) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := s.entityType + "Series"
	f.SetSheetName("Sheet1", sheet)

	for rowIdx, row := range s.Table() {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return err
			}

			err = f.SetCellValue(sheet, cell, value)
			if err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func cellString(value any) string {
	switch typedValue := value.(type) {
	case nil:
		return ""
	case string:
		return typedValue
	case float64:
		return strconv.FormatFloat(typedValue, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(typedValue)
	default:
		return fmt.Sprintf("%v", typedValue)
	}
}
