// Package export writes filtered prediction tables as CSV, XLSX or JSON.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/failpredict/core/model"
)

// SheetName is the single worksheet of the XLSX export.
const SheetName = "Predykcja"

// Header is the column header shared by every tabular export.
var Header = []string{"Lp.", "Linia", "Stacja", "Predykcja awarii"}

// Default download file names.
const (
	FileCSV  = "predykcja_1dzien.csv"
	FileXLSX = "predykcja_1dzien.xlsx"
	FileJSON = "predykcja_1dzien.json"
)

// WriteJSON writes the rows to w as a JSON array.
func WriteJSON(w io.Writer, rows []model.Row) error {
	if rows == nil {
		rows = []model.Row{}
	}
	return json.NewEncoder(w).Encode(rows)
}

// WriteCSV writes the rows to w as comma separated UTF-8 with a header row.
func WriteCSV(w io.Writer, rows []model.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes a workbook with a single Predykcja sheet.
func WriteXLSX(w io.Writer, rows []model.Row) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		vals := []any{r.Seq, r.LineID, r.StationID, r.Prediction}
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return err
		}
	}
	return f.Write(w)
}

func record(r model.Row) []string {
	return []string{strconv.Itoa(r.Seq), r.LineID, r.StationID, r.Prediction}
}
