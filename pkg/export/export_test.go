package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/kilianp07/failpredict/core/model"
)

var rows = []model.Row{
	{Seq: 1, LineID: "LA01", StationID: "LA01ST1", Prediction: "will fail", Label: model.LabelFailure},
	{Seq: 2, LineID: "LA01", StationID: "LA01ST2", Prediction: "no failure"},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))
	want := "Lp.,Linia,Stacja,Predykcja awarii\n1,LA01,LA01ST1,will fail\n2,LA01,LA01ST2,no failure\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Lp.,Linia,Stacja,Predykcja awarii\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Lp.", "Linia", "Stacja", "Predykcja awarii"},
		{"1", "LA01", "LA01ST1", "will fail"},
		{"2", "LA01", "LA01ST2", "no failure"},
	}, got)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil))
	assert.JSONEq(t, "[]", buf.String())

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, rows))
	var out []model.Row
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Len(t, out, 2)
}
