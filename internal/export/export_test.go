package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sample() Table {
	return Table{
		Header,
		{0, "TextLine", "Name?", nil, "A"},
		{0, "DefinedOne", "Pick", []string{"x", "y"}, "B"},
		{2, "Range", `Say "hi"`, "1-5", nil},
	}
}

func TestCSV(t *testing.T) {
	want := `"Screen index","Type of item","Question","Answer options","Answer"` + "\n" +
		`"0","TextLine","Name?","","A"` + "\n" +
		`"0","DefinedOne","Pick","x,y","B"` + "\n" +
		`"2","Range","Say ""hi""","1-5",null` + "\n"
	assert.Equal(t, want, CSV(sample()))
}

func TestCSVAnswerIsJSON(t *testing.T) {
	csv := CSV(Table{{1, "Media", "q", nil, []any{[]string{"a.wav"}, 3.5}}})
	assert.Equal(t, `"1","Media","q","",[["a.wav"],3.5]`+"\n", csv)
}

func TestCSVJoinsTypedLists(t *testing.T) {
	csv := CSV(Table{
		{0, "Range", "How much?", []int{1, 5}, 3},
		{0, "Scale", "Rate", [2]float64{0.5, 1}, nil},
	})
	assert.Equal(t, `"0","Range","How much?","1,5",3`+"\n"+
		`"0","Scale","Rate","0.5,1",null`+"\n", csv)
}

func TestEscapeNewlines(t *testing.T) {
	assert.Equal(t, `line1\nline2`, EscapeNewlines("line1\nline2"))
	assert.Equal(t, 3, EscapeNewlines(3))
	assert.Nil(t, EscapeNewlines(nil))
}

func TestRows(t *testing.T) {
	assert.Len(t, sample().Rows(), 3)
	assert.Nil(t, Table{}.Rows())
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(sample(), &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Screen index", "Type of item", "Question", "Answer options", "Answer"}, rows[0])
	assert.Equal(t, []string{"0", "DefinedOne", "Pick", "x,y", `"B"`}, rows[2])
	assert.Equal(t, "null", rows[3][4])
}

func TestXLSXJoinsTypedLists(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(Table{Header, {0, "Range", "How much?", []int{1, 5}, 3}}, &buf))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetName, "D2")
	require.NoError(t, err)
	assert.Equal(t, "1,5", v)
}

func TestSaveXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, SaveXLSX(sample(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue(SheetName, "C2")
	require.NoError(t, err)
	assert.Equal(t, "Name?", v)
}

func TestFileName(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "fragebogen-20240101-120000-3f2a9c1d.csv", FileName(at, "3f2a9c1d-0000-4000-8000-000000000000", "csv"))
	assert.Equal(t, "fragebogen-20240101-120000.xlsx", FileName(at, "", "xlsx"))
}
