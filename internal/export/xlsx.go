package export

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the answers are written to.
const SheetName = "Answers"

func workbook(t Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for r, row := range t {
		values := make([]any, len(Header))
		for c := range values {
			v := cell(row, c)
			switch {
			case r == 0:
				values[c] = Text(v)
			case c == 0:
				values[c] = v
			case c == 4:
				values[c] = JSON(v)
			default:
				values[c] = Text(v)
			}
		}
		name, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(SheetName, name, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", r+1, err)
		}
	}
	return f, nil
}

// WriteXLSX writes t as a single-sheet workbook. Answers are stored as
// their JSON text, like the CSV answer column.
func WriteXLSX(t Table, w io.Writer) error {
	f, err := workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveXLSX writes t to path.
func SaveXLSX(t Table, path string) error {
	f, err := workbook(t)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// FileName builds the default export file name for a session, e.g.
// "fragebogen-20240101-120000-3f2a9c1d.csv". An empty session id is omitted.
func FileName(at time.Time, sessionID, ext string) string {
	name := "fragebogen-" + at.Format("20060102-150405")
	if len(sessionID) >= 8 {
		name += "-" + sessionID[:8]
	} else if sessionID != "" {
		name += "-" + sessionID
	}
	return filepath.Clean(name + "." + ext)
}
