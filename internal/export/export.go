// Package export flattens collected answers into a table and serializes it.
package export

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// Header is the first row of every exported table.
var Header = []any{"Screen index", "Type of item", "Question", "Answer options", "Answer"}

// Table is a header row followed by one row per answerable item.
// Every row has the five columns of Header.
type Table [][]any

// Rows returns the records without the header row.
func (t Table) Rows() [][]any {
	if len(t) == 0 {
		return nil
	}
	return t[1:]
}

// EscapeNewlines replaces line breaks in string cells with the two
// characters `\n`. Other values are returned unchanged.
func EscapeNewlines(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	return strings.ReplaceAll(s, "\n", `\n`)
}

// CSV serializes t. The first four columns are quoted, the answer column
// is JSON; every row ends with a newline.
func CSV(t Table) string {
	var b strings.Builder
	for _, row := range t {
		for col := 0; col < 4; col++ {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(Text(cell(row, col)), `"`, `""`))
			b.WriteString(`",`)
		}
		b.WriteString(JSON(cell(row, 4)))
		b.WriteByte('\n')
	}
	return b.String()
}

// Text renders a cell for a quoted column. Lists are comma-joined.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case []string:
		return strings.Join(v, ",")
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = Text(p)
		}
		return strings.Join(parts, ",")
	}
	rv := reflect.ValueOf(v)
	if k := rv.Kind(); k == reflect.Slice || k == reflect.Array {
		parts := make([]string, rv.Len())
		for i := range parts {
			parts[i] = Text(rv.Index(i).Interface())
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}

// JSON encodes v; values that cannot be encoded become null.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "null"
	}
	return string(b)
}

func cell(row []any, i int) any {
	if i < len(row) {
		return row[i]
	}
	return nil
}
