package controller

import (
	"fmt"

	"github.com/abhisek/fragebogen/internal/export"
)

// RequestDataArray collects the answers of the screens shown so far,
// from the first up to and including the current one. Each row carries
// the index of the screen it came from; string cells have their line
// breaks escaped.
func (c *Controller) RequestDataArray(includeChangelog bool) export.Table {
	c.log.Info(c.location("RequestDataArray"), "called")
	table := export.Table{append([]any(nil), export.Header...)}

	for i := 0; i <= c.current && i < len(c.screens); i++ {
		d := c.screens[i].GetData(includeChangelog)
		n := d.Len()
		if n == 0 {
			continue
		}
		if len(d.Answers) < n {
			c.log.Warn(c.location("RequestDataArray"), fmt.Sprintf("screen %d has more items than answers; filling with null", i))
		}
		for j := 0; j < n; j++ {
			row := []any{i, d.Types[j], at(d.Questions, j), at(d.Options, j), at(d.Answers, j)}
			for k := range row {
				row[k] = export.EscapeNewlines(row[k])
			}
			table = append(table, row)
		}
	}
	return table
}

// at returns s[i], nil past the end.
func at[T any](s []T, i int) any {
	if i < len(s) {
		return s[i]
	}
	return nil
}

// RequestDataCSV is RequestDataArray serialized as CSV.
func (c *Controller) RequestDataCSV(includeChangelog bool) string {
	c.log.Info(c.location("RequestDataCSV"), "called")
	return export.CSV(c.RequestDataArray(includeChangelog))
}
