package screen

import (
	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/export"
)

// dataSource holds the export callbacks the controller wires into screens
// that hand the collected answers somewhere else.
type dataSource struct {
	includeChangelog bool
	getData          func(includeChangelog bool) string
	getRawData       func(includeChangelog bool) export.Table
}

func (d *dataSource) SetGetDataCallback(fn func(includeChangelog bool) string) bool {
	if fn == nil {
		return false
	}
	d.getData = fn
	return true
}

func (d *dataSource) SetGetRawDataCallback(fn func(includeChangelog bool) export.Table) bool {
	if fn == nil {
		return false
	}
	d.getRawData = fn
	return true
}

func (d *dataSource) csv(log diag.Logger, location string) string {
	if d.getData == nil {
		log.Error(location, "no data callback set")
		return ""
	}
	return d.getData(d.includeChangelog)
}

func (d *dataSource) table(log diag.Logger, location string) export.Table {
	if d.getRawData == nil {
		log.Error(location, "no raw data callback set")
		return nil
	}
	return d.getRawData(d.includeChangelog)
}
