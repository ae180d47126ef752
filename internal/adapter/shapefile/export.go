// Package shapefile writes locator grids and worked contacts as ESRI
// shapefiles for desktop GIS tools.
package shapefile

import (
	"fmt"
	"strconv"

	shp "github.com/jonas-p/go-shp"

	"github.com/couchcryptid/hamgrid/internal/domain"
	"github.com/couchcryptid/hamgrid/internal/maidenhead"
)

// Grid attribute columns.
var gridFields = []shp.Field{
	shp.StringField("LOCATOR", 6),
	shp.StringField("LEVEL", 9),
}

// Contact attribute columns.
var qsoFields = []shp.Field{
	shp.StringField("CALL", 16),
	shp.StringField("LOCATOR", 6),
	shp.StringField("MODE", 8),
	shp.StringField("DATE", 10),
	shp.StringField("TIME", 5),
	shp.NumberField("DXCC", 4),
	shp.FloatField("DIST_KM", 10, 1),
	shp.FloatField("BEARING", 6, 1),
}

// WriteGrid writes one closed polygon per grid cell, labelled with its
// locator and level.
func WriteGrid(path string, cells []maidenhead.GridCell) error {
	w, err := shp.Create(path, shp.POLYGON)
	if err != nil {
		return fmt.Errorf("create grid shapefile: %w", err)
	}
	defer w.Close()

	if err := w.SetFields(gridFields); err != nil {
		return fmt.Errorf("set grid fields: %w", err)
	}

	for _, cell := range cells {
		level := ""
		if p, ok := maidenhead.PrecisionOf(cell.Label); ok {
			level = p.String()
		}
		row := int(w.Write(cellPolygon(cell.Box)))
		if err := writeRow(w, gridFields, row, cell.Label, level); err != nil {
			return fmt.Errorf("write cell %s: %w", cell.Label, err)
		}
	}
	return nil
}

// WriteQsos writes one point per contact at its remote locator centre.
// Contacts without a usable locator are left out; the number written is
// returned.
func WriteQsos(path string, events []domain.QsoEvent) (int, error) {
	w, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, fmt.Errorf("create qso shapefile: %w", err)
	}
	defer w.Close()

	if err := w.SetFields(qsoFields); err != nil {
		return 0, fmt.Errorf("set qso fields: %w", err)
	}

	written := 0
	for _, e := range events {
		if e.Geo == nil {
			continue
		}
		row := int(w.Write(&shp.Point{X: e.Geo.Lon, Y: e.Geo.Lat}))
		if err := writeQsoAttributes(w, row, e); err != nil {
			return written, fmt.Errorf("write qso %s: %w", e.ID, err)
		}
		written++
	}
	return written, nil
}

func writeQsoAttributes(w *shp.Writer, row int, e domain.QsoEvent) error {
	entity := 0
	if e.Entity != nil {
		entity = e.Entity.Code
	}
	var dist, bearing float64
	if e.DistanceKm != nil {
		dist = *e.DistanceKm
	}
	if e.BearingDeg != nil {
		bearing = *e.BearingDeg
	}

	return writeRow(w, qsoFields, row,
		e.Call,
		e.Locator,
		e.Mode,
		e.Date,
		e.Time,
		strconv.Itoa(entity),
		strconv.FormatFloat(dist, 'f', 1, 64),
		strconv.FormatFloat(bearing, 'f', 1, 64),
	)
}

// writeRow fills every column of a DBF row. Values are padded with spaces to
// the column width, left-aligned for text and right-aligned for numbers,
// since the writer leaves unset bytes as NUL. Text longer than the column is
// cut.
func writeRow(w *shp.Writer, fields []shp.Field, row int, values ...string) error {
	for i, v := range values {
		size := int(fields[i].Size)
		if len(v) > size {
			v = v[:size]
		}
		if fields[i].Fieldtype == 'C' {
			v = fmt.Sprintf("%-*s", size, v)
		} else {
			v = fmt.Sprintf("%*s", size, v)
		}
		if err := w.WriteAttribute(row, i, v); err != nil {
			return err
		}
	}
	return nil
}

// cellPolygon builds a clockwise outer ring, as the shapefile format expects.
func cellPolygon(b maidenhead.BoundingBox) *shp.Polygon {
	ring := []shp.Point{
		{X: b.LonMin, Y: b.LatMin},
		{X: b.LonMin, Y: b.LatMax},
		{X: b.LonMax, Y: b.LatMax},
		{X: b.LonMax, Y: b.LatMin},
		{X: b.LonMin, Y: b.LatMin},
	}
	poly := shp.Polygon(*shp.NewPolyLine([][]shp.Point{ring}))
	return &poly
}
