package planner

import (
	"image"

	"github.com/backmassage/contactsheet/internal/config"
)

// GeometryFromConfig extracts the layout constants from cfg.
func GeometryFromConfig(cfg *config.Config) Geometry {
	return Geometry{
		SheetWidth:     cfg.SheetWidth,
		SheetHeight:    cfg.SheetHeight,
		Rows:           cfg.Rows,
		Cols:           cfg.Cols,
		TextAreaHeight: cfg.TextAreaHeight,
		Padding:        cfg.ThumbPadding,
	}
}

// ComputeLayout divides the area below the text band into Rows x Cols cells.
//
// The grid starts at TextAreaHeight+Padding. Available space is the canvas
// minus that offset and minus Padding around and between cells; each cell
// gets an equal share. The cell is then shrunk along one axis to match
// aspect: height for landscape (aspect > 1), width for portrait
// (aspect < 1). Square and unknown aspects keep the full share. When the
// shrunk side would still overflow its share (aspect between 1 and the
// share's own ratio), the other side is constrained instead so cells never
// overlap.
func ComputeLayout(g Geometry, aspect float64) Layout {
	gridTop := g.TextAreaHeight + g.Padding
	availH := g.SheetHeight - gridTop - g.Padding*(g.Rows+1)
	availW := g.SheetWidth - g.Padding*(g.Cols+1)

	maxW := max(availW/g.Cols, 1)
	maxH := max(availH/g.Rows, 1)
	w, h := maxW, maxH

	switch {
	case aspect > 1:
		h = int(float64(w) / aspect)
		if h > maxH {
			h = maxH
			w = int(float64(h) * aspect)
		}
	case aspect > 0 && aspect < 1:
		w = int(float64(h) * aspect)
		if w > maxW {
			w = maxW
			h = int(float64(w) / aspect)
		}
	}
	w, h = max(w, 1), max(h, 1)

	cells := make([]image.Point, 0, g.Rows*g.Cols)
	for i := 0; i < g.Rows*g.Cols; i++ {
		col, row := i%g.Cols, i/g.Cols
		cells = append(cells, image.Pt(
			col*(w+g.Padding)+g.Padding,
			row*(h+g.Padding)+gridTop,
		))
	}

	return Layout{
		CellWidth:  w,
		CellHeight: h,
		Cells:      cells,
	}
}
