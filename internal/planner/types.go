package planner

import "image"

// ThumbPlan is the extraction plan for one video.
type ThumbPlan struct {
	Requested  int   // thumbnails asked for (the sheet is padded back to this)
	Count      int   // thumbnails to extract after the short-video adjustment
	Timestamps []int // whole-second seek positions, len == Count
	Reduced    bool  // Count < Requested because the video is too short
}

// Geometry is the fixed canvas description the layout is computed from.
type Geometry struct {
	SheetWidth     int
	SheetHeight    int
	Rows           int
	Cols           int
	TextAreaHeight int
	Padding        int
}

// Layout is the computed grid: one cell size shared by every cell and the
// top-left origin of each cell in row-major order. len(Cells) == Rows*Cols.
type Layout struct {
	CellWidth  int
	CellHeight int
	Cells      []image.Point
}

// CellRect returns the rectangle of cell i.
func (l *Layout) CellRect(i int) image.Rectangle {
	p := l.Cells[i]
	return image.Rect(p.X, p.Y, p.X+l.CellWidth, p.Y+l.CellHeight)
}
