package pipeline

// RunStats tracks aggregate counters and byte totals across a batch run.
type RunStats struct {
	Total         int   // videos discovered
	Current       int   // videos started (1-based index of the last one)
	Generated     int   // sheets written (or planned, in dry-run)
	Failed        int   // videos whose sheet could not be written
	MissingThumbs int   // thumbnails that timed out or produced no file
	OutputBytes   int64 // total size of the sheets written
}

// Interrupted reports whether the batch stopped before reaching every video.
func (s *RunStats) Interrupted() bool {
	return s.Generated+s.Failed < s.Total
}
