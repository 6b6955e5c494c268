package etl

import "time"

// Stats accumulates counters for one ingestion run.
type Stats struct {
	RunID string

	FilesFound     int
	FilesProcessed int
	FilesSkipped   int

	RowsRead     int
	RowsIngested int
	RowsSkipped  map[string]int

	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
}

// NewStats creates an empty Stats for the given run id.
func NewStats(runID string) *Stats {
	return &Stats{
		RunID:       runID,
		StartTime:   time.Now(),
		RowsSkipped: make(map[string]int),
	}
}

// TotalSkipped sums skipped rows across all reasons.
func (s *Stats) TotalSkipped() int {
	var n int
	for _, v := range s.RowsSkipped {
		n += v
	}
	return n
}

func (s *Stats) finish() {
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
}
