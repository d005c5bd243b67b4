package model

// FileResult holds the outcome of processing a single file.
type FileResult struct {
	Path     Path
	Modified bool
	Err      error
}

// TestInfo describes one test declaration for listing purposes.
type TestInfo struct {
	Path     Path
	ID       TestID
	Variants []TestID
	Contacts []string
}

// RunSummary aggregates the outcome of a whole run across files.
type RunSummary struct {
	Scanned  int
	Matched  int
	Modified []Path
	Failed   []FileResult
}

// Merge folds another summary into this one. Used when per-directory
// results are combined after parallel processing.
func (s *RunSummary) Merge(other *RunSummary) {
	s.Scanned += other.Scanned
	s.Matched += other.Matched
	s.Modified = append(s.Modified, other.Modified...)
	s.Failed = append(s.Failed, other.Failed...)
}

// Record notes the result of one file in the summary.
func (s *RunSummary) Record(res FileResult) {
	s.Scanned++
	if res.Err != nil {
		s.Failed = append(s.Failed, res)
		return
	}
	if res.Modified {
		s.Matched++
		s.Modified = append(s.Modified, res.Path)
	}
}

// OK reports whether the run completed without any per-file failure.
func (s *RunSummary) OK() bool {
	return len(s.Failed) == 0
}
