package site

import (
	"errors"
	"sort"
	"time"
)

type Status int

const (
	StatusWritten Status = iota
	StatusUnchanged
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// FileResult is the outcome for one output file.
type FileResult struct {
	Path   string
	PageID string
	Title  string
	Status Status
	Bytes  int
	Err    error
}

// Report summarizes a build.
type Report struct {
	OutDir   string
	Files    []FileResult
	Duration time.Duration
}

// Count returns the number of files with status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

// Errors joins the errors of every failed file, or returns nil.
func (r *Report) Errors() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errors.Join(errs...)
}

// sort orders files by path with the index first.
func (r *Report) sort() {
	sort.SliceStable(r.Files, func(i, j int) bool {
		a, b := r.Files[i], r.Files[j]
		if (a.PageID == "") != (b.PageID == "") {
			return a.PageID == ""
		}
		return a.Path < b.Path
	})
}
