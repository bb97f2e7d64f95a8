package relnotes

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/sync/errgroup"
)

// Section is one titled list of release note entries
type Section struct {
	Title   string
	Entries []string
}

type Report struct {
	Sections []Section
}

func (r *Report) Write(w io.Writer) (err error) {
	for _, s := range r.Sections {
		if _, err = fmt.Fprintf(w, "\n%s\n\n", s.Title); err != nil {
			return
		}
		for _, e := range s.Entries {
			if _, err = fmt.Fprintln(w, e); err != nil {
				return
			}
		}
	}
	return
}

// ParseCutoff reads a release date given as YYYYMMDD
func ParseCutoff(date string) (time.Time, error) {
	t, err := time.Parse("20060102", date)
	if err != nil {
		return time.Time{}, fmt.Errorf("release date %q is not YYYYMMDD: %w", date, err)
	}
	return t, nil
}

func cutoffString(cutoff time.Time) string { return cutoff.Format("January 02 2006") }

// after compares the calendar date of t, in its own zone, with the cutoff
func after(t *time.Time, cutoff time.Time) bool {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).After(cutoff)
}

// sectionFunc fills in the entries of one section
type sectionFunc func(ctx context.Context) ([]string, error)

// buildReport runs the section queries concurrently and keeps their order
func buildReport(ctx context.Context, titles []string, fns []sectionFunc) (r *Report, err error) {
	r = &Report{Sections: make([]Section, len(fns))}
	eg, egCtx := errgroup.WithContext(ctx)
	for i, fn := range fns {
		r.Sections[i].Title = titles[i]
		eg.Go(func() (err error) {
			r.Sections[i].Entries, err = fn(egCtx)
			return
		})
	}
	if err = eg.Wait(); err != nil {
		return nil, err
	}
	return
}
