package ascender

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// Source yields raw HR rows ordered by employee number.
type Source interface {
	Rows(ctx context.Context, fn func(values []any) error) error
}

// Stats summarises one streaming pass over the feed.
type Stats struct {
	Rows      int
	Malformed int
	Employees int
}

// EmployeeFunc receives each employee's ranked jobs. Returning an error stops the feed.
type EmployeeFunc func(employeeID string, jobs JobSet) error

// Employees streams the feed grouped by employee, ranking every group before handing it to fn.
// Malformed rows are logged and skipped.
func Employees(ctx context.Context, src Source, today time.Time, fn EmployeeFunc) (Stats, error) {
	var (
		stats   Stats
		current string
		jobs    []Job
	)

	flush := func() error {
		if len(jobs) == 0 {
			return nil
		}

		Rank(jobs, today)
		stats.Employees++

		set := JobSet(jobs)
		jobs = nil

		return fn(current, set)
	}

	err := src.Rows(ctx, func(values []any) error {
		stats.Rows++

		job, err := Normalize(stats.Rows, values)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				stats.Malformed++
				log.Warn().Err(err).Int("row", stats.Rows).Str("column", pe.Column).Msg("skipping malformed HR row")

				return nil
			}

			return err
		}

		if job.EmployeeID != current {
			if err := flush(); err != nil {
				return err
			}

			current = job.EmployeeID
		}

		jobs = append(jobs, job)

		return nil
	})
	if err != nil {
		return stats, err
	}

	return stats, flush()
}

// SliceSource serves rows from memory.
type SliceSource [][]any

// Rows implements Source.
func (s SliceSource) Rows(ctx context.Context, fn func(values []any) error) error {
	for _, row := range s {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := fn(row); err != nil {
			return err
		}
	}

	return nil
}
