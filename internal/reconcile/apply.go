package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

var (
	// ErrQueueMissing is returned for on-prem changes without a directive queue.
	ErrQueueMissing = errors.New("reconcile: on-prem directive queue not configured")
	// ErrCloudMissing is returned for cloud changes without a cloud client.
	ErrCloudMissing = errors.New("reconcile: cloud client not configured")
)

// apply writes every change independently. A failed change is logged and reported;
// it leaves the snapshot untouched so the next run finds it again.
func (s *Service) apply(ctx context.Context, r *run, u *models.DepartmentUser, changes []Change) (applied, failed int) {
	for _, c := range changes {
		logger := r.log.With().
			Str("email", u.Email).
			Str("employee_id", u.EmployeeNo()).
			Str("target", c.Target.String()).
			Str("field", c.Field).
			Str("property", c.Property).
			Logger()

		if s.opts.DryRun {
			changeEvent(logger.Info(), c).Msg("dry run, change not applied")

			continue
		}

		if err := s.write(ctx, u, c); err != nil {
			failed++

			changesTotal.WithLabelValues(c.Target.String(), c.Field, "failed").Inc()
			changeEvent(logger.Error().Err(err), c).Msg("directory change failed")
			s.notifier.Admins(ctx,
				fmt.Sprintf("Directory update failed for %s (%s)", u.Email, c.Property),
				failureReport(u, c, err),
			)

			continue
		}

		applied++

		changesTotal.WithLabelValues(c.Target.String(), c.Field, "applied").Inc()
		changeEvent(logger.Info(), c).Msg("directory change applied")

		if c.commit != nil {
			c.commit(u)
		}

		if c.Audit != nil {
			if err := s.store.AppendLog(ctx, u.ID, *c.Audit); err != nil {
				logger.Error().Err(err).Msg("failed to write audit entry")
			}
		}
	}

	r.changes.Add(int64(applied))
	r.failed.Add(int64(failed))

	return applied, failed
}

func (s *Service) write(ctx context.Context, u *models.DepartmentUser, c Change) error {
	switch c.Target {
	case TargetOnPrem:
		if s.queue == nil {
			return ErrQueueMissing
		}

		return s.queue.Enqueue(ctx, onprem.Directive{Identity: u.ADObjectGUID(), Property: c.Property, Value: c.Value})
	case TargetCloud:
		if s.cloud == nil {
			return ErrCloudMissing
		}

		if c.Manager != "" {
			return s.cloud.SetManager(ctx, u.AzureObjectID(), c.Manager)
		}

		return s.cloud.UpdateUser(ctx, u.AzureObjectID(), c.Patch)
	default:
		return fmt.Errorf("change %s has no target", c.Field)
	}
}

func changeEvent(ev *zerolog.Event, c Change) *zerolog.Event {
	switch {
	case c.Manager != "":
		return ev.Str("value", c.Manager)
	case c.Patch != nil:
		return ev.Interface("value", c.Patch)
	default:
		return ev.Interface("value", c.Value)
	}
}

// failureReport is the operator notification body of a failed change.
func failureReport(u *models.DepartmentUser, c Change, err error) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Identity: %s\n", u)
	fmt.Fprintf(&b, "Employee ID: %s\n", u.EmployeeNo())
	fmt.Fprintf(&b, "Target: %s\n", c.Target)
	fmt.Fprintf(&b, "Field: %s\n", c.Field)
	fmt.Fprintf(&b, "Property: %s\n", c.Property)

	switch {
	case c.Manager != "":
		fmt.Fprintf(&b, "Value: %s\n", c.Manager)
	case c.Patch != nil:
		fmt.Fprintf(&b, "Value: %v\n", c.Patch)
	default:
		fmt.Fprintf(&b, "Value: %v\n", c.Value)
	}

	writeError(&b, err)

	return b.String()
}

// writeError appends the error, with request and response detail for API errors.
func writeError(b *strings.Builder, err error) {
	fmt.Fprintf(b, "Error: %v\n", err)

	var apiErr *graph.APIError
	if errors.As(err, &apiErr) {
		fmt.Fprintf(b, "Request: %s %s\n", apiErr.Method, apiErr.URL)
		fmt.Fprintf(b, "Request body:\n%s\n", apiErr.RequestBody)
		fmt.Fprintf(b, "Response code: %d\n", apiErr.Status)
		fmt.Fprintf(b, "Response content:\n%s\n", apiErr.Body)

		if apiErr.Temporary() {
			b.WriteString("The API reported a temporary failure; the change is retried on the next run.\n")
		}
	}
}
