package reconcile

import (
	"context"
	"fmt"
)

// RunCostCentreManagers sets the manager of each cost centre from the HR view.
func (s *Service) RunCostCentreManagers(ctx context.Context) (Summary, error) {
	if s.ccManagers == nil {
		return Summary{Pass: PassCCManagers}, fmt.Errorf("%s: %w", PassCCManagers, ErrSourceMissing)
	}

	s.passMu.Lock()
	defer s.passMu.Unlock()

	r := s.begin(PassCCManagers)

	rows, err := s.ccManagers.CostCentreManagers(ctx)
	if err != nil {
		return s.finish(ctx, r, err), err
	}

	r.records.Store(int64(len(rows)))

	for _, row := range rows {
		logger := r.log.With().Str("paypoint", row.Paypoint).Str("employee_id", row.EmployeeID).Logger()

		cc, err := optional(s.store.CostCentreByAscenderCode(ctx, row.Paypoint))
		if err != nil {
			r.failed.Add(1)
			logger.Error().Err(err).Msg("cost centre lookup failed")

			continue
		}

		manager, err := optional(s.store.UserByEmployeeID(ctx, row.EmployeeID))
		if err != nil {
			r.failed.Add(1)
			logger.Error().Err(err).Msg("manager lookup failed")

			continue
		}

		if cc == nil || manager == nil {
			r.skipped.Add(1)

			continue
		}

		if cc.ManagerUserID != nil && *cc.ManagerUserID == manager.ID {
			continue
		}

		cc.ManagerUserID = &manager.ID
		cc.Manager = manager
		r.updated.Add(1)
		logger.Info().Str("cost_centre", cc.Code).Str("manager", manager.Email).Msg("cost centre manager updated")

		if s.opts.DryRun {
			continue
		}

		if err = s.store.SaveCostCentre(ctx, cc); err != nil {
			r.failed.Add(1)
			logger.Error().Err(err).Msg("failed to save cost centre")
		}
	}

	return s.finish(ctx, r, nil), nil
}
