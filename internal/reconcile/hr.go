package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/db/models"
)

// RunAscender imports the HR feed. Each employee's current job updates the linked
// identity, which is then diffed against its directory snapshot. Employees without an
// identity go through the provisioning gate when CreateCloudAccounts is set.
func (s *Service) RunAscender(ctx context.Context) (Summary, error) {
	if s.hr == nil {
		return Summary{Pass: PassAscender}, fmt.Errorf("%s: %w", PassAscender, ErrSourceMissing)
	}

	s.passMu.Lock()
	defer s.passMu.Unlock()

	r := s.begin(PassAscender)
	if s.cloud != nil {
		r.inventory = NewInventory(s.cloud)
	}

	r.log.Info().Int("workers", s.opts.Workers).Bool("provisioning", s.opts.CreateCloudAccounts).
		Msg("sync pass started")

	var g errgroup.Group

	g.SetLimit(s.opts.Workers)

	stats, err := ascender.Employees(ctx, s.hr, r.today, func(_ string, jobs ascender.JobSet) error {
		job := jobs.Current()

		g.Go(func() error {
			s.employee(ctx, r, &job)

			return nil
		})

		return nil
	})

	if werr := g.Wait(); err == nil {
		err = werr
	}

	r.records.Store(int64(stats.Employees))
	r.malformed.Store(int64(stats.Malformed))

	return s.finish(ctx, r, err), err
}

// employee handles one employee. Every failure stays within this employee.
func (s *Service) employee(ctx context.Context, r *run, job *ascender.Job) {
	lc := r.log.With().Str("employee_id", job.EmployeeID).Str("name", job.FullName())
	if end, ok := job.ExtendedLeaveEnd(); ok {
		lc = lc.Time("extended_leave_end", end)
	}

	logger := lc.Logger()

	if slices.Contains(s.opts.ExcludeCLevel1, job.CLevel1ID) {
		logger.Debug().Str("clevel1_id", job.CLevel1ID).Msg("organisation excluded")
		r.skipped.Add(1)

		return
	}

	u, err := s.store.UserByEmployeeID(ctx, job.EmployeeID)

	switch {
	case err == nil:
		if err = s.syncEmployee(ctx, r, u, job); err != nil {
			r.failed.Add(1)
			logger.Error().Err(err).Str("email", u.Email).Msg("failed to sync employee")
			s.notifier.Admins(ctx,
				fmt.Sprintf("HR sync failed for %s", u.Email),
				fmt.Sprintf("Employee ID: %s\nError: %v\n", job.EmployeeID, err),
			)
		}
	case errors.Is(err, models.ErrNotFound):
		if !s.opts.CreateCloudAccounts {
			r.skipped.Add(1)

			return
		}

		res := s.provision(ctx, r, job)
		r.outcome(res.Outcome)

		if res.Outcome == OutcomeProvisioned {
			r.created.Add(1)
		}
	default:
		r.failed.Add(1)
		logger.Error().Err(err).Msg("failed to look up identity")
	}
}

// syncEmployee refreshes the HR cache of u, applies the HR fields and pushes the
// resulting differences to the directory owning the account.
func (s *Service) syncEmployee(ctx context.Context, r *run, u *models.DepartmentUser, job *ascender.Job) error {
	var entries []models.LogEntry

	if u.AscenderData != nil && u.AscenderData.PositionNo != job.PositionNo {
		entries = append(entries, models.LogEntry{
			Field:       "position_no",
			OldValue:    u.AscenderData.PositionNo,
			NewValue:    job.PositionNo,
			Description: "Update position_no value from Ascender",
		})
	}

	cached := *job
	now := s.now()
	u.AscenderData = &cached
	u.AscenderDataUpdated = &now

	hrEntries, err := s.ApplyHR(ctx, u, job)
	if err != nil {
		return err
	}

	entries = append(entries, hrEntries...)

	changes := Resolve(Input{
		User:              u,
		Today:             r.today,
		Location:          s.loc,
		DeactivateExpired: s.opts.DeactivateExpired,
	})

	applied, _ := s.apply(ctx, r, u, changes)

	for _, e := range entries {
		r.log.Info().Str("employee_id", job.EmployeeID).Str("email", u.Email).Str("field", e.Field).
			Interface("old", e.OldValue).Interface("new", e.NewValue).Msg(e.Description)
	}

	if len(entries) > 0 || applied > 0 {
		r.updated.Add(1)
	}

	if s.opts.DryRun {
		return nil
	}

	for _, e := range entries {
		if err = s.store.AppendLog(ctx, u.ID, e); err != nil {
			return fmt.Errorf("write audit entry: %w", err)
		}
	}

	return s.store.SaveUser(ctx, u)
}

// ApplyHR copies the HR authoritative fields of job onto u and returns one audit entry
// per changed field. Names and titles compare case-insensitively. Unknown cost centres
// and locations are created.
func (s *Service) ApplyHR(ctx context.Context, u *models.DepartmentUser, job *ascender.Job) ([]models.LogEntry, error) {
	var entries []models.LogEntry

	add := func(field string, oldValue, newValue any, description string) {
		entries = append(entries, models.LogEntry{
			Field: field, OldValue: oldValue, NewValue: newValue, Description: description,
		})
	}

	if given := job.GivenName(); given != "" && !strings.EqualFold(given, u.GivenName) {
		first := titleCase(given)
		add("given_name", u.GivenName, first, "Update given_name value from Ascender")
		u.GivenName = first
		u.Name = first + " " + u.Surname
	}

	if job.Surname != "" && !strings.EqualFold(job.Surname, u.Surname) {
		surname := titleCase(job.Surname)
		add("surname", u.Surname, surname, "Update surname value from Ascender")
		u.Surname = surname
		u.Name = u.GivenName + " " + surname
	}

	if job.PreferredName != "" && !strings.EqualFold(job.PreferredName, u.PreferredName) {
		preferred := titleCase(job.PreferredName)
		add("preferred_name", u.PreferredName, preferred, "Update preferred_name value from Ascender")
		u.PreferredName = preferred
	}

	if err := s.hrCostCentre(ctx, u, job, add); err != nil {
		return entries, err
	}

	if job.ManagerEmpNo != "" {
		manager, err := optional(s.store.UserByEmployeeID(ctx, job.ManagerEmpNo))
		if err != nil {
			return entries, fmt.Errorf("look up manager %s: %w", job.ManagerEmpNo, err)
		}

		if manager != nil && manager.ID != u.ID && (u.ManagerID == nil || *u.ManagerID != manager.ID) {
			if u.Manager != nil {
				add("manager", u.Manager.Email, manager.Email, "Update manager value from Ascender")
			} else {
				add("manager", nil, manager.Email, "Set manager value from Ascender")
			}

			u.SetManager(manager)
		}
	}

	if job.GeoLocationDesc != "" {
		loc, created, err := s.locationForDesc(ctx, job.GeoLocationDesc)
		if err != nil {
			return entries, err
		}

		if created {
			s.referenceCreated(ctx, "location", job)
		}

		if u.LocationID == nil || *u.LocationID != loc.ID || u.Location == nil {
			if u.Location != nil {
				add("location", u.Location.Name, loc.Name, "Update location value from Ascender")
			} else {
				add("location", nil, loc.Name, "Set location value from Ascender")
			}

			u.SetLocation(loc)
		}
	}

	if path := job.OrgPath(); len(path) > 0 {
		ou, err := optional(s.store.OrgUnitByName(ctx, path[len(path)-1]))
		if err != nil {
			return entries, fmt.Errorf("look up org unit: %w", err)
		}

		if ou != nil && (u.OrgUnitID == nil || *u.OrgUnitID != ou.ID) {
			var old any
			if u.OrgUnit != nil {
				old = u.OrgUnit.Name
			}

			add("org_unit", old, ou.Name, "Update org unit value from Ascender")
			u.SetOrgUnit(ou)
		}
	}

	if job.OccupPosTitle != "" {
		if title := TitleExcept(job.OccupPosTitle); !strings.EqualFold(title, u.Title) {
			add("title", u.Title, title, "Update title value from Ascender")
			u.Title = title
		}
	}

	return entries, nil
}

func (s *Service) hrCostCentre(
	ctx context.Context, u *models.DepartmentUser, job *ascender.Job,
	add func(field string, oldValue, newValue any, description string),
) error {
	if job.Paypoint == "" {
		return nil
	}

	cc, created, err := s.costCentreForPaypoint(ctx, job.Paypoint)
	if err != nil {
		return err
	}

	if created {
		s.referenceCreated(ctx, "cost centre", job)
	}

	if u.CostCentreID != nil && *u.CostCentreID == cc.ID && u.CostCentre != nil {
		return nil
	}

	if u.CostCentre != nil {
		var old any
		if u.CostCentre.AscenderCode != nil {
			old = *u.CostCentre.AscenderCode
		}

		add("paypoint", old, job.Paypoint, "Update CC value from Ascender")
	} else {
		add("paypoint", nil, job.Paypoint, "Set CC value from Ascender")
	}

	u.SetCostCentre(cc)

	return nil
}

// referenceCreated warns the operators about reference data created from the HR feed.
func (s *Service) referenceCreated(ctx context.Context, kind string, job *ascender.Job) {
	value := job.Paypoint
	if kind == "location" {
		value = job.GeoLocationDesc
	}

	log.Warn().Str("employee_id", job.EmployeeID).Str(strings.ReplaceAll(kind, " ", "_"), value).
		Msgf("%s not present locally, created it", kind)

	s.notifier.Admins(ctx,
		fmt.Sprintf("HR sync created new %s %s", kind, value),
		"HR record:\n"+jobReport(job),
	)
}
