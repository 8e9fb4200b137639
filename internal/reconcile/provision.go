package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/password"
)

// Outcome is the result of the provisioning gate for one employee.
type Outcome string

// Outcomes.
const (
	OutcomeProvisioned Outcome = "provisioned"
	// OutcomeSkipped is silent: the employee is not eligible.
	OutcomeSkipped Outcome = "skipped"
	// OutcomeDeferred waits for the start date to come within the configured window.
	OutcomeDeferred Outcome = "deferred"
	// OutcomeAborted stops this employee after a failed requirement or step.
	OutcomeAborted Outcome = "aborted"
)

// Result describes the provisioning of one employee.
type Result struct {
	EmployeeID string
	Outcome    Outcome
	Reason     string
	Email      string
	ObjectID   string
	Err        error
}

const dateLayoutLong = "02/Jan/2006"

// plan is everything the gate resolved for a new account.
type plan struct {
	job         *ascender.Job
	bundle      LicenceBundle
	costCentre  *models.CostCentre
	manager     *models.DepartmentUser
	location    *models.Location
	email       string
	nickname    string
	displayName string
	givenName   string
	surname     string
	title       string
	start       time.Time
	end         *time.Time
}

// provision runs the gate and, when it passes, creates the cloud account and the identity.
func (s *Service) provision(ctx context.Context, r *run, job *ascender.Job) Result {
	logger := r.log.With().Str("employee_id", job.EmployeeID).Logger()

	p, res := s.gate(ctx, r, job, logger)
	if p == nil {
		ev := logger.Debug()
		if res.Outcome == OutcomeAborted {
			ev = logger.Warn().Err(res.Err)
		}

		ev.Str("outcome", string(res.Outcome)).Str("reason", res.Reason).Msg("account not provisioned")

		return res
	}

	logger = logger.With().Str("email", p.email).Str("licence", p.bundle.Name).Logger()

	if s.opts.DryRun {
		logger.Info().Str("display_name", p.displayName).Msg("dry run, account not provisioned")

		return Result{EmployeeID: job.EmployeeID, Outcome: OutcomeSkipped, Reason: "dry run", Email: p.email}
	}

	return s.create(ctx, r, p, logger)
}

// gate checks every requirement of a new account. A nil plan comes with the reason.
func (s *Service) gate(ctx context.Context, r *run, job *ascender.Job, logger zerolog.Logger) (*plan, Result) {
	res := Result{EmployeeID: job.EmployeeID}
	stop := func(o Outcome, reason string, err error) (*plan, Result) {
		res.Outcome, res.Reason, res.Err = o, reason, err

		return nil, res
	}
	abort := func(reason string, err error) (*plan, Result) {
		s.notifier.Admins(ctx,
			fmt.Sprintf("HR sync: new account for employee %s aborted, %s", job.EmployeeID, reason),
			fmt.Sprintf("Error: %v\n\nHR record:\n%s", err, jobReport(job)),
		)

		return stop(OutcomeAborted, reason, err)
	}

	if job.Ended(r.today) {
		return stop(OutcomeSkipped, "job ended", nil)
	}

	licenceType := strings.TrimSpace(job.LicenceType)
	if licenceType == "" || strings.EqualFold(licenceType, "NULL") {
		return stop(OutcomeSkipped, "no licence type", nil)
	}

	bundle, ok := s.opts.Licences[licenceType]
	if !ok {
		return stop(OutcomeSkipped, "unrecognised licence type "+licenceType, nil)
	}

	if job.Paypoint == "" {
		return abort("no cost centre", ErrNoCostCentre)
	}

	cc, created, err := s.costCentreForPaypoint(ctx, job.Paypoint)
	if err != nil {
		return abort("cost centre unavailable", err)
	}

	if created {
		s.referenceCreated(ctx, "cost centre", job)
	}

	start, ok := job.JobStartDate.Time()
	if !ok {
		return stop(OutcomeSkipped, "no job start date", nil)
	}

	if limit := s.opts.CreateLimitDays; limit > 0 && daysUntil(r.today, start) > limit {
		return stop(OutcomeDeferred, fmt.Sprintf("starts %s, more than %d days ahead", job.JobStartDate, limit), nil)
	}

	var manager *models.DepartmentUser
	if job.ManagerEmpNo != "" {
		if manager, err = optional(s.store.UserByEmployeeID(ctx, job.ManagerEmpNo)); err != nil {
			return abort("manager lookup failed", err)
		}
	}

	if manager == nil || manager.AzureGUID == nil {
		return stop(OutcomeAborted, "manager "+job.ManagerEmpNo+" has no cloud account", nil)
	}

	if job.GeoLocationDesc == "" {
		return stop(OutcomeAborted, "no location", nil)
	}

	loc, created, err := s.locationForDesc(ctx, job.GeoLocationDesc)
	if err != nil {
		return abort("location unavailable", err)
	}

	if created {
		s.referenceCreated(ctx, "location", job)
	}

	display := displayName(job)
	candidates := emailCandidates(job, s.opts.EmailDomain)

	if display == "" || len(candidates) == 0 {
		return stop(OutcomeAborted, "invalid name values", ErrInvalidName)
	}

	email, err := s.claimEmail(ctx, r, candidates)
	if err != nil {
		return abort("no unique email address", err)
	}

	if r.inventory == nil {
		s.releaseEmail(r, email)

		return stop(OutcomeAborted, "cloud client not configured", ErrCloudMissing)
	}

	if err = r.inventory.Reserve(ctx, bundle.SkuIDs()); err != nil {
		s.releaseEmail(r, email)

		return abort("no "+bundle.Name+" licences available", err)
	}

	p := &plan{
		job:         job,
		bundle:      bundle,
		costCentre:  cc,
		manager:     manager,
		location:    loc,
		email:       email,
		nickname:    strings.SplitN(email, "@", 2)[0], //nolint:mnd
		displayName: display,
		givenName:   titleCase(job.GivenName()),
		surname:     titleCase(job.Surname),
		title:       TitleExcept(job.OccupPosTitle),
		start:       start,
	}

	if end, ok := job.JobEndDate.Time(); ok {
		p.end = &end
	}

	logger.Debug().Str("email", email).Msg("provisioning gate passed")

	return p, res
}

// daysUntil counts calendar days from today to the date of t.
func daysUntil(today, t time.Time) int {
	from := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)

	return int(to.Sub(from).Hours() / 24) //nolint:mnd
}

// claimEmail returns the first candidate neither stored nor claimed earlier in the run.
func (s *Service) claimEmail(ctx context.Context, r *run, candidates []string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range candidates {
		if _, ok := r.claimed[c]; ok {
			continue
		}

		exists, err := s.store.EmailExists(ctx, c)
		if err != nil {
			return "", err
		}

		if !exists {
			r.claimed[c] = struct{}{}

			return c, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrNoEmail, strings.Join(candidates, ", "))
}

func (s *Service) releaseEmail(r *run, email string) {
	r.mu.Lock()
	delete(r.claimed, email)
	r.mu.Unlock()
}

// create performs the provisioning steps. A failed step stops the remaining ones;
// an account already created in the cloud is left for the operators.
func (s *Service) create(ctx context.Context, r *run, p *plan, logger zerolog.Logger) Result {
	res := Result{EmployeeID: p.job.EmployeeID, Email: p.email}
	licenced := false

	fail := func(step string, err error) Result {
		if !licenced {
			r.inventory.Release(p.bundle.SkuIDs())
		}

		logger.Error().Err(err).Str("step", step).Str("guid", res.ObjectID).Msg("account provisioning failed")

		var b strings.Builder

		writeError(&b, err)
		fmt.Fprintf(&b, "Cloud object ID: %s\n\nHR record:\n%s", res.ObjectID, jobReport(p.job))

		s.notifier.Admins(ctx, fmt.Sprintf("HR sync: new account failed at %s step (%s)", step, p.email), b.String())

		res.Outcome, res.Reason, res.Err = OutcomeAborted, step+" failed", err

		return res
	}

	pw, err := password.New()
	if err != nil {
		return fail("password", err)
	}

	logger.Info().Str("display_name", p.displayName).Msg("creating cloud account")

	id, err := s.cloud.CreateUser(ctx, graph.NewUser{
		AccountEnabled:    false,
		DisplayName:       p.displayName,
		UserPrincipalName: p.email,
		MailNickname:      p.nickname,
		PasswordProfile:   graph.PasswordProfile{ForceChangePasswordNextSignIn: true, Password: pw},
	})
	if err != nil {
		return fail("initial creation", err)
	}

	res.ObjectID = id

	err = s.cloud.UpdateUser(ctx, id, map[string]any{
		"mail":           p.email,
		"employeeId":     p.job.EmployeeID,
		"givenName":      p.givenName,
		"surname":        p.surname,
		"jobTitle":       p.title,
		"companyName":    p.costCentre.Code,
		"department":     p.costCentre.Division(),
		"officeLocation": p.location.Name,
		"streetAddress":  p.location.Address,
		"state":          s.opts.Profile.State,
		"country":        s.opts.Profile.Country,
		"usageLocation":  s.opts.Profile.UsageLocation,
	})
	if err != nil {
		return fail("update", err)
	}

	if err = s.cloud.SetManager(ctx, id, p.manager.AzureObjectID()); err != nil {
		return fail("assign manager", err)
	}

	if err = s.cloud.AssignLicences(ctx, id, p.bundle.Licences); err != nil {
		return fail("assign licence", err)
	}

	licenced = true

	s.notifier.Admins(ctx, fmt.Sprintf("HR sync: new cloud account created from HR data (%s)", p.email), s.createdReport(p, id))

	now := s.now()
	cached := *p.job
	u := &models.DepartmentUser{
		Active:              false,
		AzureGUID:           models.Ptr(id),
		Email:               p.email,
		Name:                p.displayName,
		GivenName:           p.givenName,
		Surname:             p.surname,
		Title:               p.title,
		EmployeeID:          models.Ptr(p.job.EmployeeID),
		AscenderData:        &cached,
		AscenderDataUpdated: &now,
	}
	u.SetCostCentre(p.costCentre)
	u.SetLocation(p.location)
	u.SetManager(p.manager)

	if err = s.store.SaveUser(ctx, u); err != nil {
		return fail("local identity", err)
	}

	if err = s.store.AppendLog(ctx, u.ID, models.LogEntry{
		Field:       "azure_guid",
		OldValue:    nil,
		NewValue:    id,
		Description: "Provisioned cloud account from Ascender",
	}); err != nil {
		logger.Error().Err(err).Msg("failed to write audit entry")
	}

	logger.Info().Str("guid", id).Uint64("id", u.ID).Msg("provisioned identity")

	s.notifier.Manager(ctx, p.manager.Email, "New user account creation details - "+u.Name, s.managerReport(p, u))
	logger.Info().Str("manager", p.manager.Email).Msg("emailed manager about new account")

	res.Outcome = OutcomeProvisioned

	return res
}

func (s *Service) createdReport(p *plan, id string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Cloud object ID: %s\n", id)
	fmt.Fprintf(&b, "Employee ID: %s\n", p.job.EmployeeID)
	fmt.Fprintf(&b, "Email: %s\n", p.email)
	fmt.Fprintf(&b, "Mail nickname: %s\n", p.nickname)
	fmt.Fprintf(&b, "Display name: %s\n", p.displayName)
	fmt.Fprintf(&b, "Title: %s\n", p.title)
	fmt.Fprintf(&b, "Cost centre: %s\n", p.costCentre.Code)
	fmt.Fprintf(&b, "Division: %s\n", p.costCentre.Division())
	fmt.Fprintf(&b, "Licence: %s\n", p.bundle.Name)
	fmt.Fprintf(&b, "Manager: %s\n", p.manager)
	fmt.Fprintf(&b, "Location: %s\n", p.location.Name)
	fmt.Fprintf(&b, "Job start date: %s\n\n", p.start.Format(dateLayoutLong))
	fmt.Fprintf(&b, "HR record:\n%s", jobReport(p.job))

	return b.String()
}

func (s *Service) managerReport(p *plan, u *models.DepartmentUser) string {
	var orgUnit, end, ccManager string

	if path := p.job.OrgPath(); len(path) > 1 {
		orgUnit = path[1]
	}

	if p.end != nil {
		end = p.end.Format(dateLayoutLong)
	}

	if p.costCentre.Manager != nil {
		ccManager = p.costCentre.Manager.Name
	}

	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", p.manager.GivenName)
	b.WriteString("This is an automated email to confirm that a new user account has been created, " +
		"using the information that was provided in Ascender. The details are:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", u.Name)
	fmt.Fprintf(&b, "Employee ID: %s\n", u.EmployeeNo())
	fmt.Fprintf(&b, "Email: %s\n", u.Email)
	fmt.Fprintf(&b, "Title: %s\n", u.Title)
	fmt.Fprintf(&b, "Position number: %s\n", p.job.PositionNo)
	fmt.Fprintf(&b, "Cost centre: %s\n", p.costCentre.Code)
	fmt.Fprintf(&b, "Division: %s\n", p.costCentre.Division())
	fmt.Fprintf(&b, "Organisational unit: %s\n", orgUnit)
	fmt.Fprintf(&b, "Employment status: %s\n", p.job.EmploymentStatus())
	fmt.Fprintf(&b, "M365 licence: %s\n", p.bundle.Name)
	fmt.Fprintf(&b, "Manager: %s\n", p.manager.Name)
	fmt.Fprintf(&b, "Location: %s\n", p.location.Name)
	fmt.Fprintf(&b, "Job start date: %s\n", p.start.Format(dateLayoutLong))
	fmt.Fprintf(&b, "Job end date: %s\n", end)
	fmt.Fprintf(&b, "Cost centre manager: %s\n\n", ccManager)
	b.WriteString("The Service Desk will now complete the new account and provide you with confirmation " +
		"and instructions for the new user.\n\nRegards,\n\nService Desk\n")

	return b.String()
}

// jobReport renders an HR record for notifications.
func jobReport(job *ascender.Job) string {
	b, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", *job)
	}

	return string(b)
}

