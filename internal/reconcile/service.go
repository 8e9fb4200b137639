package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/itassets/identity-sync/internal/ascender"
	"github.com/itassets/identity-sync/internal/logger"
	"github.com/itassets/identity-sync/internal/notify"
	"github.com/itassets/identity-sync/internal/onprem"
)

// Pass names.
const (
	PassAscender   = "ascender"
	PassCloud      = "cloud"
	PassOnPrem     = "onprem"
	PassCCManagers = "ccmanagers"
)

// SummarySettingPrefix prefixes the setting each pass stores its summary under.
const SummarySettingPrefix = "sync.summary."

// Deps are the collaborators of a Service. Only Store is required; a pass whose
// source is missing returns ErrSourceMissing.
type Deps struct {
	Store      Store
	HR         ascender.Source
	CCManagers CostCentreManagers
	Cloud      Cloud
	OnPrem     OnPremDirectory
	Queue      onprem.Queue
	Notifier   Notifier
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service runs the sync passes.
type Service struct {
	opts       Options
	loc        *time.Location
	store      Store
	hr         ascender.Source
	ccManagers CostCentreManagers
	cloud      Cloud
	onprem     OnPremDirectory
	queue      onprem.Queue
	notifier   Notifier
	now        func() time.Time

	// refMu serialises get-or-create of cost centres and locations.
	refMu sync.Mutex
	// passMu keeps passes from overlapping.
	passMu sync.Mutex
}

// New returns a Service.
func New(opts Options, deps Deps) (*Service, error) {
	if deps.Store == nil {
		return nil, ErrStoreNil
	}

	s := &Service{
		opts:       opts.withDefaults(),
		store:      deps.Store,
		hr:         deps.HR,
		ccManagers: deps.CCManagers,
		cloud:      deps.Cloud,
		onprem:     deps.OnPrem,
		queue:      deps.Queue,
		notifier:   deps.Notifier,
		now:        deps.Now,
	}

	s.loc = s.opts.location()

	// Dry runs log their notifications instead of sending them.
	if s.notifier == nil || s.opts.DryRun {
		s.notifier = notify.NewSink(nil, "", notify.LogSender{})
	}

	if s.now == nil {
		s.now = time.Now
	}

	return s, nil
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

// Summary reports the result of one pass.
type Summary struct {
	Pass         string          `json:"pass"`
	Started      time.Time       `json:"started"`
	Finished     time.Time       `json:"finished"`
	DryRun       bool            `json:"dry_run"`
	Records      int             `json:"records"`
	Malformed    int             `json:"malformed,omitempty"`
	Updated      int             `json:"updated"`
	Created      int             `json:"created"`
	Linked       int             `json:"linked,omitempty"`
	Unlinked     int             `json:"unlinked,omitempty"`
	Skipped      int             `json:"skipped"`
	Changes      int             `json:"changes"`
	Failed       int             `json:"failed"`
	Provisioning map[Outcome]int `json:"provisioning,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// run is the state of one pass.
type run struct {
	pass  string
	start time.Time
	today time.Time
	log   zerolog.Logger

	records, updated, created, linked, unlinked atomic.Int64
	skipped, changes, failed, malformed         atomic.Int64

	mu        sync.Mutex
	outcomes  map[Outcome]int
	claimed   map[string]struct{}
	inventory *Inventory
}

func (s *Service) begin(pass string) *run {
	now := s.now()

	return &run{
		pass:     pass,
		start:    now,
		today:    s.day(now),
		log:      logger.Pass(pass).With().Bool("dry_run", s.opts.DryRun).Logger(),
		outcomes: map[Outcome]int{},
		claimed:  map[string]struct{}{},
	}
}

// day returns midnight of t's calendar day in the configured zone.
func (s *Service) day(t time.Time) time.Time {
	y, m, d := t.In(s.loc).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func (r *run) outcome(o Outcome) {
	r.mu.Lock()
	r.outcomes[o]++
	r.mu.Unlock()

	provisioningTotal.WithLabelValues(string(o)).Inc()
}

// finish logs the summary and, outside dry runs, stores it as a setting.
func (s *Service) finish(ctx context.Context, r *run, err error) Summary {
	sum := Summary{
		Pass:      r.pass,
		Started:   r.start,
		Finished:  s.now(),
		DryRun:    s.opts.DryRun,
		Records:   int(r.records.Load()),
		Updated:   int(r.updated.Load()),
		Created:   int(r.created.Load()),
		Linked:    int(r.linked.Load()),
		Unlinked:  int(r.unlinked.Load()),
		Skipped:   int(r.skipped.Load()),
		Changes:   int(r.changes.Load()),
		Failed:    int(r.failed.Load()),
		Malformed: int(r.malformed.Load()),
	}

	r.mu.Lock()
	if len(r.outcomes) > 0 {
		sum.Provisioning = make(map[Outcome]int, len(r.outcomes))
		for k, v := range r.outcomes {
			sum.Provisioning[k] = v
		}
	}
	r.mu.Unlock()

	passDuration.WithLabelValues(r.pass).Observe(sum.Finished.Sub(sum.Started).Seconds())

	ev := r.log.Info()
	if err != nil {
		sum.Error = err.Error()
		ev = r.log.Error().Err(err)
	} else {
		passLastSuccess.WithLabelValues(r.pass).SetToCurrentTime()
	}

	ev.Int("records", sum.Records).Int("updated", sum.Updated).Int("created", sum.Created).
		Int("skipped", sum.Skipped).Int("changes", sum.Changes).Int("failed", sum.Failed).
		Dur("took", sum.Finished.Sub(sum.Started)).Msg("sync pass finished")

	if !s.opts.DryRun {
		if serr := s.store.SaveSetting(ctx, SummarySettingPrefix+r.pass, sum); serr != nil {
			r.log.Error().Err(serr).Msg("failed to store pass summary")
		}
	}

	return sum
}

// RunAll runs every configured pass: the on-prem snapshot, the cloud accounts, the HR
// feed and finally the cost centre managers. A failing pass does not stop the others.
func (s *Service) RunAll(ctx context.Context) ([]Summary, error) {
	type pass struct {
		configured bool
		fn         func(context.Context) (Summary, error)
	}

	passes := []pass{
		{s.onprem != nil, s.RunOnPrem},
		{s.cloud != nil, s.RunCloud},
		{s.hr != nil, s.RunAscender},
		{s.ccManagers != nil, s.RunCostCentreManagers},
	}

	var (
		out  []Summary
		errs []error
	)

	for _, p := range passes {
		if !p.configured {
			continue
		}

		sum, err := p.fn(ctx)
		out = append(out, sum)

		if err != nil {
			errs = append(errs, err)
		}

		if ctx.Err() != nil {
			break
		}
	}

	return out, errors.Join(errs...)
}
