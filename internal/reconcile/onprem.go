package reconcile

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/onprem"
)

// RunOnPrem stores the on-prem directory snapshot on linked identities. Unlinked
// accounts are linked by email when the identity has no on-prem account yet.
func (s *Service) RunOnPrem(ctx context.Context) (Summary, error) {
	if s.onprem == nil {
		return Summary{Pass: PassOnPrem}, fmt.Errorf("%s: %w", PassOnPrem, ErrSourceMissing)
	}

	s.passMu.Lock()
	defer s.passMu.Unlock()

	r := s.begin(PassOnPrem)

	snapshot, err := s.onprem.Users(ctx)
	if err != nil {
		return s.finish(ctx, r, err), err
	}

	users, err := s.store.Users(ctx)
	if err != nil {
		return s.finish(ctx, r, err), err
	}

	r.records.Store(int64(len(snapshot)))
	matched := make(map[string]struct{}, len(users))

	for i := range users {
		u := &users[i]
		if u.ADGUID == nil {
			continue
		}

		ad, ok := snapshot[*u.ADGUID]
		if !ok {
			r.log.Warn().Str("guid", *u.ADGUID).Str("email", u.Email).Msg("linked on-prem account not found")

			continue
		}

		matched[*u.ADGUID] = struct{}{}
		s.refreshOnPrem(ctx, r, u, ad)
	}

	for _, guid := range slices.Sorted(maps.Keys(snapshot)) {
		if _, ok := matched[guid]; ok {
			continue
		}

		ad := snapshot[guid]

		u, err := optional(s.store.UserByEmail(ctx, ad.Mail))
		if err != nil {
			r.failed.Add(1)
			r.log.Error().Err(err).Str("guid", guid).Msg("identity lookup failed")

			continue
		}

		if u == nil || u.ADGUID != nil {
			r.skipped.Add(1)
			r.log.Debug().Str("guid", guid).Str("dn", ad.DistinguishedName).Msg("no identity for on-prem account")

			continue
		}

		u.ADGUID = models.Ptr(guid)
		r.linked.Add(1)
		r.log.Info().Str("guid", guid).Str("email", u.Email).Msg("linked identity with on-prem account")
		s.refreshOnPrem(ctx, r, u, ad)
	}

	return s.finish(ctx, r, nil), nil
}

func (s *Service) refreshOnPrem(ctx context.Context, r *run, u *models.DepartmentUser, ad onprem.User) {
	now := s.now()
	u.ADData = &ad
	u.ADDataUpdated = &now
	r.updated.Add(1)

	if s.opts.DryRun {
		return
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		r.failed.Add(1)
		r.log.Error().Err(err).Str("guid", ad.ObjectGUID).Str("email", u.Email).Msg("failed to store on-prem snapshot")
	}
}
