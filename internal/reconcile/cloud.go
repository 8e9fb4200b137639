package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
)

// RunCloud refreshes the cloud snapshot of every identity. Accounts are matched by
// object ID, then by email; licensed accounts without a match become new identities.
// Identities whose account no longer exists are unlinked and deactivated.
func (s *Service) RunCloud(ctx context.Context) (Summary, error) {
	if s.cloud == nil {
		return Summary{Pass: PassCloud}, fmt.Errorf("%s: %w", PassCloud, ErrSourceMissing)
	}

	s.passMu.Lock()
	defer s.passMu.Unlock()

	r := s.begin(PassCloud)

	accounts, err := s.cloud.ListUsers(ctx, s.opts.EmailDomain)
	if err == nil && len(accounts) == 0 {
		err = ErrEmptyCloudListing
	}

	if err != nil {
		return s.finish(ctx, r, err), err
	}

	seen := make(map[string]struct{}, len(accounts))

	for i := range accounts {
		az := &accounts[i]
		seen[az.ObjectID] = struct{}{}

		if az.Mail == "" || az.DisplayName == "" {
			r.skipped.Add(1)

			continue
		}

		r.records.Add(1)

		if err := s.cloudAccount(ctx, r, az); err != nil {
			r.failed.Add(1)
			r.log.Error().Err(err).Str("guid", az.ObjectID).Str("email", az.Mail).Msg("cloud account sync failed")

			data, _ := json.MarshalIndent(az, "", "  ")
			s.notifier.Admins(ctx,
				fmt.Sprintf("Cloud sync: exception during sync of account (object %s)", az.ObjectID),
				fmt.Sprintf("Cloud data:\n%s\nError:\n%v\n", data, err),
			)
		}

		if ctx.Err() != nil {
			return s.finish(ctx, r, ctx.Err()), ctx.Err()
		}
	}

	err = s.unlinkMissing(ctx, r, seen)

	return s.finish(ctx, r, err), err
}

func (s *Service) cloudAccount(ctx context.Context, r *run, az *graph.User) error {
	logger := r.log.With().Str("guid", az.ObjectID).Str("email", az.Mail).Logger()

	u, err := optional(s.store.UserByAzureGUID(ctx, az.ObjectID))
	if err != nil {
		return err
	}

	if u != nil {
		return s.refreshCloud(ctx, r, u, az)
	}

	u, err = optional(s.store.UserByEmail(ctx, az.Mail))
	if err != nil {
		return err
	}

	if u != nil {
		if u.AzureGUID != nil {
			logger.Warn().Str("linked_guid", *u.AzureGUID).
				Msg("email already associated with another cloud account, skipped")
			r.skipped.Add(1)

			return nil
		}

		u.AzureGUID = models.Ptr(az.ObjectID)
		r.linked.Add(1)
		logger.Info().Uint64("id", u.ID).Msg("linked existing identity with cloud account")

		return s.refreshCloud(ctx, r, u, az)
	}

	if !az.HasLicence(graph.SkuM365E5) && !az.HasLicence(graph.SkuM365F3) {
		r.skipped.Add(1)

		return nil
	}

	return s.createFromCloud(ctx, r, az)
}

func (s *Service) refreshCloud(ctx context.Context, r *run, u *models.DepartmentUser, az *graph.User) error {
	snapshot := *az
	now := s.now()
	u.AzureADData = &snapshot
	u.AzureADDataUpdated = &now

	if changed := ApplyCloud(u, &snapshot); len(changed) > 0 {
		r.updated.Add(1)
		r.log.Info().Str("email", u.Email).Strs("fields", changed).Msg("identity updated from cloud account")
	}

	if s.opts.DryRun {
		return nil
	}

	return s.store.SaveUser(ctx, u)
}

// ApplyCloud copies the directory authoritative fields of the cloud snapshot onto u
// and returns the names of the fields that changed.
func ApplyCloud(u *models.DepartmentUser, az *graph.User) []string {
	var changed []string

	if u.Active != az.AccountEnabled {
		u.Active = az.AccountEnabled
		changed = append(changed, "active")
	}

	if az.Mail != "" && !strings.EqualFold(az.Mail, u.Email) {
		u.Email = az.Mail
		changed = append(changed, "email")
	}

	dirSync := az.OnPremisesSyncEnabled != nil && *az.OnPremisesSyncEnabled
	if u.DirSyncEnabled == nil || *u.DirSyncEnabled != dirSync {
		u.DirSyncEnabled = &dirSync
		changed = append(changed, "dir_sync_enabled")
	}

	if !slices.Equal(u.ProxyAddresses, az.ProxyAddresses) {
		u.ProxyAddresses = slices.Clone(az.ProxyAddresses)
		changed = append(changed, "proxy_addresses")
	}

	licences := make([]string, 0, len(az.AssignedLicenses))
	for _, sku := range az.AssignedLicenses {
		licences = append(licences, graph.SkuName(sku))
	}

	if !slices.Equal(u.AssignedLicences, licences) {
		u.AssignedLicences = licences
		changed = append(changed, "assigned_licences")
	}

	return changed
}

func (s *Service) createFromCloud(ctx context.Context, r *run, az *graph.User) error {
	snapshot := *az
	now := s.now()

	u := &models.DepartmentUser{
		AzureGUID:          models.Ptr(az.ObjectID),
		AzureADData:        &snapshot,
		AzureADDataUpdated: &now,
		Email:              az.Mail,
		Name:               az.DisplayName,
		GivenName:          az.GivenName,
		Surname:            az.Surname,
		Title:              az.JobTitle,
		Telephone:          az.TelephoneNumber,
		MobilePhone:        az.MobilePhone,
	}

	if az.EmployeeID != "" {
		taken, err := optional(s.store.UserByEmployeeID(ctx, az.EmployeeID))
		if err != nil {
			return err
		}

		if taken == nil {
			u.EmployeeID = models.Ptr(az.EmployeeID)
		} else {
			r.log.Warn().Str("guid", az.ObjectID).Str("employee_id", az.EmployeeID).Str("holder", taken.Email).
				Msg("employee ID already linked, created identity without it")
		}
	}

	cc, err := optional(s.store.CostCentreByCode(ctx, az.CompanyName))
	if err != nil {
		return err
	}

	u.SetCostCentre(cc)

	loc, err := optional(s.store.LocationByName(ctx, az.OfficeLocation))
	if err != nil {
		return err
	}

	u.SetLocation(loc)
	ApplyCloud(u, &snapshot)

	r.created.Add(1)
	r.log.Info().Str("guid", az.ObjectID).Str("email", u.Email).Msg("created identity from cloud account")

	if s.opts.DryRun {
		return nil
	}

	return s.store.SaveUser(ctx, u)
}

// unlinkMissing clears the cloud link of identities whose account was not listed.
func (s *Service) unlinkMissing(ctx context.Context, r *run, seen map[string]struct{}) error {
	users, err := s.store.Users(ctx)
	if err != nil {
		return fmt.Errorf("list identities: %w", err)
	}

	var errs []error

	for i := range users {
		u := &users[i]
		if u.AzureGUID == nil {
			continue
		}

		if _, ok := seen[*u.AzureGUID]; ok {
			continue
		}

		guid := *u.AzureGUID
		r.unlinked.Add(1)
		r.log.Info().Str("guid", guid).Str("email", u.Email).Msg("cloud account no longer exists, unlinking identity")

		if s.opts.DryRun {
			continue
		}

		entry := models.LogEntry{
			Field:       "azure_guid",
			OldValue:    guid,
			NewValue:    nil,
			Description: "Cloud account no longer exists, unlinked and deactivated",
		}

		u.AzureGUID = nil
		u.Active = false

		if err := s.store.AppendLog(ctx, u.ID, entry); err != nil {
			errs = append(errs, err)

			continue
		}

		if err := s.store.SaveUser(ctx, u); err != nil {
			r.failed.Add(1)
			errs = append(errs, fmt.Errorf("unlink %s: %w", u.Email, err))
		}
	}

	return errors.Join(errs...)
}
