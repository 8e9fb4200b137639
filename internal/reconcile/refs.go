package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/itassets/identity-sync/internal/db/models"
)

// costCentreForPaypoint returns the cost centre mapped to an HR paypoint, creating a
// minimal one when it is unknown. created reports the creation.
func (s *Service) costCentreForPaypoint(ctx context.Context, paypoint string) (cc *models.CostCentre, created bool, err error) {
	s.refMu.Lock()
	defer s.refMu.Unlock()

	cc, err = s.store.CostCentreByAscenderCode(ctx, paypoint)
	if err == nil {
		return cc, false, nil
	}

	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	cc = &models.CostCentre{Code: paypoint, AscenderCode: models.Ptr(paypoint), Active: true}
	if s.opts.DryRun {
		return cc, true, nil
	}

	if err = s.store.CreateCostCentre(ctx, cc); err != nil {
		return nil, false, fmt.Errorf("create cost centre %s: %w", paypoint, err)
	}

	return cc, true, nil
}

// locationForDesc returns the location mapped to an HR geo location description,
// creating one named after the description when it is unknown.
func (s *Service) locationForDesc(ctx context.Context, desc string) (loc *models.Location, created bool, err error) {
	s.refMu.Lock()
	defer s.refMu.Unlock()

	loc, err = s.store.LocationByAscenderDesc(ctx, desc)
	if err == nil {
		return loc, false, nil
	}

	if !errors.Is(err, models.ErrNotFound) {
		return nil, false, err
	}

	loc = &models.Location{Name: desc, Address: desc, AscenderDesc: models.Ptr(desc)}
	if s.opts.DryRun {
		return loc, true, nil
	}

	if err = s.store.CreateLocation(ctx, loc); err != nil {
		return nil, false, fmt.Errorf("create location %s: %w", desc, err)
	}

	return loc, true, nil
}

// optional maps ErrNotFound to a nil result.
func optional[T any](v *T, err error) (*T, error) {
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}

	return v, err
}
