package reconcile

import (
	"strings"
	"time"

	"github.com/itassets/identity-sync/internal/db/models"
	"github.com/itassets/identity-sync/internal/graph"
	"github.com/itassets/identity-sync/internal/onprem"
)

const expiryLayout = "01/02/2006"

// rule diffs one field of an identity against the snapshot of its directory.
type rule struct {
	field     string
	direction Direction
	onprem    func(in *Input, ad *onprem.User) []Change
	cloud     func(in *Input, az *graph.User) []Change
}

// attribute describes a plain string field present in both directories.
type attribute struct {
	field       string
	direction   Direction
	want        func(u *models.DepartmentUser) string
	adProperty  string
	adValue     func(ad *onprem.User) *string
	azProperty  string
	azValue     func(az *graph.User) *string
	azPatch     func(v string) any
	requireCost bool
}

func (a attribute) equal(have, want string) bool {
	if a.direction == FromLocal {
		return falsyEqual(strings.TrimSpace(have), want)
	}

	return have == want
}

// wanted returns the value to write, or false when the field is not compared.
func (a attribute) wanted(u *models.DepartmentUser) (string, bool) {
	if a.requireCost && u.CostCentre == nil {
		return "", false
	}

	v := a.want(u)
	if a.direction == FromHR && v == "" {
		return "", false
	}

	return v, true
}

func (a attribute) rule() rule {
	r := rule{field: a.field, direction: a.direction}

	r.onprem = func(in *Input, ad *onprem.User) []Change {
		want, ok := a.wanted(in.User)
		if !ok || a.equal(*a.adValue(ad), want) {
			return nil
		}

		return []Change{{
			Field: a.field, Direction: a.direction, Target: TargetOnPrem,
			Property: a.adProperty, Value: want,
			commit: func(u *models.DepartmentUser) { *a.adValue(u.ADData) = want },
		}}
	}

	r.cloud = func(in *Input, az *graph.User) []Change {
		want, ok := a.wanted(in.User)
		if !ok || a.equal(*a.azValue(az), want) {
			return nil
		}

		var payload any = want
		if a.azPatch != nil {
			payload = a.azPatch(want)
		}

		return []Change{{
			Field: a.field, Direction: a.direction, Target: TargetCloud,
			Property: a.azProperty, Patch: map[string]any{a.azProperty: payload},
			commit: func(u *models.DepartmentUser) { *a.azValue(u.AzureADData) = want },
		}}
	}

	return r
}

// rules is evaluated in order for every identity with a directory snapshot.
// Directory-authoritative fields are copied by the cloud pass and never appear here.
var rules = []rule{ //nolint:gochecknoglobals
	{field: "active", direction: FromHR, onprem: deactivateOnPrem, cloud: deactivateCloud},
	{field: "expiry", direction: FromHR, onprem: expiryOnPrem},
	attribute{
		field: "name", direction: FromHR,
		want:       func(u *models.DepartmentUser) string { return u.Name },
		adProperty: "DisplayName", adValue: func(ad *onprem.User) *string { return &ad.DisplayName },
		azProperty: "displayName", azValue: func(az *graph.User) *string { return &az.DisplayName },
	}.rule(),
	attribute{
		field: "given_name", direction: FromHR,
		want:       func(u *models.DepartmentUser) string { return u.GivenName },
		adProperty: "GivenName", adValue: func(ad *onprem.User) *string { return &ad.GivenName },
		azProperty: "givenName", azValue: func(az *graph.User) *string { return &az.GivenName },
	}.rule(),
	attribute{
		field: "surname", direction: FromHR,
		want:       func(u *models.DepartmentUser) string { return u.Surname },
		adProperty: "Surname", adValue: func(ad *onprem.User) *string { return &ad.Surname },
		azProperty: "surname", azValue: func(az *graph.User) *string { return &az.Surname },
	}.rule(),
	attribute{
		field: "cost_centre", direction: FromHR, requireCost: true,
		want:       func(u *models.DepartmentUser) string { return u.CostCentre.CodeOrEmpty() },
		adProperty: "Company", adValue: func(ad *onprem.User) *string { return &ad.Company },
		azProperty: "companyName", azValue: func(az *graph.User) *string { return &az.CompanyName },
	}.rule(),
	attribute{
		field: "division", direction: FromHR, requireCost: true,
		want:       func(u *models.DepartmentUser) string { return u.CostCentre.Division() },
		adProperty: "Department", adValue: func(ad *onprem.User) *string { return &ad.Department },
		azProperty: "department", azValue: func(az *graph.User) *string { return &az.Department },
	}.rule(),
	attribute{
		field: "title", direction: FromHR,
		want:       func(u *models.DepartmentUser) string { return u.Title },
		adProperty: "Title", adValue: func(ad *onprem.User) *string { return &ad.Title },
		azProperty: "jobTitle", azValue: func(az *graph.User) *string { return &az.JobTitle },
	}.rule(),
	attribute{
		field: "telephone", direction: FromLocal,
		want:       func(u *models.DepartmentUser) string { return u.Telephone },
		adProperty: "telephoneNumber", adValue: func(ad *onprem.User) *string { return &ad.TelephoneNumber },
		azProperty: "businessPhones", azValue: func(az *graph.User) *string { return &az.TelephoneNumber },
		azPatch:    businessPhones,
	}.rule(),
	attribute{
		field: "mobile_phone", direction: FromLocal,
		want:       func(u *models.DepartmentUser) string { return u.MobilePhone },
		adProperty: "Mobile", adValue: func(ad *onprem.User) *string { return &ad.Mobile },
		azProperty: "mobilePhone", azValue: func(az *graph.User) *string { return &az.MobilePhone },
	}.rule(),
	attribute{
		field: "employee_id", direction: FromHR,
		want:       func(u *models.DepartmentUser) string { return u.EmployeeNo() },
		adProperty: "EmployeeID", adValue: func(ad *onprem.User) *string { return &ad.EmployeeID },
		azProperty: "employeeId", azValue: func(az *graph.User) *string { return &az.EmployeeID },
	}.rule(),
	{field: "manager", direction: FromHR, onprem: managerOnPrem, cloud: managerCloud},
	{field: "location", direction: FromHR, onprem: locationOnPrem, cloud: locationCloud},
}

// Resolve diffs the identity against the snapshot of the directory owning its account.
// It has no side effects.
func Resolve(in Input) []Change {
	if in.Location == nil {
		in.Location = time.Local
	}

	target := TargetOf(in.User)

	var changes []Change

	for _, r := range rules {
		var found []Change

		switch {
		case target == TargetOnPrem && r.onprem != nil:
			found = r.onprem(&in, in.User.ADData)
		case target == TargetCloud && r.cloud != nil:
			found = r.cloud(&in, in.User.AzureADData)
		}

		for i := range found {
			found[i].Direction = r.direction
		}

		changes = append(changes, found...)
	}

	return changes
}

// falsyEqual treats every empty value as equal.
func falsyEqual(a, b string) bool {
	if a == "" && b == "" {
		return true
	}

	return a == b
}

// businessPhones clears the number with a blank, the API rejects an empty list entry.
func businessPhones(v string) any {
	if v == "" {
		v = " "
	}

	return []string{v}
}

// expired reports whether the identity should be disabled.
func expired(in *Input) bool {
	u := in.User

	return in.DeactivateExpired && u.Active && u.EmployeeID != nil && u.AscenderData != nil &&
		u.AscenderData.JobEndDate.Before(in.Today)
}

func deactivationAudit(in *Input, target Target) *models.LogEntry {
	return &models.LogEntry{
		Field:       "job_end_date",
		OldValue:    string(in.User.AscenderData.JobEndDate),
		NewValue:    nil,
		Description: "Deactivate " + target.String() + " AD account",
	}
}

func deactivateOnPrem(in *Input, ad *onprem.User) []Change {
	if !expired(in) || !ad.Enabled {
		return nil
	}

	return []Change{{
		Field: "active", Target: TargetOnPrem, Property: "Enabled", Value: false,
		Audit:  deactivationAudit(in, TargetOnPrem),
		commit: func(u *models.DepartmentUser) { u.ADData.Enabled = false },
	}}
}

func deactivateCloud(in *Input, az *graph.User) []Change {
	if !expired(in) || !az.AccountEnabled {
		return nil
	}

	return []Change{{
		Field: "active", Target: TargetCloud, Property: "accountEnabled",
		Patch:  map[string]any{"accountEnabled": false},
		Audit:  deactivationAudit(in, TargetCloud),
		commit: func(u *models.DepartmentUser) { u.AzureADData.AccountEnabled = false },
	}}
}

// expiryOnPrem keeps the account expiring the day after the last working day.
func expiryOnPrem(in *Input, ad *onprem.User) []Change {
	u := in.User
	if u.EmployeeID == nil || u.AscenderData == nil {
		return nil
	}

	have, hasExpiry := ad.ExpirationDay(in.Location)

	end, hasEnd := u.AscenderData.JobEndDate.Time()
	if !hasEnd {
		if !hasExpiry {
			return nil
		}

		return []Change{{
			Field: "expiry", Target: TargetOnPrem, Property: "AccountExpirationDate", Value: nil,
			commit: func(u *models.DepartmentUser) { u.ADData.AccountExpirationDate = nil },
		}}
	}

	want := time.Date(end.Year(), end.Month(), end.Day()+1, 0, 0, 0, 0, in.Location)
	if hasExpiry && have.Equal(want) {
		return nil
	}

	return []Change{{
		Field: "expiry", Target: TargetOnPrem, Property: "AccountExpirationDate", Value: want.Format(expiryLayout),
		commit: func(u *models.DepartmentUser) { u.ADData.AccountExpirationDate = &want },
	}}
}

// managerOnPrem compares by distinguished name and writes the manager's GUID.
// A manager without an on-prem account can not be expressed and is skipped.
func managerOnPrem(in *Input, ad *onprem.User) []Change {
	var (
		wantDN string
		value  any
	)

	if m := in.User.Manager; m != nil {
		if m.ADGUID == nil || m.ADData == nil {
			return nil
		}

		wantDN = m.ADData.DistinguishedName
		value = *m.ADGUID
	}

	if strings.EqualFold(wantDN, ad.Manager) {
		return nil
	}

	return []Change{{
		Field: "manager", Target: TargetOnPrem, Property: "Manager", Value: value,
		commit: func(u *models.DepartmentUser) { u.ADData.Manager = wantDN },
	}}
}

func managerCloud(in *Input, az *graph.User) []Change {
	m := in.User.Manager
	if m == nil || m.AzureGUID == nil {
		return nil
	}

	id := *m.AzureGUID
	if strings.EqualFold(id, az.ManagerID()) {
		return nil
	}

	mail := m.Email

	return []Change{{
		Field: "manager", Target: TargetCloud, Property: "manager", Manager: id,
		commit: func(u *models.DepartmentUser) { u.AzureADData.Manager = &graph.Manager{ID: id, Mail: mail} },
	}}
}

// hrLocation returns the location to write, only when HR names one that is known locally.
func hrLocation(u *models.DepartmentUser) *models.Location {
	if u.AscenderData == nil || u.AscenderData.GeoLocationDesc == "" {
		return nil
	}

	return u.Location
}

func locationOnPrem(in *Input, ad *onprem.User) []Change {
	loc := hrLocation(in.User)
	if loc == nil {
		return nil
	}

	name, address := loc.Name, loc.Address

	var out []Change

	if name != ad.PhysicalDeliveryOfficeName {
		out = append(out, Change{
			Field: "location", Target: TargetOnPrem, Property: "physicalDeliveryOfficeName", Value: name,
			commit: func(u *models.DepartmentUser) { u.ADData.PhysicalDeliveryOfficeName = name },
		})
	}

	if address != ad.StreetAddress {
		out = append(out, Change{
			Field: "location", Target: TargetOnPrem, Property: "streetAddress", Value: address,
			commit: func(u *models.DepartmentUser) { u.ADData.StreetAddress = address },
		})
	}

	return out
}

func locationCloud(in *Input, az *graph.User) []Change {
	loc := hrLocation(in.User)
	if loc == nil || (loc.Name == az.OfficeLocation && loc.Address == az.StreetAddress) {
		return nil
	}

	name, address := loc.Name, loc.Address

	return []Change{{
		Field: "location", Target: TargetCloud, Property: "officeLocation",
		Patch: map[string]any{"officeLocation": name, "streetAddress": address},
		commit: func(u *models.DepartmentUser) {
			u.AzureADData.OfficeLocation = name
			u.AzureADData.StreetAddress = address
		},
	}}
}
