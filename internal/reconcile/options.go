package reconcile

import (
	"time"

	"github.com/itassets/identity-sync/internal/graph"
)

// Options controls the sync passes.
type Options struct {
	// EmailDomain is the mail domain of managed accounts, e.g. example.com.
	EmailDomain string
	// TimeZone decides the calendar day used for end and expiry dates.
	TimeZone string
	// DeactivateExpired disables directory accounts whose HR job has ended.
	DeactivateExpired bool
	// CreateCloudAccounts provisions cloud accounts for employees without an identity.
	CreateCloudAccounts bool
	// CreateLimitDays defers provisioning until the job starts within this many days. 0 means no limit.
	CreateLimitDays int
	// DryRun logs intended changes without writing anything.
	DryRun bool
	// Workers is the number of employees processed concurrently by the HR pass.
	Workers int
	// ExcludeCLevel1 lists organisation level 1 codes skipped by the HR pass.
	ExcludeCLevel1 []string
	// Licences maps the HR licence_type to the licences a new account receives.
	Licences map[string]LicenceBundle
	// Profile holds constant attributes of provisioned accounts.
	Profile Profile
}

// LicenceBundle is the set of licences assigned for one HR licence type.
// Every SKU in the bundle must have a unit available.
type LicenceBundle struct {
	Name     string
	Licences []graph.Licence
}

// SkuIDs lists the bundle's SKUs.
func (b LicenceBundle) SkuIDs() []string {
	ids := make([]string, 0, len(b.Licences))
	for _, l := range b.Licences {
		ids = append(ids, l.SkuID)
	}

	return ids
}

// Profile holds the fixed attributes written to provisioned accounts.
type Profile struct {
	State         string
	Country       string
	UsageLocation string `validate:"omitempty,len=2"`
}

const (
	disabledPlanF3Yammer      = "4a82b400-a79f-41a4-b4e2-e94f5787b113"
	disabledPlanFLWCompliance = "176a09a6-7ec5-4039-ac02-b2791c6ba793"
)

// DefaultLicences returns the bundles for on-premise (ONPUL) and cloud (CLDUL) users.
func DefaultLicences() map[string]LicenceBundle {
	return map[string]LicenceBundle{
		"ONPUL": {
			Name:     "On-premise",
			Licences: []graph.Licence{{SkuID: graph.SkuM365E5}},
		},
		"CLDUL": {
			Name: "Cloud",
			Licences: []graph.Licence{
				{SkuID: graph.SkuM365F3, DisabledPlans: []string{disabledPlanF3Yammer}},
				{SkuID: graph.SkuExchangeOnlinePlan2},
				{SkuID: graph.SkuSecurityComplianceForFLW, DisabledPlans: []string{disabledPlanFLWCompliance}},
			},
		},
	}
}

// DefaultProfile returns the attributes of accounts created in Western Australia.
func DefaultProfile() Profile {
	return Profile{State: "Western Australia", Country: "Australia", UsageLocation: "AU"}
}

func (o *Options) location() *time.Location {
	if o.TimeZone == "" {
		return time.Local
	}

	loc, err := time.LoadLocation(o.TimeZone)
	if err != nil {
		return time.Local
	}

	return loc
}

func (o *Options) withDefaults() Options {
	out := *o

	if out.Workers < 1 {
		out.Workers = 1
	}

	if len(out.Licences) == 0 {
		out.Licences = DefaultLicences()
	}

	if out.Profile == (Profile{}) {
		out.Profile = DefaultProfile()
	}

	return out
}
