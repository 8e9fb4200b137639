package ascender

import (
	"encoding/json"
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO layout dates are stored in.
const DateLayout = "2006-01-02"

// DateMax is the HR system's marker for "no end date".
var DateMax = time.Date(2049, 12, 31, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals

// Date is an ISO formatted calendar date. The empty Date means no date and
// marshals to JSON null.
type Date string

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	if d == "" {
		return []byte("null"), nil
	}

	return json.Marshal(string(d))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	*d = Date(s)

	return nil
}

// Time parses the date. ok is false for the empty or a malformed date.
func (d Date) Time() (time.Time, bool) {
	if d == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

// Before reports whether d is set and strictly before the calendar day of t.
func (d Date) Before(t time.Time) bool {
	return d != "" && string(d) < t.Format(DateLayout)
}

// Job is one normalised row of the HR feed.
type Job struct {
	EmployeeID        string `json:"employee_id"`
	JobNo             string `json:"job_no"`
	Surname           string `json:"surname"`
	FirstName         string `json:"first_name"`
	SecondName        string `json:"second_name"`
	PreferredName     string `json:"preferred_name"`
	CLevel1ID         string `json:"clevel1_id"`
	CLevel1Desc       string `json:"clevel1_desc"`
	CLevel2Desc       string `json:"clevel2_desc"`
	CLevel3Desc       string `json:"clevel3_desc"`
	CLevel4Desc       string `json:"clevel4_desc"`
	CLevel5Desc       string `json:"clevel5_desc"`
	PositionNo        string `json:"position_no"`
	OccupPosTitle     string `json:"occup_pos_title"`
	Award             string `json:"award"`
	AwardDesc         string `json:"award_desc"`
	EmpStatus         string `json:"emp_status"`
	EmpStatDesc       string `json:"emp_stat_desc"`
	LocDesc           string `json:"loc_desc"`
	Paypoint          string `json:"paypoint"`
	PaypointDesc      string `json:"paypoint_desc"`
	GeoLocationDesc   string `json:"geo_location_desc"`
	OccupType         string `json:"occup_type"`
	JobStartDate      Date   `json:"job_start_date"`
	JobEndDate        Date   `json:"job_end_date"`
	TermReason        string `json:"term_reason"`
	WorkPhoneNo       string `json:"work_phone_no"`
	WorkMobilePhoneNo string `json:"work_mobile_phone_no"`
	EmailAddress      string `json:"email_address"`
	ExtendedLv        string `json:"extended_lv"`
	ExtLvEndDate      Date   `json:"ext_lv_end_date"`
	LicenceType       string `json:"licence_type"`
	ManagerEmpNo      string `json:"manager_emp_no"`
	ManagerName       string `json:"manager_name"`
}

// Ended reports whether the job has an end date before today.
func (j *Job) Ended(today time.Time) bool {
	return j.JobEndDate.Before(today)
}

// GivenName returns the preferred name, falling back to the legal first name.
func (j *Job) GivenName() string {
	if j.PreferredName != "" {
		return j.PreferredName
	}

	return j.FirstName
}

// FullName joins first, second and surname.
func (j *Job) FullName() string {
	parts := make([]string, 0, 3) //nolint:mnd

	for _, p := range []string{j.FirstName, j.SecondName, j.Surname} {
		if p != "" {
			parts = append(parts, p)
		}
	}

	return strings.Join(parts, " ")
}

const (
	departmentRoot = "DEPT BIODIVERSITY, CONSERVATION AND ATTRACTIONS"
	rottnestPrefix = "ROTTNEST ISLAND AUTHORITY - "
)

// OrgPath returns the organisational levels below the department root, de-duplicated.
func (j *Job) OrgPath() []string {
	var path []string

	for _, d := range []string{j.CLevel1Desc, j.CLevel2Desc, j.CLevel3Desc, j.CLevel4Desc, j.CLevel5Desc} {
		branch := strings.ReplaceAll(strings.ReplaceAll(d, rottnestPrefix, ""), "  ", " ")
		if branch == "" || branch == departmentRoot || slices.Contains(path, branch) {
			continue
		}

		path = append(path, branch)
	}

	return path
}

// ExtendedLeaveEnd returns the date extended leave finishes, if the employee is on it.
func (j *Job) ExtendedLeaveEnd() (time.Time, bool) {
	if j.ExtendedLv != "Y" {
		return time.Time{}, false
	}

	return j.ExtLvEndDate.Time()
}

// EmploymentStatus describes the emp_status code.
func (j *Job) EmploymentStatus() string {
	if s, ok := EmploymentStatuses[j.EmpStatus]; ok {
		return s
	}

	return j.EmpStatDesc
}
