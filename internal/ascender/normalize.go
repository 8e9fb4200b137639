package ascender

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseFunc stores a raw column value on the partially built job.
type ParseFunc func(job *Job, raw any) error

// Column describes one column of the HR view. Key is the name the value is known
// by once normalised, defaulting to Name.
type Column struct {
	Name  string
	Key   string
	Parse ParseFunc
}

// Columns is the HR view schema in select order.
var Columns = []Column{ //nolint:gochecknoglobals
	{Name: "employee_no", Key: "employee_id", Parse: text(func(j *Job) *string { return &j.EmployeeID })},
	{Name: "job_no", Parse: text(func(j *Job) *string { return &j.JobNo })},
	{Name: "surname", Parse: text(func(j *Job) *string { return &j.Surname })},
	{Name: "first_name", Parse: text(func(j *Job) *string { return &j.FirstName })},
	{Name: "second_name", Parse: text(func(j *Job) *string { return &j.SecondName })},
	{Name: "preferred_name", Parse: text(func(j *Job) *string { return &j.PreferredName })},
	{Name: "clevel1_id", Parse: text(func(j *Job) *string { return &j.CLevel1ID })},
	{Name: "clevel1_desc", Parse: text(func(j *Job) *string { return &j.CLevel1Desc })},
	{Name: "clevel2_desc", Parse: text(func(j *Job) *string { return &j.CLevel2Desc })},
	{Name: "clevel3_desc", Parse: text(func(j *Job) *string { return &j.CLevel3Desc })},
	{Name: "clevel4_desc", Parse: text(func(j *Job) *string { return &j.CLevel4Desc })},
	{Name: "clevel5_desc", Parse: text(func(j *Job) *string { return &j.CLevel5Desc })},
	{Name: "position_no", Parse: text(func(j *Job) *string { return &j.PositionNo })},
	{Name: "occup_pos_title", Parse: text(func(j *Job) *string { return &j.OccupPosTitle })},
	{Name: "award", Parse: text(func(j *Job) *string { return &j.Award })},
	{Name: "award_desc", Parse: text(func(j *Job) *string { return &j.AwardDesc })},
	{Name: "emp_status", Parse: text(func(j *Job) *string { return &j.EmpStatus })},
	{Name: "emp_stat_desc", Parse: text(func(j *Job) *string { return &j.EmpStatDesc })},
	{Name: "loc_desc", Parse: text(func(j *Job) *string { return &j.LocDesc })},
	{Name: "paypoint", Parse: text(func(j *Job) *string { return &j.Paypoint })},
	{Name: "paypoint_desc", Parse: text(func(j *Job) *string { return &j.PaypointDesc })},
	{Name: "geo_location_desc", Parse: text(func(j *Job) *string { return &j.GeoLocationDesc })},
	{Name: "occup_type", Parse: text(func(j *Job) *string { return &j.OccupType })},
	{Name: "job_start_date", Parse: date(func(j *Job) *Date { return &j.JobStartDate })},
	{Name: "job_end_date", Parse: date(func(j *Job) *Date { return &j.JobEndDate })},
	{Name: "term_reason", Parse: text(func(j *Job) *string { return &j.TermReason })},
	{Name: "work_phone_no", Parse: text(func(j *Job) *string { return &j.WorkPhoneNo })},
	{Name: "work_mobile_phone_no", Parse: text(func(j *Job) *string { return &j.WorkMobilePhoneNo })},
	{Name: "email_address", Parse: text(func(j *Job) *string { return &j.EmailAddress })},
	{Name: "extended_lv", Parse: text(func(j *Job) *string { return &j.ExtendedLv })},
	{Name: "ext_lv_end_date", Parse: date(func(j *Job) *Date { return &j.ExtLvEndDate })},
	{Name: "licence_type", Parse: text(func(j *Job) *string { return &j.LicenceType })},
	{Name: "manager_emp_no", Parse: text(func(j *Job) *string { return &j.ManagerEmpNo })},
	{Name: "manager_name", Parse: text(func(j *Job) *string { return &j.ManagerName })},
}

// ColumnNames returns the select list for the HR view.
func ColumnNames() []string {
	names := make([]string, len(Columns))
	for i, c := range Columns {
		names[i] = c.Name
	}

	return names
}

// Normalize turns one raw row into a Job. row is the 1-based feed position, used in errors.
func Normalize(row int, values []any) (Job, error) {
	var job Job

	if len(values) != len(Columns) {
		return Job{}, &ParseError{Row: row, Column: "*", Value: len(values), Err: ErrColumnCount}
	}

	for i, c := range Columns {
		if err := c.Parse(&job, values[i]); err != nil {
			return Job{}, &ParseError{Row: row, Column: c.Name, Value: values[i], Err: err}
		}
	}

	if job.EmployeeID == "" {
		return Job{}, &ParseError{Row: row, Column: Columns[0].Name, Err: ErrEmployeeIDEmpty}
	}

	return job, nil
}

func text(field func(*Job) *string) ParseFunc {
	return func(job *Job, raw any) error {
		s, err := coerceText(raw)
		if err != nil {
			return err
		}

		*field(job) = s

		return nil
	}
}

func date(field func(*Job) *Date) ParseFunc {
	return func(job *Job, raw any) error {
		d, err := coerceDate(raw)
		if err != nil {
			return err
		}

		*field(job) = d

		return nil
	}
}

// coerceText converts the value kinds a postgres driver returns into trimmed text.
func coerceText(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case []byte:
		return strings.TrimSpace(string(v)), nil
	case int:
		return strconv.Itoa(v), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	case time.Time:
		return v.Format(DateLayout), nil
	case fmt.Stringer:
		return strings.TrimSpace(v.String()), nil
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", err
		}

		if _, again := dv.(driver.Valuer); again {
			return "", ErrUnsupportedValue
		}

		return coerceText(dv)
	default:
		return "", ErrUnsupportedValue
	}
}

// coerceDate formats a date column. The DateMax marker and absent values yield the empty Date.
func coerceDate(raw any) (Date, error) {
	var t time.Time

	switch v := raw.(type) {
	case nil:
		return "", nil
	case time.Time:
		t = v
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return "", nil
		}

		if len(s) > len(DateLayout) {
			s = s[:len(DateLayout)]
		}

		parsed, err := time.Parse(DateLayout, s)
		if err != nil {
			return "", err
		}

		t = parsed
	case driver.Valuer:
		dv, err := v.Value()
		if err != nil {
			return "", err
		}

		if _, again := dv.(driver.Valuer); again {
			return "", ErrUnsupportedValue
		}

		return coerceDate(dv)
	default:
		return "", ErrUnsupportedValue
	}

	if t.IsZero() || sameDay(t, DateMax) {
		return "", nil
	}

	return Date(t.Format(DateLayout)), nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()

	return ay == by && am == bm && ad == bd
}
