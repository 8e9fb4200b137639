package onprem

import (
	"time"
)

// User is the cached snapshot of an on-prem directory account. Empty strings stand for
// unset attributes.
type User struct {
	ObjectGUID                 string     `json:"ObjectGUID"`
	DistinguishedName          string     `json:"DistinguishedName"`
	Mail                       string     `json:"mail,omitempty"`
	DisplayName                string     `json:"DisplayName,omitempty"`
	GivenName                  string     `json:"GivenName,omitempty"`
	Surname                    string     `json:"Surname,omitempty"`
	Title                      string     `json:"Title,omitempty"`
	Company                    string     `json:"Company,omitempty"`
	Department                 string     `json:"Department,omitempty"`
	TelephoneNumber            string     `json:"telephoneNumber,omitempty"`
	Mobile                     string     `json:"Mobile,omitempty"`
	EmployeeID                 string     `json:"EmployeeID,omitempty"`
	Manager                    string     `json:"Manager,omitempty"`
	PhysicalDeliveryOfficeName string     `json:"physicalDeliveryOfficeName,omitempty"`
	StreetAddress              string     `json:"StreetAddress,omitempty"`
	Enabled                    bool       `json:"Enabled"`
	AccountExpirationDate      *time.Time `json:"AccountExpirationDate"`
}

// ExpirationDay returns the calendar day the account expires in loc.
func (u *User) ExpirationDay(loc *time.Location) (time.Time, bool) {
	if u.AccountExpirationDate == nil {
		return time.Time{}, false
	}

	y, m, d := u.AccountExpirationDate.In(loc).Date()

	return time.Date(y, m, d, 0, 0, 0, 0, loc), true
}
