package graph

import (
	"strings"
)

// Manager is the expanded manager reference of a user.
type Manager struct {
	ID   string `json:"id"`
	Mail string `json:"mail"`
}

// User is the cached snapshot of a cloud account. Empty strings stand for null.
type User struct {
	ObjectID              string   `json:"objectId"`
	Mail                  string   `json:"mail"`
	UserPrincipalName     string   `json:"userPrincipalName"`
	DisplayName           string   `json:"displayName,omitempty"`
	GivenName             string   `json:"givenName,omitempty"`
	Surname               string   `json:"surname,omitempty"`
	EmployeeID            string   `json:"employeeId,omitempty"`
	EmployeeType          string   `json:"employeeType,omitempty"`
	JobTitle              string   `json:"jobTitle,omitempty"`
	TelephoneNumber       string   `json:"telephoneNumber,omitempty"`
	MobilePhone           string   `json:"mobilePhone,omitempty"`
	CompanyName           string   `json:"companyName,omitempty"`
	Department            string   `json:"department,omitempty"`
	OfficeLocation        string   `json:"officeLocation,omitempty"`
	StreetAddress         string   `json:"streetAddress,omitempty"`
	ProxyAddresses        []string `json:"proxyAddresses"`
	AccountEnabled        bool     `json:"accountEnabled"`
	OnPremisesSyncEnabled *bool    `json:"onPremisesSyncEnabled"`
	AssignedLicenses      []string `json:"assignedLicenses"`
	Manager               *Manager `json:"manager,omitempty"`
}

// HasLicence reports whether the SKU is assigned to the user.
func (u *User) HasLicence(skuID string) bool {
	for _, id := range u.AssignedLicenses {
		if strings.EqualFold(id, skuID) {
			return true
		}
	}

	return false
}

// ManagerID returns the manager's object id, or "".
func (u *User) ManagerID() string {
	if u.Manager == nil {
		return ""
	}

	return u.Manager.ID
}

// wireUser is a user as returned by the users endpoint.
type wireUser struct {
	ID                    string   `json:"id"`
	Mail                  *string  `json:"mail"`
	UserPrincipalName     string   `json:"userPrincipalName"`
	DisplayName           *string  `json:"displayName"`
	GivenName             *string  `json:"givenName"`
	Surname               *string  `json:"surname"`
	EmployeeID            *string  `json:"employeeId"`
	EmployeeType          *string  `json:"employeeType"`
	JobTitle              *string  `json:"jobTitle"`
	BusinessPhones        []string `json:"businessPhones"`
	MobilePhone           *string  `json:"mobilePhone"`
	CompanyName           *string  `json:"companyName"`
	Department            *string  `json:"department"`
	OfficeLocation        *string  `json:"officeLocation"`
	StreetAddress         *string  `json:"streetAddress"`
	ProxyAddresses        []string `json:"proxyAddresses"`
	AccountEnabled        bool     `json:"accountEnabled"`
	OnPremisesSyncEnabled *bool    `json:"onPremisesSyncEnabled"`
	AssignedLicenses      []struct {
		SkuID string `json:"skuId"`
	} `json:"assignedLicenses"`
	Manager *struct {
		ID   string  `json:"id"`
		Mail *string `json:"mail"`
	} `json:"manager"`
}

func (w *wireUser) snapshot() User {
	u := User{
		ObjectID:              w.ID,
		Mail:                  strings.ToLower(str(w.Mail)),
		UserPrincipalName:     w.UserPrincipalName,
		DisplayName:           str(w.DisplayName),
		GivenName:             str(w.GivenName),
		Surname:               str(w.Surname),
		EmployeeID:            str(w.EmployeeID),
		EmployeeType:          str(w.EmployeeType),
		JobTitle:              str(w.JobTitle),
		MobilePhone:           str(w.MobilePhone),
		CompanyName:           str(w.CompanyName),
		Department:            str(w.Department),
		OfficeLocation:        str(w.OfficeLocation),
		StreetAddress:         str(w.StreetAddress),
		AccountEnabled:        w.AccountEnabled,
		OnPremisesSyncEnabled: w.OnPremisesSyncEnabled,
		ProxyAddresses:        []string{},
		AssignedLicenses:      make([]string, 0, len(w.AssignedLicenses)),
	}

	if len(w.BusinessPhones) > 0 {
		u.TelephoneNumber = w.BusinessPhones[0]
	}

	for _, p := range w.ProxyAddresses {
		lower := strings.ToLower(p)
		if strings.HasPrefix(lower, "smtp") {
			u.ProxyAddresses = append(u.ProxyAddresses, strings.Replace(lower, "smtp:", "", 1))
		}
	}

	for _, l := range w.AssignedLicenses {
		u.AssignedLicenses = append(u.AssignedLicenses, l.SkuID)
	}

	if w.Manager != nil && w.Manager.ID != "" {
		u.Manager = &Manager{ID: w.Manager.ID, Mail: str(w.Manager.Mail)}
	}

	return u
}

func str(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

// PasswordProfile sets the initial password of a new account.
type PasswordProfile struct {
	ForceChangePasswordNextSignIn bool   `json:"forceChangePasswordNextSignIn"`
	Password                      string `json:"password"`
}

// NewUser is the body of the create call.
type NewUser struct {
	AccountEnabled    bool            `json:"accountEnabled"`
	DisplayName       string          `json:"displayName"`
	UserPrincipalName string          `json:"userPrincipalName"`
	MailNickname      string          `json:"mailNickname"`
	PasswordProfile   PasswordProfile `json:"passwordProfile"`
}

// Licence is one SKU to add, with the service plans to leave disabled.
type Licence struct {
	SkuID         string   `json:"skuId"`
	DisabledPlans []string `json:"disabledPlans"`
}
