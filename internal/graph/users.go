package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

var userFields = []string{ //nolint:gochecknoglobals
	"id", "mail", "userPrincipalName", "displayName", "givenName", "surname", "employeeId",
	"employeeType", "jobTitle", "businessPhones", "mobilePhone", "companyName", "department",
	"officeLocation", "streetAddress", "proxyAddresses", "accountEnabled", "onPremisesSyncEnabled",
	"assignedLicenses",
}

type userPage struct {
	Value    []wireUser `json:"value"`
	NextLink string     `json:"@odata.nextLink"`
}

// UsersQuery builds the list path for accounts whose mail ends with @domain.
func UsersQuery(domain string) string {
	q := url.Values{}
	q.Set("$select", strings.Join(userFields, ","))
	q.Set("$filter", fmt.Sprintf("endswith(mail,'@%s')", strings.ReplaceAll(domain, "'", "''")))
	q.Set("$orderby", "userPrincipalName")
	q.Set("$count", "true")
	q.Set("$expand", "manager($levels=1;$select=id,mail)")

	return "/users?" + q.Encode()
}

// ListUsers pages through every account in the mail domain.
func (c *Client) ListUsers(ctx context.Context, domain string) ([]User, error) {
	header := http.Header{}
	header.Set("ConsistencyLevel", "eventual")

	var users []User

	for next := UsersQuery(domain); next != ""; {
		var page userPage
		if err := c.getJSON(ctx, next, header, &page); err != nil {
			return nil, err
		}

		for i := range page.Value {
			users = append(users, page.Value[i].snapshot())
		}

		next = page.NextLink
	}

	return users, nil
}

// CreateUser creates an account and returns its object id.
func (c *Client) CreateUser(ctx context.Context, u NewUser) (string, error) {
	b, err := c.do(ctx, http.MethodPost, "/users", u, nil)
	if err != nil {
		return "", err
	}

	var created struct {
		ID string `json:"id"`
	}

	if err = json.Unmarshal(b, &created); err != nil {
		return "", fmt.Errorf("decode created user: %w", err)
	}

	if created.ID == "" {
		return "", ErrEmptyID
	}

	return created.ID, nil
}

// UpdateUser patches account properties.
func (c *Client) UpdateUser(ctx context.Context, id string, patch map[string]any) error {
	_, err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), patch, nil)

	return err
}

// SetManager points the account's manager at managerID.
func (c *Client) SetManager(ctx context.Context, id, managerID string) error {
	_, err := c.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id)+"/manager/$ref", c.objectRef("users", managerID), nil)

	return err
}

// AssignLicences adds the SKUs to the account.
func (c *Client) AssignLicences(ctx context.Context, id string, licences []Licence) error {
	body := struct {
		AddLicenses    []Licence `json:"addLicenses"`
		RemoveLicenses []string  `json:"removeLicenses"`
	}{AddLicenses: make([]Licence, len(licences)), RemoveLicenses: []string{}}

	for i, l := range licences {
		if l.DisabledPlans == nil {
			l.DisabledPlans = []string{}
		}

		body.AddLicenses[i] = l
	}

	_, err := c.do(ctx, http.MethodPost, "/users/"+url.PathEscape(id)+"/assignLicense", body, nil)

	return err
}
