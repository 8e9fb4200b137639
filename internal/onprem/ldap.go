package onprem

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net"
	"strconv"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
)

const (
	// uacAccountDisable is the userAccountControl ACCOUNTDISABLE flag.
	uacAccountDisable = 0x2

	// filetimeUnixOffset is the number of 100ns intervals between 1601-01-01 and 1970-01-01.
	filetimeUnixOffset = 116444736000000000
	filetimeSecond     = 10000000

	defaultUserFilter = "(&(objectCategory=person)(objectClass=user))"
	defaultPageSize   = 500
)

// LDAPConfig holds the Active Directory connection used to snapshot accounts.
type LDAPConfig struct {
	// Enabled indicates if the LDAP snapshot pass is enabled.
	Enabled bool
	// Host is the LDAP server hostname or IP address.
	Host string `validate:"required_if=Enabled true"`
	// Port is the LDAP server port (typically 389 for LDAP, 636 for LDAPS).
	Port int
	// UseSSL enables LDAPS (LDAP over SSL/TLS).
	UseSSL bool
	// UseTLS enables StartTLS to upgrade an LDAP connection to TLS.
	UseTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
	// BindDN is the distinguished name to bind with for performing searches.
	BindDN string
	// BindPassword is the password for the bind DN.
	BindPassword string
	// BaseDN is the base distinguished name for account searches.
	BaseDN string `validate:"required_if=Enabled true"`
	// UserFilter selects the accounts to snapshot.
	UserFilter string
	// PageSize is the paged search size.
	PageSize uint32
	// Timeout is the connection timeout in seconds.
	Timeout int
}

// userAttributes are the attributes read into a User.
var userAttributes = []string{ //nolint:gochecknoglobals
	"objectGUID", "distinguishedName", "mail", "displayName", "givenName", "sn", "title",
	"company", "department", "telephoneNumber", "mobile", "employeeID", "manager",
	"physicalDeliveryOfficeName", "streetAddress", "userAccountControl", "accountExpires",
}

// Directory reads account snapshots from Active Directory.
type Directory struct {
	config *LDAPConfig
}

// NewDirectory creates a new LDAP snapshot source.
func NewDirectory(config *LDAPConfig) (*Directory, error) {
	if !config.Enabled {
		return nil, ErrLDAPDisabled
	}

	if config.UserFilter == "" {
		config.UserFilter = defaultUserFilter
	}

	if config.PageSize == 0 {
		config.PageSize = defaultPageSize
	}

	if config.Timeout == 0 {
		config.Timeout = 10
	}

	return &Directory{config: config}, nil
}

// Connect establishes a connection to the LDAP server.
func (d *Directory) Connect() (*ldap.Conn, error) {
	hostPort := net.JoinHostPort(d.config.Host, strconv.Itoa(d.config.Port))

	ldapURL := "ldap://" + hostPort
	if d.config.UseSSL {
		ldapURL = "ldaps://" + hostPort
	}

	var tlsConfig *tls.Config
	if d.config.UseSSL || d.config.UseTLS {
		tlsConfig = &tls.Config{
			InsecureSkipVerify: d.config.SkipVerify, //nolint:gosec // skipping verifying tls is ok
			ServerName:         d.config.Host,
		}
	}

	conn, err := ldap.DialURL(ldapURL, ldap.DialWithTLSConfig(tlsConfig))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to LDAP server: %w", err)
	}

	if !d.config.UseSSL && d.config.UseTLS {
		if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
			if errClose := conn.Close(); errClose != nil {
				log.Error().Err(errClose).Msg("failed to close LDAP connection")
			}

			return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
		}
	}

	if d.config.Timeout > 0 {
		conn.SetTimeout(time.Duration(d.config.Timeout) * time.Second)
	}

	return conn, nil
}

// Users returns a snapshot of every account matching the configured filter, keyed by GUID.
// Entries without a usable objectGUID are skipped.
func (d *Directory) Users(ctx context.Context) (map[string]User, error) {
	conn, err := d.Connect()
	if err != nil {
		return nil, err
	}

	defer func() {
		if errClose := conn.Close(); errClose != nil {
			log.Warn().Err(errClose).Msg("failed to close LDAP connection")
		}
	}()

	if d.config.BindDN != "" {
		if err = conn.Bind(d.config.BindDN, d.config.BindPassword); err != nil {
			return nil, fmt.Errorf("failed to bind with service account: %w", err)
		}
	}

	if err = ctx.Err(); err != nil {
		return nil, err
	}

	searchRequest := ldap.NewSearchRequest(
		d.config.BaseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0,
		d.config.Timeout,
		false,
		d.config.UserFilter,
		userAttributes,
		nil,
	)

	result, err := conn.SearchWithPaging(searchRequest, d.config.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to search for accounts: %w", err)
	}

	users := make(map[string]User, len(result.Entries))

	for _, entry := range result.Entries {
		u, errEntry := UserFromEntry(entry)
		if errEntry != nil {
			log.Debug().Err(errEntry).Str("dn", entry.DN).Msg("skipping directory entry")
			continue
		}

		users[u.ObjectGUID] = u
	}

	return users, nil
}

// UserFromEntry maps a search entry to a User.
func UserFromEntry(entry *ldap.Entry) (User, error) {
	guid, err := GUIDFromBytes(entry.GetRawAttributeValue("objectGUID"))
	if err != nil {
		return User{}, err
	}

	dn := entry.GetAttributeValue("distinguishedName")
	if dn == "" {
		dn = entry.DN
	}

	u := User{
		ObjectGUID:                 guid,
		DistinguishedName:          dn,
		Mail:                       entry.GetAttributeValue("mail"),
		DisplayName:                entry.GetAttributeValue("displayName"),
		GivenName:                  entry.GetAttributeValue("givenName"),
		Surname:                    entry.GetAttributeValue("sn"),
		Title:                      entry.GetAttributeValue("title"),
		Company:                    entry.GetAttributeValue("company"),
		Department:                 entry.GetAttributeValue("department"),
		TelephoneNumber:            entry.GetAttributeValue("telephoneNumber"),
		Mobile:                     entry.GetAttributeValue("mobile"),
		EmployeeID:                 entry.GetAttributeValue("employeeID"),
		Manager:                    entry.GetAttributeValue("manager"),
		PhysicalDeliveryOfficeName: entry.GetAttributeValue("physicalDeliveryOfficeName"),
		StreetAddress:              entry.GetAttributeValue("streetAddress"),
		Enabled:                    true,
	}

	if uac, errUAC := strconv.ParseInt(entry.GetAttributeValue("userAccountControl"), 10, 64); errUAC == nil {
		u.Enabled = uac&uacAccountDisable == 0
	}

	u.AccountExpirationDate = FiletimeToTime(entry.GetAttributeValue("accountExpires"))

	return u, nil
}

// FiletimeToTime converts an accountExpires value. Zero, the maximum value and garbage all
// mean the account never expires.
func FiletimeToTime(s string) *time.Time {
	ft, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ft <= 0 || ft == math.MaxInt64 {
		return nil
	}

	intervals := ft - filetimeUnixOffset
	t := time.Unix(intervals/filetimeSecond, (intervals%filetimeSecond)*100).UTC() //nolint:mnd

	return &t
}
