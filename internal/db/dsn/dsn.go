// Package dsn provides Data Source Name construction utilities for database connections.
package dsn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/itassets/identity-sync/internal/config"
)

// Create builds the gorm Data Source Name for the configured engine.
func Create(db *config.DB) string {
	switch db.GormEngine {
	case config.EnginePostgres:
		out := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d",
			db.Host,
			db.User,
			db.Password,
			db.Name,
			db.Port,
		)

		if db.Extras != "" {
			out += " " + strings.ReplaceAll(db.Extras, "&", " ")
		}

		return out
	case config.EngineSQLite:
		if db.Extras != "" {
			return db.Name + "?" + db.Extras
		}

		return db.Name
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
			db.User,
			db.Password,
			db.Host,
			db.Port,
			db.Name,
			db.Extras,
		)
	}
}

// URI builds the connection URI the gofiber storage drivers expect.
func URI(db *config.DB) string {
	if db.GormEngine != config.EnginePostgres {
		return Create(db)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(db.User, db.Password),
		Host:     net.JoinHostPort(db.Host, strconv.Itoa(db.Port)),
		Path:     "/" + db.Name,
		RawQuery: db.Extras,
	}

	return u.String()
}
