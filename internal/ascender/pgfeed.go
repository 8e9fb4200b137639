package ascender

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itassets/identity-sync/internal/logger/adapter/pgxlogger"
)

// Config holds the HR database connection and view names.
type Config struct {
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string // disable, require, verify-full ...

	Schema         string
	Table          string // job view, one row per employee job
	CCManagerTable string // cost centre manager view

	// Positions of the paypoint and manager employee number in the cost centre manager view.
	CCManagerCodeColumn     int
	CCManagerEmployeeColumn int

	QueryTimeout time.Duration
	LogLevel     string // pgx trace level
}

// DSN returns the postgres connection URL.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}

	if c.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{c.SSLMode}}.Encode()
	}

	return u.String()
}

// JobQuery builds the select over the job view ordered by employee number.
func JobQuery(schema, table string) string {
	return fmt.Sprintf("SELECT %s FROM %s ORDER BY employee_no",
		strings.Join(ColumnNames(), ", "),
		pgx.Identifier{schema, table}.Sanitize(),
	)
}

// Feed reads the HR views through a pgx pool.
type Feed struct {
	pool *pgxpool.Pool
	cfg  Config
}

// Connect opens the pool and verifies the connection.
func Connect(ctx context.Context, cfg Config) (*Feed, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse HR database config: %w", err)
	}

	pc.ConnConfig.Tracer = pgxlogger.NewTracer(cfg.LogLevel)

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("open HR database pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("HR database ping failed: %w", err)
	}

	return &Feed{pool: pool, cfg: cfg}, nil
}

// Close releases the pool.
func (f *Feed) Close() {
	f.pool.Close()
}

// Rows implements Source.
func (f *Feed) Rows(ctx context.Context, fn func(values []any) error) error {
	if f.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.cfg.QueryTimeout)

		defer cancel()
	}

	rows, err := f.pool.Query(ctx, JobQuery(f.cfg.Schema, f.cfg.Table))
	if err != nil {
		return fmt.Errorf("query HR jobs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		values, errValues := rows.Values()
		if errValues != nil {
			return fmt.Errorf("read HR row: %w", errValues)
		}

		if err = fn(values); err != nil {
			return err
		}
	}

	return rows.Err()
}

// CostCentreManager links an HR paypoint to the employee managing it.
type CostCentreManager struct {
	Paypoint   string
	EmployeeID string
}

// CostCentreManagers reads the cost centre manager view.
func (f *Feed) CostCentreManagers(ctx context.Context) ([]CostCentreManager, error) {
	rows, err := f.pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{f.cfg.Schema, f.cfg.CCManagerTable}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query cost centre managers: %w", err)
	}
	defer rows.Close()

	var out []CostCentreManager

	for rows.Next() {
		values, errValues := rows.Values()
		if errValues != nil {
			return nil, fmt.Errorf("read cost centre manager row: %w", errValues)
		}

		m, errRow := costCentreManagerFromRow(values, f.cfg.CCManagerCodeColumn, f.cfg.CCManagerEmployeeColumn)
		if errRow != nil {
			return nil, errRow
		}

		out = append(out, m)
	}

	return out, rows.Err()
}

func costCentreManagerFromRow(values []any, codeCol, empCol int) (CostCentreManager, error) {
	if codeCol >= len(values) || empCol >= len(values) || codeCol < 0 || empCol < 0 {
		return CostCentreManager{}, ErrColumnCount
	}

	code, err := coerceText(values[codeCol])
	if err != nil {
		return CostCentreManager{}, err
	}

	emp, err := coerceText(values[empCol])
	if err != nil {
		return CostCentreManager{}, err
	}

	return CostCentreManager{Paypoint: code, EmployeeID: emp}, nil
}
