package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	appName string = "ql-cleaner"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	cfg := LoadConfiguration(ctx)

	days, err := cfg.RetentionDays()
	if err != nil {
		log.Error("bad retention configuration", "err", err.Error())
		os.Exit(1)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	log.Debug("begin pruning time series", "schema", cfg.Schema(), slog.Time("cutoff", cutoff))

	p, err := connect(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "err", err.Error())
		os.Exit(1)
	}
	defer p.Close()

	tables, err := getEntityTables(ctx, p, cfg.Schema())
	if err != nil {
		log.Error("failed to get entity tables", "err", err.Error())
		os.Exit(1)
	}

	log.Debug("number of entity tables", "count", len(tables))

	var totalCount int64 = 0

	for _, table := range tables {
		l := log.With(slog.String("table", table))

		l.Debug("pruning aged rows", slog.Time("start_time", time.Now()))

		deleted, err := deleteAgedRows(ctx, p, cfg.Schema(), table, cutoff)
		if err != nil {
			l.Error("failed to delete aged rows", "err", err.Error())
			os.Exit(1)
		}

		if deleted == 0 {
			l.Debug("found no aged rows", slog.Time("end_time", time.Now()))
			continue
		}

		totalCount += deleted

		err = vacuum(ctx, p, cfg.Schema(), table)
		if err != nil {
			l.Error("failed to vacuum table", "err", err.Error())
			os.Exit(1)
		}

		l.Debug("done pruning table", slog.Int64("count", deleted), slog.Time("end_time", time.Now()))
	}

	log.Info("done pruning", slog.Int64("total", totalCount))
}

type Config struct {
	host      string
	user      string
	password  string
	port      string
	dbname    string
	sslmode   string
	tenant    string
	retention string
}

func LoadConfiguration(ctx context.Context) Config {
	return Config{
		host:      env.GetVariableOrDefault(ctx, "POSTGRES_HOST", ""),
		user:      env.GetVariableOrDefault(ctx, "POSTGRES_USER", ""),
		password:  env.GetVariableOrDefault(ctx, "POSTGRES_PASSWORD", ""),
		port:      env.GetVariableOrDefault(ctx, "POSTGRES_PORT", "5432"),
		dbname:    env.GetVariableOrDefault(ctx, "POSTGRES_DBNAME", "quantumleap"),
		sslmode:   env.GetVariableOrDefault(ctx, "POSTGRES_SSLMODE", "disable"),
		tenant:    env.GetVariableOrDefault(ctx, "QL_TENANT", "default"),
		retention: env.GetVariableOrDefault(ctx, "RETENTION_DAYS", "30"),
	}
}

func (c Config) ConnStr() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", c.user, c.password, c.host, c.port, c.dbname, c.sslmode)
}

// Schema returns the database schema QuantumLeap keeps the tenant's time
// series in
func (c Config) Schema() string {
	return "mt" + strings.ToLower(c.tenant)
}

func (c Config) RetentionDays() (int, error) {
	days, err := strconv.Atoi(c.retention)
	if err != nil {
		return 0, fmt.Errorf("RETENTION_DAYS must be a number: %s", err.Error())
	}

	if days < 1 {
		return 0, fmt.Errorf("RETENTION_DAYS must be positive, not %d", days)
	}

	return days, nil
}

func connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	conn, err := pgxpool.New(ctx, cfg.ConnStr())
	if err != nil {
		return nil, err
	}

	err = conn.Ping(ctx)
	if err != nil {
		return nil, err
	}

	return conn, err
}

// getEntityTables finds the per entity type tables (etdevice, etweatherobserved, ...)
// that QuantumLeap has created in the tenant's schema
func getEntityTables(ctx context.Context, p *pgxpool.Pool, schema string) ([]string, error) {
	sql := `SELECT table_name FROM information_schema.tables WHERE table_schema=$1 AND table_name LIKE 'et%' ORDER BY table_name;`

	rows, err := p.Query(ctx, sql, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tables := make([]string, 0)

	for rows.Next() {
		var t string
		err := rows.Scan(&t)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tables, nil
}

func deleteAgedRows(ctx context.Context, p *pgxpool.Pool, schema, table string, cutoff time.Time) (int64, error) {
	sql := fmt.Sprintf(`DELETE FROM %s WHERE time_index < $1;`, pgx.Identifier{schema, table}.Sanitize())

	tag, err := p.Exec(ctx, sql, cutoff)
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}

func vacuum(ctx context.Context, p *pgxpool.Pool, schema, table string) error {
	_, err := p.Exec(ctx, fmt.Sprintf("VACUUM ANALYZE %s;", pgx.Identifier{schema, table}.Sanitize()))
	if err != nil {
		return err
	}

	return nil
}
