// Package source reads the three NTD extracts from the configured place: CSV files or a
// ClickHouse, Postgres or SQLite database.
package source

import (
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	tr "github.com/invertedv/transit"
	"github.com/invertedv/transit/config"
	"github.com/invertedv/transit/ntd"
	_ "github.com/jackc/pgx/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Inputs are the extracts an analysis runs on.
type Inputs struct {
	Service *tr.Table
	Expense *tr.Table
	Train   *tr.Table
}

// Open connects to a database of kind (config.ClickHouse, config.Postgres or config.SQLite)
// and checks the connection.
func Open(kind, dsn string) (*sql.DB, error) {
	var (
		db *sql.DB
		e  error
	)

	switch kind {
	case config.ClickHouse:
		var opts *clickhouse.Options
		if opts, e = clickhouse.ParseDSN(dsn); e != nil {
			return nil, fmt.Errorf("source: clickhouse dsn: %w", e)
		}

		if opts.Compression == nil {
			opts.Compression = &clickhouse.Compression{Method: clickhouse.CompressionLZ4}
		}
		db = clickhouse.OpenDB(opts)
	case config.Postgres:
		if db, e = sql.Open("pgx", dsn); e != nil {
			return nil, e
		}
	case config.SQLite:
		if db, e = sql.Open("sqlite", dsn); e != nil {
			return nil, e
		}
	default:
		return nil, fmt.Errorf("source: %s is not a database", kind)
	}

	if e := db.Ping(); e != nil {
		_ = db.Close()
		return nil, fmt.Errorf("source: connect to %s: %w", kind, e)
	}

	return db, nil
}

// Load reads and checks the extracts described by cfg for year.
func Load(cfg config.SourceConfig, year int, logger *zap.Logger) (*Inputs, error) {
	if cfg.Kind == config.CSV {
		return loadFiles(cfg, year, logger)
	}

	db, e := Open(cfg.Kind, cfg.ResolveDSN())
	if e != nil {
		return nil, e
	}

	var d *tr.Dialect
	if d, e = tr.NewDialect(cfg.Kind, db); e != nil {
		_ = db.Close()
		return nil, e
	}
	defer func() { _ = d.Close() }()

	return loadQueries(d, cfg.Queries, year, logger)
}

func loadFiles(cfg config.SourceConfig, year int, logger *zap.Logger) (*Inputs, error) {
	in := &Inputs{}
	targets := []struct {
		kind ntd.Kind
		path string
		dest **tr.Table
	}{
		{ntd.Service, cfg.Service, &in.Service},
		{ntd.Expense, cfg.Expense, &in.Expense},
		{ntd.Train, cfg.Train, &in.Train},
	}

	for _, tg := range targets {
		tab, e := ntd.Load(tg.path, tg.kind, year)
		if e != nil {
			return nil, e
		}

		logger.Debug("loaded extract", zap.Stringer("extract", tg.kind), zap.String("file", tg.path),
			zap.Int("rows", tab.RowCount()), zap.Int("columns", tab.ColumnCount()))
		*tg.dest = tab
	}

	return in, nil
}

func loadQueries(d *tr.Dialect, qry config.QueryConfig, year int, logger *zap.Logger) (*Inputs, error) {
	in := &Inputs{}
	targets := []struct {
		kind ntd.Kind
		qry  string
		dest **tr.Table
	}{
		{ntd.Service, qry.Service, &in.Service},
		{ntd.Expense, qry.Expense, &in.Expense},
		{ntd.Train, qry.Train, &in.Train},
	}

	for _, tg := range targets {
		tab, e := d.Load(tg.qry)
		if e != nil {
			return nil, fmt.Errorf("source: %s query: %w", tg.kind, e)
		}

		if e := ntd.Check(tab, tg.kind, year, tg.qry); e != nil {
			return nil, e
		}

		logger.Debug("loaded extract", zap.Stringer("extract", tg.kind), zap.String("dialect", d.DialectName()),
			zap.Int("rows", tab.RowCount()), zap.Int("columns", tab.ColumnCount()))
		*tg.dest = tab
	}

	return in, nil
}
