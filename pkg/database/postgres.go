package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"retail-insights/pkg/dataset"
)

// LoadTablePostgres lit la table nettoyée depuis PostgreSQL (URL postgres://...).
func LoadTablePostgres(ctx context.Context, connURL, tableName string, logger *logrus.Logger) (*dataset.Table, error) {
	if err := checkTable(tableName); err != nil {
		return nil, err
	}
	cfg, err := pgxpool.ParseConfig(connURL)
	if err != nil {
		return nil, fmt.Errorf("postgres: configuration invalide: %w", err)
	}
	cfg.MaxConns = 2
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: pool: %w", err)
	}
	defer pool.Close()

	start := time.Now()
	rows, err := pool.Query(ctx, "SELECT * FROM "+pgx.Identifier{tableName}.Sanitize())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", tableName, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	t := &dataset.Table{Columns: make([]string, len(fields))}
	for i, f := range fields {
		t.Columns[i] = f.Name
	}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", tableName, err)
		}
		for i, v := range values {
			values[i] = pgValue(v)
		}
		t.Rows = append(t.Rows, toStrings(values))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"table":   tableName,
		"host":    cfg.ConnConfig.Host,
		"rows":    len(t.Rows),
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("postgres table loaded")
	return t, nil
}

// pgValue ramène les types pgx non standards (numeric) à un float.
func pgValue(v any) any {
	if n, ok := v.(pgtype.Numeric); ok {
		if !n.Valid {
			return nil
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return v
}
