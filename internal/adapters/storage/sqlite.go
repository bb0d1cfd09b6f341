package storage

// sqlite.go — persistencia de runs de simulación.
//
// Estrategia:
//   - `runs`: una fila por ejecución (uuid, tipo, semilla, tamaños).
//   - `markets`: dos filas por mercado simulado (una por empresa), solo
//     para runs de panel. Los valores NaN del centinela se guardan como
//     NULL para que SQLite no los degrade en silencio.
//   - `summaries`: una fila por (estimador × coeficiente) del resumen.
//   - Prune automático al arrancar: runs con más de 90 días se borran en
//     cascada — un laboratorio de notebooks no necesita histórico eterno.

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/mcmarkets/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id         TEXT PRIMARY KEY,
    kind       TEXT     NOT NULL,
    seed       INTEGER  NOT NULL,
    markets    INTEGER  NOT NULL DEFAULT 0,
    samples    INTEGER  NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS markets (
    run_id    TEXT    NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    market_id INTEGER NOT NULL,
    firm      INTEGER NOT NULL,
    price     REAL,
    share     REAL,
    outside   REAL,
    x         REAL,
    w         REAL,
    cost      REAL,
    profit    REAL,
    converged INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (run_id, market_id, firm)
);

CREATE TABLE IF NOT EXISTS summaries (
    run_id     TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    estimator  TEXT NOT NULL,
    param      TEXT NOT NULL,
    true_value REAL NOT NULL,
    mean       REAL NOT NULL,
    std_dev    REAL NOT NULL,
    PRIMARY KEY (run_id, estimator, param)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC);
`

const retentionRuns = 90 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada, aplica
// el schema y borra runs antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SavePanel guarda el run y sus filas de mercado en una transacción.
func (s *SQLiteStorage) SavePanel(ctx context.Context, kind string, panel *domain.Panel) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("storage.SavePanel: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, kind, seed, markets, samples, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		runID, kind, int64(panel.Seed), panel.Markets(), 0, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("storage.SavePanel: insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO markets (run_id, market_id, firm, price, share, outside, x, w, cost, profit, converged)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("storage.SavePanel: prepare: %w", err)
	}
	defer stmt.Close()

	for _, row := range panel.Rows {
		_, err := stmt.ExecContext(ctx,
			runID, row.MarketID, int(row.Firm),
			nullable(row.Price), nullable(row.Share), nullable(row.Outside),
			nullable(row.X), nullable(row.W), nullable(row.Cost), nullable(row.Profit),
			boolToInt(row.Converged))
		if err != nil {
			return "", fmt.Errorf("storage.SavePanel: insert market %d/%d: %w", row.MarketID, row.Firm, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("storage.SavePanel: commit: %w", err)
	}
	return runID, nil
}

// SaveSummary guarda los estadísticos del resumen bajo el run dado, y
// actualiza los tamaños del run (un run Monte Carlo no persiste paneles,
// solo el agregado).
func (s *SQLiteStorage) SaveSummary(ctx context.Context, runID string, summary *domain.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveSummary: begin: %w", err)
	}
	defer tx.Rollback()

	if runID == "" {
		runID = uuid.NewString()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO runs (id, kind, seed, markets, samples, created_at) VALUES (?, 'montecarlo', ?, ?, ?, ?)`,
			runID, int64(summary.Seed), summary.Markets, summary.Samples, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("storage.SaveSummary: insert run: %w", err)
		}
	} else {
		_, err = tx.ExecContext(ctx,
			`UPDATE runs SET samples = ? WHERE id = ?`, summary.Samples, runID)
		if err != nil {
			return fmt.Errorf("storage.SaveSummary: update run: %w", err)
		}
	}

	for _, st := range summary.Stats {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO summaries (run_id, estimator, param, true_value, mean, std_dev)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			runID, string(st.Estimator), st.Param, st.True, st.Mean, st.StdDev)
		if err != nil {
			return fmt.Errorf("storage.SaveSummary: insert stat %s/%s: %w", st.Estimator, st.Param, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveSummary: commit: %w", err)
	}
	return nil
}

// GetPanel reconstruye el panel de un run de tipo panel.
func (s *SQLiteStorage) GetPanel(ctx context.Context, runID string) (*domain.Panel, error) {
	var seed int64
	err := s.db.QueryRowContext(ctx, `SELECT seed FROM runs WHERE id = ?`, runID).Scan(&seed)
	if err != nil {
		return nil, fmt.Errorf("storage.GetPanel: run %q: %w", runID, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT market_id, firm, price, share, outside, x, w, cost, profit, converged
		 FROM markets WHERE run_id = ? ORDER BY market_id, firm`, runID)
	if err != nil {
		return nil, fmt.Errorf("storage.GetPanel: query: %w", err)
	}
	defer rows.Close()

	panel := &domain.Panel{Seed: uint64(seed)}
	for rows.Next() {
		var r domain.PanelRow
		var firm, converged int
		var price, share, outside, x, w, cost, profit sql.NullFloat64
		if err := rows.Scan(&r.MarketID, &firm, &price, &share, &outside, &x, &w, &cost, &profit, &converged); err != nil {
			return nil, fmt.Errorf("storage.GetPanel: scan: %w", err)
		}
		r.Firm = domain.Firm(firm)
		r.Price = orNaN(price)
		r.Share = orNaN(share)
		r.Outside = orNaN(outside)
		r.X = orNaN(x)
		r.W = orNaN(w)
		r.Cost = orNaN(cost)
		r.Profit = orNaN(profit)
		r.Converged = converged != 0
		panel.Rows = append(panel.Rows, r)
	}
	return panel, rows.Err()
}

// Close cierra la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld borra runs más antiguos que la ventana de retención. Best
// effort: un fallo solo se loguea implícitamente al ignorarse.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
}

// nullable convierte NaN/Inf en NULL para no perder el centinela al leer.
func nullable(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

// orNaN es la inversa de nullable.
func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
