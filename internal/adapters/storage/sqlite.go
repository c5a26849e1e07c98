package storage

// sqlite.go — histórico de scans en SQLite (pure Go, sin CGo).
//
// Estrategia:
//   - `scans`: una fila por ciclo con resumen (total, mejor profit).
//   - `opportunities`: una fila por oportunidad detectada, ligada a su scan.
//   - Prune automático al arrancar: datos con más de 30 días fuera.

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alejandrodnm/polyarb/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
-- Resumen por ciclo de scan
CREATE TABLE IF NOT EXISTS scans (
    scan_id     TEXT PRIMARY KEY,
    scanned_at  DATETIME NOT NULL,
    total       INTEGER  NOT NULL DEFAULT 0,
    best_profit REAL     NOT NULL DEFAULT 0
);

-- Una fila por oportunidad detectada
CREATE TABLE IF NOT EXISTS opportunities (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    scan_id         TEXT NOT NULL REFERENCES scans(scan_id),
    question        TEXT NOT NULL,
    kind            TEXT NOT NULL,
    side            TEXT NOT NULL,
    profit_pct      REAL NOT NULL DEFAULT 0,
    max_size        REAL NOT NULL DEFAULT 0,
    max_profit_usd  REAL NOT NULL DEFAULT 0,
    yes_price       REAL NOT NULL DEFAULT 0,
    no_price        REAL NOT NULL DEFAULT 0,
    aggregate_price REAL NOT NULL DEFAULT 0,
    event_slug      TEXT,
    details         TEXT,
    detected_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_scans_at       ON scans(scanned_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_scan       ON opportunities(scan_id);
CREATE INDEX IF NOT EXISTS idx_opp_detected   ON opportunities(detected_at DESC);
CREATE INDEX IF NOT EXISTS idx_opp_profit     ON opportunities(profit_pct DESC);
`

// retention define cuánto histórico se conserva.
const retention = 30 * 24 * time.Hour

// SQLiteStorage implementa ports.Storage usando SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia datos antiguos.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveScan persiste el resumen del ciclo y todas sus oportunidades.
// Un scan sin oportunidades también se registra — el histórico de ciclos
// vacíos es señal de mercados eficientes.
func (s *SQLiteStorage) SaveScan(ctx context.Context, scanID string, opportunities []domain.Opportunity) error {
	now := time.Now().UTC()

	best := 0.0
	if len(opportunities) > 0 {
		best = opportunities[0].ProfitPct
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveScan: begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (scan_id, scanned_at, total, best_profit) VALUES (?, ?, ?, ?)`,
		scanID, now, len(opportunities), best,
	); err != nil {
		return fmt.Errorf("storage.SaveScan: insert scan: %w", err)
	}

	if len(opportunities) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO opportunities
				(scan_id, question, kind, side, profit_pct, max_size, max_profit_usd,
				 yes_price, no_price, aggregate_price, event_slug, details, detected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("storage.SaveScan: prepare: %w", err)
		}
		defer stmt.Close()

		for _, opp := range opportunities {
			if _, err := stmt.ExecContext(ctx,
				scanID,
				opp.Question,
				string(opp.Kind),
				string(opp.Side),
				opp.ProfitPct,
				opp.MaxSize,
				opp.MaxProfitUSD,
				opp.YesPrice,
				opp.NoPrice,
				opp.AggregatePrice,
				opp.EventSlug,
				opp.Details,
				now,
			); err != nil {
				return fmt.Errorf("storage.SaveScan: insert opportunity %q: %w", opp.Question, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage.SaveScan: commit: %w", err)
	}
	return nil
}

// GetHistory devuelve las oportunidades detectadas en el rango dado,
// ordenadas por profit desc — las mejores primero.
func (s *SQLiteStorage) GetHistory(ctx context.Context, from, to time.Time) ([]domain.Opportunity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question, kind, side, profit_pct, max_size, max_profit_usd,
		       yes_price, no_price, aggregate_price, event_slug, details
		FROM opportunities
		WHERE detected_at BETWEEN ? AND ?
		ORDER BY profit_pct DESC
	`, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("storage.GetHistory: query: %w", err)
	}
	defer rows.Close()

	var opps []domain.Opportunity
	for rows.Next() {
		var opp domain.Opportunity
		var kind, side string
		var eventSlug, details sql.NullString

		if err := rows.Scan(
			&opp.Question,
			&kind,
			&side,
			&opp.ProfitPct,
			&opp.MaxSize,
			&opp.MaxProfitUSD,
			&opp.YesPrice,
			&opp.NoPrice,
			&opp.AggregatePrice,
			&eventSlug,
			&details,
		); err != nil {
			return nil, fmt.Errorf("storage.GetHistory: scan row: %w", err)
		}

		opp.Kind = domain.ArbKind(kind)
		opp.Side = domain.Side(side)
		opp.EventSlug = eventSlug.String
		opp.Details = details.String
		opps = append(opps, opp)
	}

	return opps, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// pruneOld elimina datos antiguos para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retention)
	s.db.ExecContext(ctx, `DELETE FROM opportunities WHERE detected_at < ?`, cutoff)
	s.db.ExecContext(ctx, `DELETE FROM scans WHERE scanned_at < ?`, cutoff)
}
