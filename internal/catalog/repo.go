package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/starford/herbscope/internal/apperr"
	"github.com/starford/herbscope/internal/dataset"
	"github.com/starford/herbscope/internal/herb"
)

var _ dataset.Source = (*DB)(nil)

// Info describes the stored snapshot.
type Info struct {
	Checksum  string
	Source    string
	LoadedAt  time.Time
	Herbs     int
	Relations int
}

// Replace stores ds as the only snapshot, inside one transaction.
func (db *DB) Replace(ctx context.Context, ds *herb.Dataset, source string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("catalog: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	for _, q := range []string{`DELETE FROM relations`, `DELETE FROM herbs`, `DELETE FROM snapshot`} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("catalog: clear: %w", err)
		}
	}

	herbStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO herbs (position, name, alias, frequency, category, nature, flavor, meridian, dose, era, mw, logp, ob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare herb insert: %w", err)
	}
	defer herbStmt.Close()
	for i, h := range ds.Herbs {
		if _, err := herbStmt.ExecContext(ctx, i, h.Name, h.Alias, h.Frequency,
			string(h.Category), string(h.Nature), string(h.Flavor), string(h.Meridian),
			h.Dose, string(h.Era), h.Molecular.Weight, h.Molecular.LogP, h.Molecular.OralBioavailability); err != nil {
			return fmt.Errorf("catalog: insert herb %q: %w", h.Name, err)
		}
	}

	relStmt, err := tx.PrepareContext(ctx, `INSERT INTO relations (position, source, target, weight) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("catalog: prepare relation insert: %w", err)
	}
	defer relStmt.Close()
	for i, r := range ds.Relations {
		if _, err := relStmt.ExecContext(ctx, i, r.Source, r.Target, r.Weight); err != nil {
			return fmt.Errorf("catalog: insert relation %s-%s: %w", r.Source, r.Target, err)
		}
	}

	loadedAt := ds.LoadedAt
	if loadedAt.IsZero() {
		loadedAt = time.Now().UTC()
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO snapshot (id, checksum, source, loaded_at) VALUES (1, ?, ?, ?)`,
		ds.Checksum, source, loadedAt); err != nil {
		return fmt.Errorf("catalog: insert snapshot: %w", err)
	}
	return tx.Commit()
}

// Info returns metadata about the stored snapshot, or apperr.ErrEmptyDataset
// when nothing has been imported yet.
func (db *DB) Info(ctx context.Context) (Info, error) {
	var info Info
	err := db.conn.QueryRowContext(ctx, `SELECT checksum, source, loaded_at FROM snapshot WHERE id = 1`).
		Scan(&info.Checksum, &info.Source, &info.LoadedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("catalog: %w: nothing imported into %s", apperr.ErrEmptyDataset, db.dsn)
	}
	if err != nil {
		return Info{}, fmt.Errorf("catalog: read snapshot: %w", err)
	}
	if err := db.conn.QueryRowContext(ctx, `SELECT (SELECT count(*) FROM herbs), (SELECT count(*) FROM relations)`).
		Scan(&info.Herbs, &info.Relations); err != nil {
		return Info{}, fmt.Errorf("catalog: count: %w", err)
	}
	return info, nil
}

// Load reads the stored snapshot back in insertion order.
func (db *DB) Load(ctx context.Context) (*herb.Dataset, error) {
	info, err := db.Info(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT name, alias, frequency, category, nature, flavor, meridian, dose, era, mw, logp, ob
		FROM herbs ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query herbs: %w", err)
	}
	defer rows.Close()
	herbs := make([]herb.Record, 0, info.Herbs)
	for rows.Next() {
		var h herb.Record
		var cat, nat, flav, mer, era string
		if err := rows.Scan(&h.Name, &h.Alias, &h.Frequency, &cat, &nat, &flav, &mer, &h.Dose, &era,
			&h.Molecular.Weight, &h.Molecular.LogP, &h.Molecular.OralBioavailability); err != nil {
			return nil, fmt.Errorf("catalog: scan herb: %w", err)
		}
		h.Category, h.Nature, h.Flavor, h.Meridian, h.Era = herb.Category(cat), herb.Nature(nat), herb.Flavor(flav), herb.Meridian(mer), herb.Era(era)
		herbs = append(herbs, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate herbs: %w", err)
	}

	relRows, err := db.conn.QueryContext(ctx, `SELECT source, target, weight FROM relations ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("catalog: query relations: %w", err)
	}
	defer relRows.Close()
	relations := make([]herb.Relation, 0, info.Relations)
	for relRows.Next() {
		var r herb.Relation
		if err := relRows.Scan(&r.Source, &r.Target, &r.Weight); err != nil {
			return nil, fmt.Errorf("catalog: scan relation: %w", err)
		}
		relations = append(relations, r)
	}
	if err := relRows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate relations: %w", err)
	}

	return herb.NewDataset(herbs, relations, info.Checksum, info.LoadedAt), nil
}

func (db *DB) String() string { return "sqlite:" + db.dsn }
