package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// CreateConversion logs the start of a run and returns its id.
func (s *Store) CreateConversion(module, filename, period string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO conversion_history (module, original_filename, period, status)
		VALUES (?, ?, ?, 'processing')
	`, module, filename, period)
	if err != nil {
		return 0, fmt.Errorf("failed to create conversion record: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get conversion id: %w", err)
	}
	return id, nil
}

// CompleteConversion fills in the outcome of a finished run.
func (s *Store) CompleteConversion(id int64, rec *model.ConversionRecord) error {
	persisted := 0
	if rec.RowsPersisted {
		persisted = 1
	}
	_, err := s.db.Exec(`
		UPDATE conversion_history SET
			total_rows = ?,
			duration_ms = ?,
			status = ?,
			coverage_percent = ?,
			total_companies = ?,
			matched_companies = ?,
			missing_companies = ?,
			rows_persisted = ?
		WHERE id = ?
	`, rec.TotalRows, rec.DurationMS, rec.Status, rec.CoveragePercent,
		rec.TotalCompanies, rec.MatchedCompanies,
		strings.Join(rec.MissingCompanies, ","), persisted, id)
	if err != nil {
		return fmt.Errorf("failed to complete conversion record: %w", err)
	}
	return nil
}

// ListHistory returns past runs, newest first.
func (s *Store) ListHistory(module string, limit int) ([]*model.ConversionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, created_at, module, original_filename, period,
		       total_rows, duration_ms, status, coverage_percent,
		       total_companies, matched_companies, missing_companies, rows_persisted
		FROM conversion_history`
	args := []interface{}{}
	if module != "" {
		query += " WHERE module = ?"
		args = append(args, module)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []*model.ConversionRecord
	for rows.Next() {
		rec, err := scanConversion(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetConversion returns one run by id, nil when absent.
func (s *Store) GetConversion(id int64) (*model.ConversionRecord, error) {
	row := s.db.QueryRow(`
		SELECT id, created_at, module, original_filename, period,
		       total_rows, duration_ms, status, coverage_percent,
		       total_companies, matched_companies, missing_companies, rows_persisted
		FROM conversion_history WHERE id = ?
	`, id)
	rec, err := scanConversion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// DeleteConversion removes a run and, via cascade, its dataset rows.
func (s *Store) DeleteConversion(id int64) error {
	_, err := s.db.Exec("DELETE FROM conversion_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete conversion: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanConversion(r rowScanner) (*model.ConversionRecord, error) {
	rec := &model.ConversionRecord{}
	var missing string
	var persisted int
	err := r.Scan(&rec.ID, &rec.CreatedAt, &rec.Module, &rec.OriginalFilename, &rec.Period,
		&rec.TotalRows, &rec.DurationMS, &rec.Status, &rec.CoveragePercent,
		&rec.TotalCompanies, &rec.MatchedCompanies, &missing, &persisted)
	if err != nil {
		return nil, err
	}
	if missing != "" {
		rec.MissingCompanies = strings.Split(missing, ",")
	}
	rec.RowsPersisted = persisted != 0
	return rec, nil
}
