package store

import (
	"fmt"

	"github.com/almamiraa/KP-PTPN/internal/model"
)

// BatchInsertRows stores a run's dataset rows in one transaction.
func (s *Store) BatchInsertRows(conversionID int64, rows []model.DatasetRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO dataset_rows (
			conversion_id, company_key, company_code, company_name, holding,
			period, dimension, status, sub_group, level,
			category, sub_category, value, previous_value, origin
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.Exec(
			conversionID, r.CompanyKey, r.CompanyCode, r.CompanyName, r.Holding,
			r.Period, r.Dimension, r.Status, r.SubGroup, r.Level,
			r.Category, r.SubCategory, r.Value, r.Previous, string(r.Origin),
		)
		if err != nil {
			return fmt.Errorf("failed to insert dataset row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetRows returns a run's dataset rows in insertion order.
func (s *Store) GetRows(conversionID int64) ([]model.DatasetRow, error) {
	rows, err := s.db.Query(`
		SELECT company_key, company_code, company_name, holding,
		       period, dimension, status, sub_group, level,
		       category, sub_category, value, previous_value, origin
		FROM dataset_rows WHERE conversion_id = ? ORDER BY id
	`, conversionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset rows: %w", err)
	}
	defer rows.Close()

	var out []model.DatasetRow
	for rows.Next() {
		var r model.DatasetRow
		var origin string
		err := rows.Scan(&r.CompanyKey, &r.CompanyCode, &r.CompanyName, &r.Holding,
			&r.Period, &r.Dimension, &r.Status, &r.SubGroup, &r.Level,
			&r.Category, &r.SubCategory, &r.Value, &r.Previous, &origin)
		if err != nil {
			return nil, err
		}
		r.Origin = model.ValueOrigin(origin)
		out = append(out, r)
	}
	return out, rows.Err()
}

// PrevTrendTotals returns the trend totals persisted for a period,
// keyed company key → status group. The newest persisted run of the
// period wins. Used to attach previous-period values to trend rows.
func (s *Store) PrevTrendTotals(module string, period model.Period) (map[string]map[string]float64, error) {
	rows, err := s.db.Query(`
		SELECT d.company_key, d.status, d.value
		FROM dataset_rows d
		WHERE d.dimension = ?
		  AND d.period = ?
		  AND d.conversion_id = (
			SELECT h.id FROM conversion_history h
			WHERE h.module = ? AND h.period = ? AND h.rows_persisted = 1
			ORDER BY h.created_at DESC, h.id DESC LIMIT 1
		  )
	`, model.DimensionTrend, period.String(), module, period.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query trend totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]map[string]float64)
	for rows.Next() {
		var key, status string
		var value float64
		if err := rows.Scan(&key, &status, &value); err != nil {
			return nil, err
		}
		if totals[key] == nil {
			totals[key] = make(map[string]float64)
		}
		totals[key][status] = value
	}
	return totals, rows.Err()
}
