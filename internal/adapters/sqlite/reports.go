package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/csg33k/ldpr-reports/internal/domain"
	"github.com/csg33k/ldpr-reports/internal/ports"
)

var _ ports.ReportRepository = (*Store)(nil)

func (s *Store) CreateReport(ctx context.Context, r *domain.Report) error {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encode report data: %w", err)
	}
	r.CreatedAt = time.Now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO reports (user_id, data, pdf_name, created_at) VALUES (?,?,?,?)`,
		r.UserID, string(data), r.PDFName, r.CreatedAt,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = id
	return nil
}

func (s *Store) GetReport(ctx context.Context, id int64) (*domain.Report, error) {
	r := &domain.Report{}
	var data string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, data, pdf_name, created_at
		FROM reports WHERE id=?`, id).Scan(
		&r.ID, &r.UserID, &data, &r.PDFName, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(data), &r.Data); err != nil {
		return nil, fmt.Errorf("decode report %d: %w", id, err)
	}
	r.Data.Normalize()
	return r, nil
}

// ListReports returns the user's reports, newest first, without their data.
func (s *Store) ListReports(ctx context.Context, userID int64) ([]domain.Report, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, pdf_name, created_at
		FROM reports WHERE user_id=? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []domain.Report
	for rows.Next() {
		var r domain.Report
		if err := rows.Scan(&r.ID, &r.UserID, &r.PDFName, &r.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, r)
	}
	return list, rows.Err()
}
