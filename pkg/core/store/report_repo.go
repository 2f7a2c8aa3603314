package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"agentic_research/pkg/core/research"
)

// ReportRepo persists completed research reports. It implements
// research.ReportSink.
type ReportRepo struct{}

// NewReportRepo creates a new repository instance.
func NewReportRepo() *ReportRepo {
	return &ReportRepo{}
}

// SaveReport persists a report, keyed by its ID. Reports are immutable so
// a duplicate ID is left untouched.
//
// Schema assumption:
// CREATE TABLE IF NOT EXISTS research_reports (
//   id TEXT PRIMARY KEY,
//   subject TEXT,
//   profile TEXT,
//   conviction INT,
//   action TEXT,
//   report_json JSONB,
//   created_at TIMESTAMPTZ
// );
func (r *ReportRepo) SaveReport(ctx context.Context, report *research.Report) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	query := `
		INSERT INTO research_reports (id, subject, profile, conviction, action, report_json, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING;
	`

	_, err = pool.Exec(ctx, query,
		report.ID, report.Subject, string(report.Profile),
		int(report.Conviction), string(report.Action), jsonData, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	return nil
}

// Load retrieves a report by ID.
func (r *ReportRepo) Load(ctx context.Context, id string) (*research.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `SELECT report_json FROM research_reports WHERE id = $1`

	var jsonData []byte
	err := pool.QueryRow(ctx, query, id).Scan(&jsonData)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("no report found for id %s", id)
		}
		return nil, fmt.Errorf("failed to load report: %w", err)
	}

	var report research.Report
	if err := json.Unmarshal(jsonData, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return &report, nil
}

// RecentForSubject lists the most recent reports for a subject, newest first.
func (r *ReportRepo) RecentForSubject(ctx context.Context, subject string, limit int) ([]*research.Report, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT report_json FROM research_reports
		WHERE subject = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := pool.Query(ctx, query, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []*research.Report
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var report research.Report
		if err := json.Unmarshal(jsonData, &report); err != nil {
			return nil, fmt.Errorf("failed to unmarshal report: %w", err)
		}
		reports = append(reports, &report)
	}
	return reports, rows.Err()
}
