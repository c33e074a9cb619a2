package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Assessment is one persisted scoring run.
type Assessment struct {
	ID            uuid.UUID       `json:"id"`
	IP            *string         `json:"ip,omitempty"`
	Score         float64         `json:"score"`
	SecurityGrade string          `json:"security_grade"`
	RiskLevel     string          `json:"risk_level"`
	Flags         json.RawMessage `json:"flags"`
	MLAnalysis    json.RawMessage `json:"ml_analysis,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// InsertAssessment creates a new assessment record. The ID is assigned here.
func (db *DB) InsertAssessment(ctx context.Context, a *Assessment) error {
	a.ID = uuid.New()

	query := `
		INSERT INTO assessments (id, ip, score, security_grade, risk_level, flags, ml_analysis)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err := db.pool.QueryRow(ctx, query,
		a.ID,
		a.IP,
		a.Score,
		a.SecurityGrade,
		a.RiskLevel,
		a.Flags,
		a.MLAnalysis,
	).Scan(&a.CreatedAt)

	if err != nil {
		return fmt.Errorf("insert assessment: %w", err)
	}

	return nil
}

// GetAssessment retrieves an assessment by ID
func (db *DB) GetAssessment(ctx context.Context, id uuid.UUID) (*Assessment, error) {
	query := `
		SELECT id, ip, score, security_grade, risk_level, flags, ml_analysis, created_at
		FROM assessments
		WHERE id = $1
	`

	a := &Assessment{}
	err := db.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.IP, &a.Score, &a.SecurityGrade, &a.RiskLevel,
		&a.Flags, &a.MLAnalysis, &a.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("assessment not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get assessment: %w", err)
	}

	return a, nil
}

// ListAssessments retrieves assessments ordered newest first, with the total
// count for pagination.
func (db *DB) ListAssessments(ctx context.Context, limit, offset int) ([]*Assessment, int, error) {
	var total int
	if err := db.pool.QueryRow(ctx, `SELECT COUNT(*) FROM assessments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}

	query := `
		SELECT id, ip, score, security_grade, risk_level, flags, ml_analysis, created_at
		FROM assessments
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := db.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	assessments := make([]*Assessment, 0)
	for rows.Next() {
		a := &Assessment{}
		if err := rows.Scan(
			&a.ID, &a.IP, &a.Score, &a.SecurityGrade, &a.RiskLevel,
			&a.Flags, &a.MLAnalysis, &a.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan assessment row: %w", err)
		}
		assessments = append(assessments, a)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate assessments: %w", err)
	}

	return assessments, total, nil
}

// Stats summarizes the stored assessments.
type Stats struct {
	TotalAssessments int            `json:"total_assessments"`
	AverageScore     float64        `json:"average_score"`
	ByRiskLevel      map[string]int `json:"by_risk_level"`
}

// GetStats computes aggregate statistics over all assessments
func (db *DB) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{ByRiskLevel: make(map[string]int)}

	err := db.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0) FROM assessments`,
	).Scan(&stats.TotalAssessments, &stats.AverageScore)
	if err != nil {
		return nil, fmt.Errorf("aggregate assessments: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT risk_level, COUNT(*) FROM assessments GROUP BY risk_level`,
	)
	if err != nil {
		return nil, fmt.Errorf("group by risk level: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, fmt.Errorf("scan risk level row: %w", err)
		}
		stats.ByRiskLevel[level] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate risk levels: %w", err)
	}

	return stats, nil
}
