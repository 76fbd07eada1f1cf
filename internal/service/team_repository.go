package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/kapu/poketeam-kakao-bot-go/internal/domain"
	"github.com/kapu/poketeam-kakao-bot-go/internal/service/database"
	"go.uber.org/zap"
)

// TeamRepository is the sole writer of team records. Every read orders by id
// so a query's result set is stable while a browse session pages through it.
type TeamRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewTeamRepository(postgres *database.PostgresService, logger *zap.Logger) *TeamRepository {
	return &TeamRepository{
		db:     postgres.GetDB(),
		logger: logger,
	}
}

func (r *TeamRepository) Add(ctx context.Context, team domain.Team) error {
	query := `
		INSERT INTO teams (generation, style, url)
		VALUES ($1, $2, $3)
	`

	var style sql.NullString
	if team.Style != nil && *team.Style != "" {
		style = sql.NullString{String: *team.Style, Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query, team.Generation, style, team.URL); err != nil {
		return fmt.Errorf("failed to insert team: %w", err)
	}

	r.logger.Info("Team added",
		zap.String("generation", team.Generation),
		zap.String("url", team.URL),
	)
	return nil
}

// ExistsByURL reports whether any record already carries this URL. Used to
// warn on duplicate adds; duplicates are still permitted.
func (r *TeamRepository) ExistsByURL(ctx context.Context, url string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM teams WHERE url = $1)`, url).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team url: %w", err)
	}
	return exists, nil
}

func (r *TeamRepository) FindAll(ctx context.Context) ([]domain.Team, error) {
	query := `
		SELECT id, generation, style, url
		FROM teams
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	return r.scanTeams(rows)
}

// FindByGeneration matches the generation exactly, case-insensitively.
func (r *TeamRepository) FindByGeneration(ctx context.Context, generation string) ([]domain.Team, error) {
	query := `
		SELECT id, generation, style, url
		FROM teams
		WHERE LOWER(generation) = LOWER($1)
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, generation)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by generation: %w", err)
	}
	defer rows.Close()

	return r.scanTeams(rows)
}

// UpdateStyle sets the style on every record with this URL. Returns false
// when no record matched.
func (r *TeamRepository) UpdateStyle(ctx context.Context, url, style string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE teams SET style = $2 WHERE url = $1`, url, style)
	if err != nil {
		return false, fmt.Errorf("failed to update team style: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read update result: %w", err)
	}
	return affected > 0, nil
}

// DeleteByURL removes every record with this URL. Returns false when no
// record matched.
func (r *TeamRepository) DeleteByURL(ctx context.Context, url string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE url = $1`, url)
	if err != nil {
		return false, fmt.Errorf("failed to delete team: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected > 0 {
		r.logger.Info("Team deleted", zap.String("url", url), zap.Int64("records", affected))
	}
	return affected > 0, nil
}

// DeleteByID removes one specific record. The banned-member bulk delete uses
// this so that only resolved matches are removed.
func (r *TeamRepository) DeleteByID(ctx context.Context, id int) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete team %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read delete result: %w", err)
	}
	return affected > 0, nil
}

func (r *TeamRepository) scanTeams(rows *sql.Rows) ([]domain.Team, error) {
	teams := make([]domain.Team, 0)

	for rows.Next() {
		var (
			team  domain.Team
			style sql.NullString
		)
		if err := rows.Scan(&team.ID, &team.Generation, &style, &team.URL); err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		if style.Valid {
			team.Style = &style.String
		}
		teams = append(teams, team)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate team rows: %w", err)
	}
	return teams, nil
}
