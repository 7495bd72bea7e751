package repository

import (
	"fmt"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"github.com/seungwoo7050/codex-pong-video/pkg/database"
)

type ResultRepository struct {
	db *database.DB
}

func NewResultRepository(db *database.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create 경기 결과 저장
func (r *ResultRepository) Create(result *models.GameResult) (*models.GameResult, error) {
	query := `
		INSERT INTO game_results (
			room_id, player_a_id, player_b_id, score_a, score_b, match_type,
			rating_change_a, rating_change_b, rating_after_a, rating_after_b,
			started_at, finished_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`

	err := r.db.QueryRow(query,
		result.RoomID,
		result.PlayerAID,
		result.PlayerBID,
		result.ScoreA,
		result.ScoreB,
		result.MatchType,
		result.RatingChangeA,
		result.RatingChangeB,
		result.RatingAfterA,
		result.RatingAfterB,
		result.StartedAt,
		result.FinishedAt,
	).Scan(&result.ID)

	if err != nil {
		return nil, fmt.Errorf("failed to create game result: %w", err)
	}

	return result, nil
}

// FindRecent 최근 결과 조회 (종료 시각 내림차순)
func (r *ResultRepository) FindRecent(limit int) ([]*models.GameResult, error) {
	query := `
		SELECT id, room_id, player_a_id, player_b_id, score_a, score_b, match_type,
			rating_change_a, rating_change_b, rating_after_a, rating_after_b,
			started_at, finished_at
		FROM game_results
		ORDER BY finished_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		err := rows.Scan(
			&result.ID,
			&result.RoomID,
			&result.PlayerAID,
			&result.PlayerBID,
			&result.ScoreA,
			&result.ScoreB,
			&result.MatchType,
			&result.RatingChangeA,
			&result.RatingChangeB,
			&result.RatingAfterA,
			&result.RatingAfterB,
			&result.StartedAt,
			&result.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}

	return results, nil
}

// FindByUserID 특정 사용자가 참여한 최근 결과 조회
func (r *ResultRepository) FindByUserID(userID string, limit int) ([]*models.GameResult, error) {
	query := `
		SELECT id, room_id, player_a_id, player_b_id, score_a, score_b, match_type,
			rating_change_a, rating_change_b, rating_after_a, rating_after_b,
			started_at, finished_at
		FROM game_results
		WHERE player_a_id = $1 OR player_b_id = $1
		ORDER BY finished_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game results: %w", err)
	}
	defer rows.Close()

	var results []*models.GameResult
	for rows.Next() {
		result := &models.GameResult{}
		err := rows.Scan(
			&result.ID,
			&result.RoomID,
			&result.PlayerAID,
			&result.PlayerBID,
			&result.ScoreA,
			&result.ScoreB,
			&result.MatchType,
			&result.RatingChangeA,
			&result.RatingChangeB,
			&result.RatingAfterA,
			&result.RatingAfterB,
			&result.StartedAt,
			&result.FinishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}
		results = append(results, result)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game results: %w", err)
	}

	return results, nil
}
