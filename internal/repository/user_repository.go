package repository

import (
	"database/sql"
	"fmt"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"github.com/seungwoo7050/codex-pong-video/pkg/database"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 새 사용자 생성
func (r *UserRepository) Create(username, passwordHash, nickname string) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, nickname)
		VALUES ($1, $2, $3)
		RETURNING id, username, nickname, avatar_url, rating, created_at, updated_at
	`

	user := &models.User{}
	err := r.db.QueryRow(query, username, passwordHash, nickname).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.AvatarURL,
		&user.Rating,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// FindByUsername 사용자명으로 찾기
func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, nickname, avatar_url, rating, created_at, updated_at
		FROM users
		WHERE username = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Nickname,
		&user.AvatarURL,
		&user.Rating,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil // 사용자 없음
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// FindByID ID로 사용자 찾기
func (r *UserRepository) FindByID(id string) (*models.User, error) {
	query := `
		SELECT id, username, password_hash, nickname, avatar_url, rating, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user := &models.User{}
	err := r.db.QueryRow(query, id).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Nickname,
		&user.AvatarURL,
		&user.Rating,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Update 사용자 프로필 업데이트
func (r *UserRepository) Update(id string, nickname string, avatarURL *string) error {
	query := `
		UPDATE users
		SET nickname = $2, avatar_url = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, id, nickname, avatarURL)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", id)
	}

	return nil
}

// GetRating 레이팅 조회. 랭크전 이력이 없으면 nil을 반환한다.
func (r *UserRepository) GetRating(userID string) (*int, error) {
	query := `SELECT rating FROM users WHERE id = $1`

	var rating *int
	err := r.db.QueryRow(query, userID).Scan(&rating)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", userID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}

	return rating, nil
}

// SaveRating 레이팅 저장
func (r *UserRepository) SaveRating(userID string, rating int) error {
	query := `
		UPDATE users
		SET rating = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(query, userID, rating)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}

	return nil
}

// FindTopByRating 레이팅 상위 사용자 조회. 랭크전 이력이 없는 사용자는 제외한다.
func (r *UserRepository) FindTopByRating(limit int) ([]*models.User, error) {
	query := `
		SELECT id, username, nickname, avatar_url, rating, created_at, updated_at
		FROM users
		WHERE rating IS NOT NULL
		ORDER BY rating DESC, updated_at ASC
		LIMIT $1
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Nickname,
			&user.AvatarURL,
			&user.Rating,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
