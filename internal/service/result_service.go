package service

import (
	"fmt"
	"time"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"go.uber.org/zap"
)

// ResultStore 경기 결과 영속화 협력자
type ResultStore interface {
	Create(result *models.GameResult) (*models.GameResult, error)
	FindRecent(limit int) ([]*models.GameResult, error)
	FindByUserID(userID string, limit int) ([]*models.GameResult, error)
}

// ResultService 경기 종료 시 결과를 생성하고 최근 전적을 조회한다.
// 랭크전이면 결과 기록의 일부로 레이팅을 갱신한다.
type ResultService struct {
	resultStore    ResultStore
	rankingService *RankingService
	logger         *zap.Logger
}

// NewResultService 결과 서비스 생성
func NewResultService(resultStore ResultStore, rankingService *RankingService) *ResultService {
	logger, _ := zap.NewProduction()
	return &ResultService{
		resultStore:    resultStore,
		rankingService: rankingService,
		logger:         logger,
	}
}

// RecordResult 종료된 경기의 최종 결과를 기록한다. game.ResultRecorder 구현.
func (s *ResultService) RecordResult(roomID string, playerA, playerB *models.User, scoreA, scoreB int,
	matchType models.MatchType, startedAt, finishedAt time.Time) (*models.GameResult, error) {

	result := &models.GameResult{
		RoomID:       roomID,
		PlayerAID:    playerA.ID,
		PlayerBID:    playerB.ID,
		ScoreA:       scoreA,
		ScoreB:       scoreB,
		MatchType:    matchType,
		RatingAfterA: defaultRating(playerA.Rating),
		RatingAfterB: defaultRating(playerB.Rating),
		StartedAt:    startedAt,
		FinishedAt:   finishedAt,
	}

	if matchType == models.MatchTypeRanked {
		outcome, err := s.rankingService.ApplyRanking(playerA, playerB, scoreA, scoreB)
		if err != nil {
			return nil, fmt.Errorf("failed to apply ranking: %w", err)
		}
		result.RatingChangeA = outcome.RatingChangeA
		result.RatingChangeB = outcome.RatingChangeB
		result.RatingAfterA = outcome.RatingAfterA
		result.RatingAfterB = outcome.RatingAfterB
	}

	saved, err := s.resultStore.Create(result)
	if err != nil {
		return nil, fmt.Errorf("failed to save game result: %w", err)
	}

	s.logger.Info("Game result recorded",
		zap.String("roomId", roomID),
		zap.String("matchType", string(matchType)),
		zap.Int("scoreA", scoreA),
		zap.Int("scoreB", scoreB))
	return saved, nil
}

// FindRecentResults 최근 전적 조회 (최신 20건)
func (s *ResultService) FindRecentResults() ([]*models.GameResult, error) {
	results, err := s.resultStore.FindRecent(20)
	if err != nil {
		return nil, fmt.Errorf("failed to find recent results: %w", err)
	}
	return results, nil
}

// FindResultsForUser 특정 사용자가 참여한 전적 조회 (최신 20건)
func (s *ResultService) FindResultsForUser(userID string) ([]*models.GameResult, error) {
	results, err := s.resultStore.FindByUserID(userID, 20)
	if err != nil {
		return nil, fmt.Errorf("failed to find user results: %w", err)
	}
	return results, nil
}
