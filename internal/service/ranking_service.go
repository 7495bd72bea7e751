package service

import (
	"fmt"
	"math"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"go.uber.org/zap"
)

const (
	// BaseRating 랭크전 경험이 없는 사용자의 기본 레이팅
	BaseRating = 1200
	// MinRating 레이팅 하한
	MinRating = 1
	// KFactor 레이팅 변동 폭
	KFactor = 32
)

// UserDirectory 레이팅 저장소 협력자 (사용자 디렉터리 경계)
type UserDirectory interface {
	GetRating(userID string) (*int, error)
	SaveRating(userID string, rating int) error
}

// RatingOutcome 랭크전 한 판의 레이팅 변동 결과
type RatingOutcome struct {
	RatingChangeA int `json:"ratingChangeA"`
	RatingChangeB int `json:"ratingChangeB"`
	RatingAfterA  int `json:"ratingAfterA"`
	RatingAfterB  int `json:"ratingAfterB"`
}

// RankingService 랭크전 결과를 기반으로 ELO 스타일 레이팅을 갱신한다
type RankingService struct {
	directory UserDirectory
	logger    *zap.Logger
}

// NewRankingService 랭킹 서비스 생성
func NewRankingService(directory UserDirectory) *RankingService {
	logger, _ := zap.NewProduction()
	return &RankingService{
		directory: directory,
		logger:    logger,
	}
}

// ApplyRanking 점수 차를 승/패/무로 환산해 두 사용자의 레이팅을 수정한다.
// 새 레이팅은 사용자 디렉터리에 정확히 한 번씩 저장된다.
func (s *RankingService) ApplyRanking(playerA, playerB *models.User, scoreA, scoreB int) (*RatingOutcome, error) {
	ratingA, err := s.directory.GetRating(playerA.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating for player A: %w", err)
	}
	ratingB, err := s.directory.GetRating(playerB.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating for player B: %w", err)
	}

	beforeA := defaultRating(ratingA)
	beforeB := defaultRating(ratingB)

	expectedA := expectedScore(float64(beforeA), float64(beforeB))
	expectedB := expectedScore(float64(beforeB), float64(beforeA))

	var actualA float64
	switch {
	case scoreA == scoreB:
		actualA = 0.5
	case scoreA > scoreB:
		actualA = 1.0
	default:
		actualA = 0.0
	}
	actualB := 1.0 - actualA

	afterA := floorRating(int(math.Round(float64(beforeA) + KFactor*(actualA-expectedA))))
	afterB := floorRating(int(math.Round(float64(beforeB) + KFactor*(actualB-expectedB))))

	if err := s.directory.SaveRating(playerA.ID, afterA); err != nil {
		return nil, fmt.Errorf("failed to save rating for player A: %w", err)
	}
	if err := s.directory.SaveRating(playerB.ID, afterB); err != nil {
		return nil, fmt.Errorf("failed to save rating for player B: %w", err)
	}

	s.logger.Info("Ratings applied",
		zap.String("playerA", playerA.ID),
		zap.Int("beforeA", beforeA),
		zap.Int("afterA", afterA),
		zap.String("playerB", playerB.ID),
		zap.Int("beforeB", beforeB),
		zap.Int("afterB", afterB))

	return &RatingOutcome{
		RatingChangeA: afterA - beforeA,
		RatingChangeB: afterB - beforeB,
		RatingAfterA:  afterA,
		RatingAfterB:  afterB,
	}, nil
}

// expectedScore ELO에 기반한 기대 승률 계산
func expectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingB-ratingA)/400.0))
}

func defaultRating(rating *int) int {
	if rating == nil {
		return BaseRating
	}
	return *rating
}

func floorRating(rating int) int {
	if rating < MinRating {
		return MinRating
	}
	return rating
}
