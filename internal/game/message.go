package game

import "github.com/seungwoo7050/codex-pong-video/internal/models"

// 서버 → 클라이언트 메시지 타입
const (
	MessageTypeReady = "READY"
	MessageTypeState = "STATE"
)

// ServerMessage 방 참가자에게 내보내는 단일 아웃바운드 메시지
type ServerMessage struct {
	Type         string           `json:"type"`
	Snapshot     Snapshot         `json:"snapshot"`
	MatchType    models.MatchType `json:"matchType"`
	RatingChange *RatingChange    `json:"ratingChange,omitempty"`
}

// RatingChange 랭크전 종료 틱에 실리는 레이팅 변동 요약
type RatingChange struct {
	WinnerID    *string `json:"winnerId"`
	WinnerDelta int     `json:"winnerDelta"`
	LoserID     *string `json:"loserId"`
	LoserDelta  int     `json:"loserDelta"`
}

// RatingChangeFromResult 경기 결과에서 레이팅 변동 요약 생성.
// 일반전이면 nil, 랭크전 무승부면 승자/패자 ID 없이 변동 폭만 담는다.
func RatingChangeFromResult(result *models.GameResult) *RatingChange {
	if result == nil || !result.IsRanked() {
		return nil
	}

	winnerID := result.WinnerID()
	if winnerID == nil {
		return &RatingChange{
			WinnerDelta: result.RatingChangeA,
			LoserDelta:  result.RatingChangeB,
		}
	}

	playerAWin := *winnerID == result.PlayerAID
	if playerAWin {
		return &RatingChange{
			WinnerID:    &result.PlayerAID,
			WinnerDelta: result.RatingChangeA,
			LoserID:     &result.PlayerBID,
			LoserDelta:  result.RatingChangeB,
		}
	}
	return &RatingChange{
		WinnerID:    &result.PlayerBID,
		WinnerDelta: result.RatingChangeB,
		LoserID:     &result.PlayerAID,
		LoserDelta:  result.RatingChangeA,
	}
}
