package models

import "time"

// GameResult 종료된 경기의 최종 집계 기록
type GameResult struct {
	ID            string    `json:"id" db:"id"`
	RoomID        string    `json:"roomId" db:"room_id"`
	PlayerAID     string    `json:"playerAId" db:"player_a_id"`
	PlayerBID     string    `json:"playerBId" db:"player_b_id"`
	ScoreA        int       `json:"scoreA" db:"score_a"`
	ScoreB        int       `json:"scoreB" db:"score_b"`
	MatchType     MatchType `json:"matchType" db:"match_type"`
	RatingChangeA int       `json:"ratingChangeA" db:"rating_change_a"`
	RatingChangeB int       `json:"ratingChangeB" db:"rating_change_b"`
	RatingAfterA  int       `json:"ratingAfterA" db:"rating_after_a"`
	RatingAfterB  int       `json:"ratingAfterB" db:"rating_after_b"`
	StartedAt     time.Time `json:"startedAt" db:"started_at"`
	FinishedAt    time.Time `json:"finishedAt" db:"finished_at"`
}

// IsRanked 랭크전 결과 여부
func (r *GameResult) IsRanked() bool {
	return r.MatchType == MatchTypeRanked
}

// WinnerID 승자 사용자 ID (무승부면 nil)
func (r *GameResult) WinnerID() *string {
	if r.ScoreA == r.ScoreB {
		return nil
	}
	if r.ScoreA > r.ScoreB {
		return &r.PlayerAID
	}
	return &r.PlayerBID
}
