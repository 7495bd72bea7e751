package models

// MatchType 매치 종류 (일반전/랭크전)
type MatchType string

const (
	MatchTypeNormal MatchType = "NORMAL"
	MatchTypeRanked MatchType = "RANKED"
)

// ParseMatchType 문자열을 MatchType으로 변환
func ParseMatchType(s string) (MatchType, bool) {
	switch MatchType(s) {
	case MatchTypeNormal:
		return MatchTypeNormal, true
	case MatchTypeRanked:
		return MatchTypeRanked, true
	}
	return "", false
}

// TicketStatus 매치메이킹 티켓 상태
type TicketStatus string

const (
	TicketStatusWaiting   TicketStatus = "WAITING"
	TicketStatusMatched   TicketStatus = "MATCHED"
	TicketStatusCancelled TicketStatus = "CANCELLED"
)

// MatchTicket 매치메이킹 대기열 위치 또는 배정 결과
type MatchTicket struct {
	TicketID  string       `json:"ticketId"`
	UserID    string       `json:"-"`
	MatchType MatchType    `json:"matchType"`
	Status    TicketStatus `json:"status"`
	RoomID    *string      `json:"roomId"` // MATCHED 이후 불변
}
