package service

import (
	"sync"

	"github.com/google/uuid"
	"github.com/seungwoo7050/codex-pong-video/internal/game"
	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"go.uber.org/zap"
)

// MatchmakingService 빠른 대전/랭크전 대기열을 관리하고 두 사용자를 매칭해 방을 생성한다.
// 대기열은 메모리 기반이며 동일 사용자의 중복 대기를 방지한다.
// 하나의 뮤텍스가 대기열과 티켓 맵을 함께 보호해 pop-or-push가 원자적으로 동작한다.
type MatchmakingService struct {
	mu       sync.Mutex
	queues   map[models.MatchType][]*models.User
	tickets  map[string]*models.MatchTicket
	registry *game.Registry
	logger   *zap.Logger
}

// NewMatchmakingService 매치메이킹 서비스 생성
func NewMatchmakingService(registry *game.Registry) *MatchmakingService {
	logger, _ := zap.NewProduction()
	return &MatchmakingService{
		queues:   make(map[models.MatchType][]*models.User),
		tickets:  make(map[string]*models.MatchTicket),
		registry: registry,
		logger:   logger,
	}
}

// Enqueue 사용자를 대기열에 추가하고, 즉시 매칭 가능한 경우 방을 생성한다.
// 같은 사용자가 같은 매치 종류로 다시 호출하면 기존 티켓을 그대로 돌려준다.
func (s *MatchmakingService) Enqueue(user *models.User, matchType models.MatchType) *models.MatchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 멱등성: 취소되지 않은 기존 티켓이 있으면 재사용
	for _, ticket := range s.tickets {
		if ticket.UserID == user.ID && ticket.MatchType == matchType &&
			ticket.Status != models.TicketStatusCancelled {
			return copyTicket(ticket)
		}
	}

	opponent := s.popWaiting(matchType, user.ID)
	if opponent != nil {
		room := s.registry.CreateRoom(opponent, user, matchType)
		roomID := room.RoomID()

		// 대기 중이던 상대의 티켓을 MATCHED로 전환해 폴링으로 방 배정을 알 수 있게 한다
		for _, ticket := range s.tickets {
			if ticket.UserID == opponent.ID && ticket.MatchType == matchType &&
				ticket.Status == models.TicketStatusWaiting {
				ticket.Status = models.TicketStatusMatched
				ticket.RoomID = &roomID
				break
			}
		}

		myTicket := &models.MatchTicket{
			TicketID:  uuid.New().String(),
			UserID:    user.ID,
			MatchType: matchType,
			Status:    models.TicketStatusMatched,
			RoomID:    &roomID,
		}
		s.tickets[myTicket.TicketID] = myTicket

		s.logger.Info("Matched players",
			zap.String("matchType", string(matchType)),
			zap.String("roomId", roomID),
			zap.String("user1", opponent.ID),
			zap.String("user2", user.ID))
		return copyTicket(myTicket)
	}

	s.queues[matchType] = append(s.queues[matchType], user)
	ticket := &models.MatchTicket{
		TicketID:  uuid.New().String(),
		UserID:    user.ID,
		MatchType: matchType,
		Status:    models.TicketStatusWaiting,
	}
	s.tickets[ticket.TicketID] = ticket

	s.logger.Info("User queued",
		zap.String("matchType", string(matchType)),
		zap.String("userId", user.ID),
		zap.Int("queueLength", len(s.queues[matchType])))
	return copyTicket(ticket)
}

// copyTicket 뮤텍스 안에서 값 복사본을 만든다.
// 내부 티켓은 매칭 시점에 제자리에서 갱신되므로 외부에는 복사본만 내보낸다.
func copyTicket(t *models.MatchTicket) *models.MatchTicket {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// popWaiting 같은 매치 종류의 대기자 중 자기 자신이 아닌 첫 사용자를 꺼낸다.
// 호출자는 뮤텍스를 잡고 있어야 한다.
func (s *MatchmakingService) popWaiting(matchType models.MatchType, selfID string) *models.User {
	queue := s.queues[matchType]
	for i, waiting := range queue {
		if waiting.ID == selfID {
			continue
		}
		s.queues[matchType] = append(queue[:i:i], queue[i+1:]...)
		return waiting
	}
	return nil
}

// FindTicket 티켓 조회 (없으면 nil)
func (s *MatchmakingService) FindTicket(ticketID string) *models.MatchTicket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTicket(s.tickets[ticketID])
}

// Cancel 대기 중 티켓을 취소하고 대기열에서 제거한다.
// 이미 매칭된 티켓은 건드리지 않는다.
func (s *MatchmakingService) Cancel(ticketID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return ErrTicketNotFound
	}
	if ticket.UserID != userID {
		return ErrTicketNotYours
	}
	if ticket.Status == models.TicketStatusMatched {
		return ErrTicketImmutable
	}
	if ticket.Status == models.TicketStatusCancelled {
		return nil
	}

	ticket.Status = models.TicketStatusCancelled

	queue := s.queues[ticket.MatchType]
	for i, waiting := range queue {
		if waiting.ID == userID {
			s.queues[ticket.MatchType] = append(queue[:i:i], queue[i+1:]...)
			break
		}
	}

	s.logger.Info("Ticket cancelled",
		zap.String("ticketId", ticketID),
		zap.String("userId", userID),
		zap.String("matchType", string(ticket.MatchType)))
	return nil
}

// 티켓이 매칭 티켓과 같은 사용자/종류인지 확인 (소유자 검증용)
func (s *MatchmakingService) FindTicketFor(ticketID, userID string, matchType models.MatchType) *models.MatchTicket {
	ticket := s.FindTicket(ticketID)
	if ticket == nil || ticket.UserID != userID || ticket.MatchType != matchType {
		return nil
	}
	return ticket
}
