package game

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
	"go.uber.org/zap"
)

// DefaultTickInterval 기준 틱 주기
const DefaultTickInterval = 50 * time.Millisecond

// Sender 연결된 참가자에게 메시지를 밀어 넣는 전송 능력.
// 전송 계층이 구현하며, 닫힌 연결에 대해서는 에러를 반환해야 한다.
type Sender interface {
	Send(payload []byte) error
}

// ResultRecorder 종료된 경기 결과를 기록하는 협력자.
// 랭크전이면 레이팅 변동까지 반영된 결과를 돌려준다.
type ResultRecorder interface {
	RecordResult(roomID string, playerA, playerB *models.User, scoreA, scoreB int,
		matchType models.MatchType, startedAt, finishedAt time.Time) (*models.GameResult, error)
}

// Registry 경기 방 생성/관리와 틱 루프 실행, 상태 브로드캐스트를 담당한다.
// 방/세션/루프 맵은 모두 이 객체가 소유하며 뮤텍스로 보호된다.
type Registry struct {
	mu       sync.Mutex
	rooms    map[string]*Room
	sessions map[string]map[string]Sender
	loops    map[string]context.CancelFunc

	tickInterval time.Duration
	recorder     ResultRecorder
	logger       *zap.Logger
}

// NewRegistry 레지스트리 생성. tickInterval이 0 이하이면 기본 주기를 쓴다.
func NewRegistry(recorder ResultRecorder, tickInterval time.Duration) *Registry {
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}
	logger, _ := zap.NewProduction()
	return &Registry{
		rooms:        make(map[string]*Room),
		sessions:     make(map[string]map[string]Sender),
		loops:        make(map[string]context.CancelFunc),
		tickInterval: tickInterval,
		recorder:     recorder,
		logger:       logger,
	}
}

// CreateRoom 방 생성 및 등록. 틱 루프는 아직 시작하지 않는다.
func (g *Registry) CreateRoom(left, right *models.User, matchType models.MatchType) *Room {
	room := NewRoom(left, right, matchType)

	g.mu.Lock()
	g.rooms[room.RoomID()] = room
	g.mu.Unlock()

	g.logger.Info("Room created",
		zap.String("roomId", room.RoomID()),
		zap.String("matchType", string(matchType)),
		zap.String("leftUser", left.ID),
		zap.String("rightUser", right.ID))
	return room
}

// FindRoom 방 조회 (없으면 nil)
func (g *Registry) FindRoom(roomID string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rooms[roomID]
}

// UpdateInput 참가자의 최신 입력 반영. 없는 방/비참가자는 무시한다.
func (g *Registry) UpdateInput(roomID, userID string, input PaddleInput) {
	room := g.FindRoom(roomID)
	if room != nil && room.Contains(userID) {
		room.UpdateInput(userID, input)
	}
}

// RegisterSession 참가자의 전송 능력을 등록한다.
// 두 참가자의 세션이 모두 모이고 루프가 없으면 틱 루프를 시작한다.
func (g *Registry) RegisterSession(room *Room, userID string, sender Sender) {
	g.mu.Lock()
	roomID := room.RoomID()
	if _, ok := g.rooms[roomID]; !ok {
		// 이미 제거된 방이면 등록하지 않는다
		g.mu.Unlock()
		g.logger.Warn("Session registration for removed room", zap.String("roomId", roomID))
		return
	}

	if g.sessions[roomID] == nil {
		g.sessions[roomID] = make(map[string]Sender)
	}
	g.sessions[roomID][userID] = sender

	_, running := g.loops[roomID]
	bothConnected := g.sessions[roomID][room.LeftPlayer().ID] != nil &&
		g.sessions[roomID][room.RightPlayer().ID] != nil

	var cancel context.CancelFunc
	var ctx context.Context
	if !running && bothConnected {
		ctx, cancel = context.WithCancel(context.Background())
		g.loops[roomID] = cancel
	}
	g.mu.Unlock()

	g.logger.Info("Session registered",
		zap.String("roomId", roomID),
		zap.String("userId", userID))

	if cancel != nil {
		g.logger.Info("Starting tick loop", zap.String("roomId", roomID))
		go g.runLoop(ctx, room)
	}
}

// UnregisterSession 전송 계층이 연결 종료를 알릴 때 세션을 제거한다.
// 루프는 취소하지 않는다. 남은 세션으로 경기는 계속 진행된다.
func (g *Registry) UnregisterSession(roomID, userID string) {
	g.mu.Lock()
	if sessions, ok := g.sessions[roomID]; ok {
		delete(sessions, userID)
	}
	g.mu.Unlock()
}

// RemoveRoom 방과 관련된 모든 상태를 정리하고 틱 루프를 취소한다.
// 반환 이후 새 틱은 실행되지 않는다 (이미 실행 중인 틱 최대 1개 제외).
func (g *Registry) RemoveRoom(roomID string) {
	g.mu.Lock()
	cancel := g.loops[roomID]
	delete(g.loops, roomID)
	delete(g.rooms, roomID)
	delete(g.sessions, roomID)
	g.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// runLoop 방 하나의 고정 주기 틱 루프. 취소가 유일한 종료 신호다.
func (g *Registry) runLoop(ctx context.Context, room *Room) {
	ticker := time.NewTicker(g.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.runTick(room)
		}
	}
}

func (g *Registry) runTick(room *Room) {
	// 취소 경합 시 제거된 방을 다시 전진시키지 않는다
	if g.FindRoom(room.RoomID()) == nil {
		return
	}

	snapshot := room.Tick(g.tickInterval)
	g.broadcastState(room.RoomID(), snapshot, room.MatchType(), nil)

	if snapshot.Finished {
		g.finishRoom(room, snapshot)
	}
}

// broadcastState 스냅샷을 단일 메시지로 직렬화해 등록된 모든 세션에 보낸다.
// 한 세션의 전송 실패는 다른 세션 전달에 영향을 주지 않는다.
func (g *Registry) broadcastState(roomID string, snapshot Snapshot, matchType models.MatchType, ratingChange *RatingChange) {
	g.mu.Lock()
	receivers := make(map[string]Sender, len(g.sessions[roomID]))
	for userID, sender := range g.sessions[roomID] {
		receivers[userID] = sender
	}
	g.mu.Unlock()

	if len(receivers) == 0 {
		return
	}

	message := ServerMessage{
		Type:         MessageTypeState,
		Snapshot:     snapshot,
		MatchType:    matchType,
		RatingChange: ratingChange,
	}
	payload, err := json.Marshal(message)
	if err != nil {
		g.logger.Error("Failed to marshal state message",
			zap.String("roomId", roomID),
			zap.Error(err))
		return
	}

	for userID, sender := range receivers {
		if err := sender.Send(payload); err != nil {
			// 전송 계층의 일시 오류는 무시 정책 (재시도 없음)
			g.logger.Warn("Failed to send state message",
				zap.String("roomId", roomID),
				zap.String("userId", userID),
				zap.Error(err))
		}
	}
}

// finishRoom 종료 틱 처리: 결과 기록 → 레이팅 변동 브로드캐스트 → 방 정리.
func (g *Registry) finishRoom(room *Room, snapshot Snapshot) {
	finishedAt := room.FinishedAt()
	if finishedAt.IsZero() {
		finishedAt = time.Now()
	}

	var ratingChange *RatingChange
	result, err := g.recorder.RecordResult(
		room.RoomID(),
		room.LeftPlayer(),
		room.RightPlayer(),
		snapshot.LeftScore,
		snapshot.RightScore,
		room.MatchType(),
		room.StartedAt(),
		finishedAt,
	)
	if err != nil {
		g.logger.Error("Failed to record game result",
			zap.String("roomId", room.RoomID()),
			zap.Error(err))
	} else {
		ratingChange = RatingChangeFromResult(result)
	}

	g.broadcastState(room.RoomID(), snapshot, room.MatchType(), ratingChange)
	g.RemoveRoom(room.RoomID())

	g.logger.Info("Room finished",
		zap.String("roomId", room.RoomID()),
		zap.Int("leftScore", snapshot.LeftScore),
		zap.Int("rightScore", snapshot.RightScore),
		zap.String("matchType", string(room.MatchType())))
}
