package game

import (
	"sync"
	"time"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
)

// Room 두 사용자가 참여하는 실시간 경기 방.
// 최신 입력 맵과 게임 엔진을 연결해 스냅샷을 제공하고 시작/종료 시각을 기록한다.
type Room struct {
	roomID      string
	leftPlayer  *models.User
	rightPlayer *models.User
	matchType   models.MatchType
	engine      *Engine

	mu         sync.Mutex
	inputs     map[string]PaddleInput
	startedAt  time.Time
	finishedAt time.Time
}

// NewRoom 방 생성. roomID는 엔진 스냅샷의 식별자를 그대로 사용한다.
func NewRoom(leftPlayer, rightPlayer *models.User, matchType models.MatchType) *Room {
	engine := NewEngine()
	r := &Room{
		roomID:      engine.ForceSnapshot().RoomID,
		leftPlayer:  leftPlayer,
		rightPlayer: rightPlayer,
		matchType:   matchType,
		engine:      engine,
		inputs: map[string]PaddleInput{
			leftPlayer.ID:  InputStay,
			rightPlayer.ID: InputStay,
		},
	}
	return r
}

// Contains 해당 사용자가 이 방의 참가자인지 확인
func (r *Room) Contains(userID string) bool {
	return r.leftPlayer.ID == userID || r.rightPlayer.ID == userID
}

// UpdateInput 최신 입력으로 교체한다. 과거 입력은 큐잉하지 않는다.
// 틱을 돌리는 고루틴과 다른 고루틴에서 호출해도 안전하다.
func (r *Room) UpdateInput(userID string, input PaddleInput) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.inputs[userID]; ok {
		r.inputs[userID] = input
	}
}

// Tick 현재 버퍼된 입력으로 엔진을 한 틱 전진시킨다.
// 첫 호출에서 시작 시각을, 종료 스냅샷이 나온 첫 틱에서 종료 시각을 기록한다.
func (r *Room) Tick(delta time.Duration) Snapshot {
	r.mu.Lock()
	if r.startedAt.IsZero() {
		r.startedAt = time.Now()
	}
	leftInput := r.inputs[r.leftPlayer.ID]
	rightInput := r.inputs[r.rightPlayer.ID]
	r.mu.Unlock()

	snapshot := r.engine.Tick(delta, leftInput, rightInput)

	if snapshot.Finished {
		r.mu.Lock()
		if r.finishedAt.IsZero() {
			r.finishedAt = time.Now()
		}
		r.mu.Unlock()
	}
	return snapshot
}

// CurrentSnapshot 상태 변경 없이 현재 스냅샷 조회
func (r *Room) CurrentSnapshot() Snapshot {
	return r.engine.ForceSnapshot()
}

// RoomID 방 식별자
func (r *Room) RoomID() string {
	return r.roomID
}

// LeftPlayer 왼쪽 참가자
func (r *Room) LeftPlayer() *models.User {
	return r.leftPlayer
}

// RightPlayer 오른쪽 참가자
func (r *Room) RightPlayer() *models.User {
	return r.rightPlayer
}

// MatchType 매치 종류
func (r *Room) MatchType() models.MatchType {
	return r.matchType
}

// StartedAt 첫 틱 시각 (아직 시작 전이면 zero value)
func (r *Room) StartedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startedAt
}

// FinishedAt 종료 틱 시각 (아직 종료 전이면 zero value)
func (r *Room) FinishedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finishedAt
}

// IsFinished 경기 종료 여부
func (r *Room) IsFinished() bool {
	return r.engine.ForceSnapshot().Finished
}

// TargetScore 목표 점수
func (r *Room) TargetScore() int {
	return r.engine.TargetScore()
}
