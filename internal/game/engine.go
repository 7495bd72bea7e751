package game

import (
	"sync"
	"time"
)

const (
	courtWidth   = 800.0
	courtHeight  = 480.0
	paddleHeight = 80.0
	paddleSpeed  = 260.0 // px per second
	ballSpeed    = 280.0 // px per second
	targetScore  = 5

	leftPaddleX  = 40.0
	rightPaddleX = courtWidth - 40.0
)

// Engine 틱 기반 1:1 경기 물리 시뮬레이션.
// 패들 이동 입력과 공 이동, 득점/라운드 리셋을 처리하고 스냅샷을 반환한다.
// Tick/ForceSnapshot은 내부 뮤텍스로 직렬화되며, 엔진 인스턴스끼리는 독립적이다.
type Engine struct {
	mu    sync.Mutex
	state *physicsState
}

// NewEngine 엔진 생성 (라운드 초기화 포함)
func NewEngine() *Engine {
	e := &Engine{
		state: newPhysicsState(courtWidth, courtHeight, paddleHeight, targetScore),
	}
	e.resetRound(SideRight)
	return e
}

// TargetScore 목표 점수
func (e *Engine) TargetScore() int {
	return targetScore
}

// Tick 한 틱만큼 패들/공 위치를 갱신하고 득점 여부를 판단한다.
// 경기 종료 후에도 패들 이동은 계속 반영된다 (공/점수는 동결).
func (e *Engine) Tick(delta time.Duration, leftInput, rightInput PaddleInput) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	seconds := delta.Seconds()
	e.movePaddle(SideLeft, leftInput, seconds)
	e.movePaddle(SideRight, rightInput, seconds)
	e.moveBall(seconds)
	return e.state.toSnapshot()
}

// ForceSnapshot 상태 변경 없이 현재 스냅샷만 반환
func (e *Engine) ForceSnapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.toSnapshot()
}

func (e *Engine) movePaddle(side Side, input PaddleInput, seconds float64) {
	var deltaY float64
	switch input {
	case InputUp:
		deltaY = -paddleSpeed * seconds
	case InputDown:
		deltaY = paddleSpeed * seconds
	default:
		deltaY = 0
	}
	e.state.applyPaddleMove(side, deltaY)
}

func (e *Engine) moveBall(seconds float64) {
	if e.state.finished {
		return
	}
	e.state.moveBall(seconds)
	e.bounceIfNeeded()
	// 득점 후에는 실점한 진영 쪽으로 다시 서브한다
	if e.state.ballX < 0 {
		e.state.score(SideRight)
		e.resetRound(SideLeft)
	} else if e.state.ballX > e.state.courtWidth {
		e.state.score(SideLeft)
		e.resetRound(SideRight)
	}
}

// bounceIfNeeded 벽 반사 후 패들 반사를 검사한다.
// 같은 틱에서 벽과 패들 반사가 동시에 일어날 수 있다.
func (e *Engine) bounceIfNeeded() {
	s := e.state
	if s.ballY <= 0 || s.ballY >= s.courtHeight {
		s.reflectVertical()
	}

	if s.ballVelocityX < 0 && s.ballX <= leftPaddleX &&
		s.ballY >= s.leftPaddleY && s.ballY <= s.leftPaddleY+s.paddleHeight {
		s.reflectHorizontal()
	}
	if s.ballVelocityX > 0 && s.ballX >= rightPaddleX &&
		s.ballY >= s.rightPaddleY && s.ballY <= s.rightPaddleY+s.paddleHeight {
		s.reflectHorizontal()
	}
}

func (e *Engine) resetRound(toSide Side) {
	e.state.resetBall(toSide, ballSpeed)
	e.state.resetPaddles()
}
