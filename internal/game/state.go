package game

import (
	"math"

	"github.com/google/uuid"
)

// PaddleInput 패들 조작 입력
type PaddleInput string

const (
	InputUp   PaddleInput = "UP"
	InputDown PaddleInput = "DOWN"
	InputStay PaddleInput = "STAY"
)

// ParsePaddleInput 입력 토큰 파싱 (미인식 토큰은 STAY)
func ParsePaddleInput(raw string) PaddleInput {
	switch PaddleInput(raw) {
	case InputUp:
		return InputUp
	case InputDown:
		return InputDown
	}
	return InputStay
}

// Side 경기장 좌/우 진영
type Side int

const (
	SideLeft Side = iota
	SideRight
)

// Snapshot 틱 경계에서 찍히는 불변 상태 투영.
// 값 타입이므로 반환 이후 변경되지 않는다.
type Snapshot struct {
	RoomID        string  `json:"roomId"`
	BallX         float64 `json:"ballX"`
	BallY         float64 `json:"ballY"`
	BallVelocityX float64 `json:"ballVelocityX"`
	BallVelocityY float64 `json:"ballVelocityY"`
	LeftPaddleY   float64 `json:"leftPaddleY"`
	RightPaddleY  float64 `json:"rightPaddleY"`
	LeftScore     int     `json:"leftScore"`
	RightScore    int     `json:"rightScore"`
	TargetScore   int     `json:"targetScore"`
	Finished      bool    `json:"finished"`
}

// physicsState 한 경기의 가변 물리 상태. 엔진 내부에서만 갱신된다.
type physicsState struct {
	courtWidth   float64
	courtHeight  float64
	paddleHeight float64
	targetScore  int

	roomID string

	ballX         float64
	ballY         float64
	ballVelocityX float64
	ballVelocityY float64
	leftPaddleY   float64
	rightPaddleY  float64
	leftScore     int
	rightScore    int
	finished      bool
}

func newPhysicsState(courtWidth, courtHeight, paddleHeight float64, targetScore int) *physicsState {
	return &physicsState{
		courtWidth:   courtWidth,
		courtHeight:  courtHeight,
		paddleHeight: paddleHeight,
		targetScore:  targetScore,
		roomID:       uuid.New().String(),
	}
}

func (s *physicsState) toSnapshot() Snapshot {
	return Snapshot{
		RoomID:        s.roomID,
		BallX:         s.ballX,
		BallY:         s.ballY,
		BallVelocityX: s.ballVelocityX,
		BallVelocityY: s.ballVelocityY,
		LeftPaddleY:   s.leftPaddleY,
		RightPaddleY:  s.rightPaddleY,
		LeftScore:     s.leftScore,
		RightScore:    s.rightScore,
		TargetScore:   s.targetScore,
		Finished:      s.finished,
	}
}

func (s *physicsState) applyPaddleMove(side Side, deltaY float64) {
	if side == SideLeft {
		s.leftPaddleY = clamp(s.leftPaddleY+deltaY, 0, s.courtHeight-s.paddleHeight)
	} else {
		s.rightPaddleY = clamp(s.rightPaddleY+deltaY, 0, s.courtHeight-s.paddleHeight)
	}
}

func (s *physicsState) moveBall(seconds float64) {
	s.ballX += s.ballVelocityX * seconds
	s.ballY += s.ballVelocityY * seconds
}

func (s *physicsState) reflectVertical() {
	s.ballVelocityY = -s.ballVelocityY
}

func (s *physicsState) reflectHorizontal() {
	s.ballVelocityX = -s.ballVelocityX
}

// resetBall 공을 중앙으로 되돌리고 서브 방향/속도를 재배정한다.
// direction은 공이 날아갈 진영이다 (왼쪽이면 vx 음수).
func (s *physicsState) resetBall(direction Side, speed float64) {
	s.ballX = s.courtWidth / 2
	s.ballY = s.courtHeight / 2
	if direction == SideLeft {
		s.ballVelocityX = -speed
	} else {
		s.ballVelocityX = speed
	}
	s.ballVelocityY = speed / 2
}

func (s *physicsState) resetPaddles() {
	center := (s.courtHeight - s.paddleHeight) / 2
	s.leftPaddleY = center
	s.rightPaddleY = center
}

// score 득점 반영. 목표 점수 도달 시 finished는 true로 고정된다.
func (s *physicsState) score(side Side) {
	if side == SideLeft {
		s.leftScore++
	} else {
		s.rightScore++
	}
	if s.leftScore >= s.targetScore || s.rightScore >= s.targetScore {
		s.finished = true
	}
}

func clamp(value, min, max float64) float64 {
	return math.Max(min, math.Min(max, value))
}
