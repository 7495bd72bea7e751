package game

import (
	"testing"
	"time"
)

func TestEngine_BallMovesAlongVelocity(t *testing.T) {
	engine := NewEngine()
	start := engine.ForceSnapshot()

	first := engine.Tick(100*time.Millisecond, InputStay, InputStay)

	if first.BallX == start.BallX {
		t.Error("ball X should change after a tick with positive delta")
	}
	if (first.BallX-start.BallX)*start.BallVelocityX < 0 {
		t.Errorf("ball should move along its velocity direction: moved %v with vx %v",
			first.BallX-start.BallX, start.BallVelocityX)
	}
	if first.LeftScore != 0 || first.RightScore != 0 {
		t.Errorf("no score should increment before the ball crosses a boundary, got %d-%d",
			first.LeftScore, first.RightScore)
	}
}

func TestEngine_ZeroDeltaIsNoOp(t *testing.T) {
	engine := NewEngine()
	before := engine.ForceSnapshot()

	after := engine.Tick(0, InputStay, InputStay)

	if after != before {
		t.Errorf("zero delta tick should not change state: before=%+v after=%+v", before, after)
	}
}

func TestEngine_ScoringIsExclusiveAndResetsRound(t *testing.T) {
	engine := NewEngine()

	// 2초 틱이면 공이 한 틱 안에 경기장 경계를 넘는다
	scored := engine.Tick(2*time.Second, InputStay, InputStay)

	total := scored.LeftScore + scored.RightScore
	if total != 1 {
		t.Fatalf("exactly one side should score per boundary crossing, got %d-%d",
			scored.LeftScore, scored.RightScore)
	}
	if scored.BallX != courtWidth/2 || scored.BallY != courtHeight/2 {
		t.Errorf("ball should re-center after scoring, got (%v, %v)", scored.BallX, scored.BallY)
	}
	wantPaddleY := (courtHeight - paddleHeight) / 2
	if scored.LeftPaddleY != wantPaddleY || scored.RightPaddleY != wantPaddleY {
		t.Errorf("paddles should re-center after scoring, got left=%v right=%v",
			scored.LeftPaddleY, scored.RightPaddleY)
	}
}

func TestEngine_ServeTowardConcedingSide(t *testing.T) {
	engine := NewEngine()

	// 개장 서브는 오른쪽으로 날아간다
	if vx := engine.ForceSnapshot().BallVelocityX; vx != ballSpeed {
		t.Fatalf("opening serve vx = %v, want %v", vx, ballSpeed)
	}

	// 무입력 2초 틱이면 왼쪽이 득점하고, 방금 실점한 오른쪽 진영으로 다시 서브한다
	snapshot := engine.Tick(2*time.Second, InputStay, InputStay)
	if snapshot.LeftScore != 1 || snapshot.RightScore != 0 {
		t.Fatalf("score = %d-%d, want 1-0", snapshot.LeftScore, snapshot.RightScore)
	}
	if snapshot.BallVelocityX != ballSpeed {
		t.Errorf("serve after left's point vx = %v, want %v (toward the conceding side)",
			snapshot.BallVelocityX, ballSpeed)
	}

	// 서브 방향이 유지되므로 무입력 경기는 5-0 (총 5득점)으로 끝난다
	for !snapshot.Finished {
		snapshot = engine.Tick(2*time.Second, InputStay, InputStay)
	}
	if snapshot.LeftScore != targetScore || snapshot.RightScore != 0 {
		t.Errorf("idle game = %d-%d, want %d-0", snapshot.LeftScore, snapshot.RightScore, targetScore)
	}
}

func TestEngine_FinishesAtTargetScore(t *testing.T) {
	engine := NewEngine()

	var snapshot Snapshot
	ticks := 0
	for !snapshot.Finished {
		snapshot = engine.Tick(2*time.Second, InputStay, InputStay)
		ticks++
		if ticks > 100 {
			t.Fatal("engine did not finish within 100 ticks")
		}
	}

	if snapshot.LeftScore+snapshot.RightScore != targetScore {
		t.Errorf("finished game should have %d total points, got %d-%d",
			targetScore, snapshot.LeftScore, snapshot.RightScore)
	}
	if snapshot.LeftScore != targetScore && snapshot.RightScore != targetScore {
		t.Errorf("one side should reach the target score, got %d-%d",
			snapshot.LeftScore, snapshot.RightScore)
	}
}

func TestEngine_FinishedStateIsTerminal(t *testing.T) {
	engine := NewEngine()

	var snapshot Snapshot
	for !snapshot.Finished {
		snapshot = engine.Tick(2*time.Second, InputStay, InputStay)
	}
	final := snapshot

	// 종료 후 틱은 공/점수를 동결한다
	for i := 0; i < 5; i++ {
		snapshot = engine.Tick(2*time.Second, InputStay, InputStay)
		if !snapshot.Finished {
			t.Fatal("finished flag must never revert to false")
		}
	}
	if snapshot.LeftScore != final.LeftScore || snapshot.RightScore != final.RightScore {
		t.Errorf("scores must not change after finish: %d-%d became %d-%d",
			final.LeftScore, final.RightScore, snapshot.LeftScore, snapshot.RightScore)
	}
	if snapshot.BallX != final.BallX || snapshot.BallY != final.BallY {
		t.Errorf("ball must not move after finish: (%v,%v) became (%v,%v)",
			final.BallX, final.BallY, snapshot.BallX, snapshot.BallY)
	}
}

func TestEngine_PaddlesStillMoveAfterFinish(t *testing.T) {
	engine := NewEngine()

	var snapshot Snapshot
	for !snapshot.Finished {
		snapshot = engine.Tick(2*time.Second, InputStay, InputStay)
	}
	before := snapshot.LeftPaddleY

	// 고정 정책: 종료 후에도 패들 입력은 계속 반영된다
	after := engine.Tick(100*time.Millisecond, InputUp, InputStay)
	if after.LeftPaddleY >= before {
		t.Errorf("left paddle should keep moving on input after finish: %v -> %v",
			before, after.LeftPaddleY)
	}
	if after.RightPaddleY != snapshot.RightPaddleY {
		t.Errorf("right paddle should stay without input, got %v -> %v",
			snapshot.RightPaddleY, after.RightPaddleY)
	}
}

func TestEngine_PaddleClampedToCourt(t *testing.T) {
	engine := NewEngine()

	var snapshot Snapshot
	// 득점으로 패들이 리셋되기 전에 충분히 끝까지 밀어붙인다
	// (1.2초 동안 패들은 312px를 이동하지만 공은 아직 경계에 닿지 않는다)
	for i := 0; i < 12; i++ {
		snapshot = engine.Tick(100*time.Millisecond, InputUp, InputDown)
	}

	if snapshot.LeftPaddleY != 0 {
		t.Errorf("left paddle should clamp at top, got %v", snapshot.LeftPaddleY)
	}
	if snapshot.RightPaddleY != courtHeight-paddleHeight {
		t.Errorf("right paddle should clamp at bottom, got %v", snapshot.RightPaddleY)
	}
}

func TestParsePaddleInput(t *testing.T) {
	tests := []struct {
		raw  string
		want PaddleInput
	}{
		{"UP", InputUp},
		{"DOWN", InputDown},
		{"STAY", InputStay},
		{"LEFT", InputStay},
		{"", InputStay},
		{"garbage", InputStay},
	}

	for _, tt := range tests {
		if got := ParsePaddleInput(tt.raw); got != tt.want {
			t.Errorf("ParsePaddleInput(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
