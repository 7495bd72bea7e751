package game

import (
	"sync"
	"testing"
	"time"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
)

func testUser(id, nickname string) *models.User {
	return &models.User{ID: id, Username: nickname, Nickname: nickname}
}

func TestRoom_Contains(t *testing.T) {
	room := NewRoom(testUser("alice", "Alice"), testUser("bob", "Bob"), models.MatchTypeNormal)

	if !room.Contains("alice") || !room.Contains("bob") {
		t.Error("room should contain both participants")
	}
	if room.Contains("mallory") {
		t.Error("room should not contain a stranger")
	}
}

func TestRoom_UpdateInputLatestWins(t *testing.T) {
	room := NewRoom(testUser("alice", "Alice"), testUser("bob", "Bob"), models.MatchTypeNormal)

	room.UpdateInput("alice", InputDown)
	room.UpdateInput("alice", InputUp)

	snapshot := room.Tick(100 * time.Millisecond)
	if snapshot.LeftPaddleY >= (courtHeight-paddleHeight)/2 {
		t.Errorf("latest UP input should win over earlier DOWN, paddle at %v", snapshot.LeftPaddleY)
	}
}

func TestRoom_IgnoresInputFromStranger(t *testing.T) {
	room := NewRoom(testUser("alice", "Alice"), testUser("bob", "Bob"), models.MatchTypeNormal)

	room.UpdateInput("mallory", InputUp)

	snapshot := room.Tick(100 * time.Millisecond)
	center := (courtHeight - paddleHeight) / 2
	if snapshot.LeftPaddleY != center || snapshot.RightPaddleY != center {
		t.Error("input from a non-participant must not move any paddle")
	}
}

func TestRoom_RecordsStartAndFinishTimestampsOnce(t *testing.T) {
	room := NewRoom(testUser("alice", "Alice"), testUser("bob", "Bob"), models.MatchTypeRanked)

	if !room.StartedAt().IsZero() {
		t.Error("startedAt should be zero before the first tick")
	}

	room.Tick(100 * time.Millisecond)
	startedAt := room.StartedAt()
	if startedAt.IsZero() {
		t.Fatal("startedAt should be set by the first tick")
	}

	room.Tick(100 * time.Millisecond)
	if !room.StartedAt().Equal(startedAt) {
		t.Error("startedAt must not be overwritten by later ticks")
	}

	for !room.IsFinished() {
		room.Tick(2 * time.Second)
	}
	finishedAt := room.FinishedAt()
	if finishedAt.IsZero() {
		t.Fatal("finishedAt should be set by the finishing tick")
	}

	room.Tick(2 * time.Second)
	if !room.FinishedAt().Equal(finishedAt) {
		t.Error("finishedAt must not be overwritten by ticks after finish")
	}
}

func TestRoom_ConcurrentInputAndTick(t *testing.T) {
	room := NewRoom(testUser("alice", "Alice"), testUser("bob", "Bob"), models.MatchTypeNormal)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(2)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				room.UpdateInput("alice", InputUp)
				room.UpdateInput("bob", InputDown)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			room.Tick(time.Millisecond)
		}
		close(stop)
	}()

	wg.Wait()

	snapshot := room.CurrentSnapshot()
	if snapshot.LeftPaddleY < 0 || snapshot.LeftPaddleY > courtHeight-paddleHeight {
		t.Errorf("left paddle out of bounds under concurrent input: %v", snapshot.LeftPaddleY)
	}
}
