package service

import (
	"testing"
	"time"

	"github.com/seungwoo7050/codex-pong-video/internal/models"
)

// fakeResultStore 메모리 기반 ResultStore
type fakeResultStore struct {
	results []*models.GameResult
}

func (s *fakeResultStore) Create(result *models.GameResult) (*models.GameResult, error) {
	result.ID = "result-1"
	s.results = append(s.results, result)
	return result, nil
}

func (s *fakeResultStore) FindRecent(limit int) ([]*models.GameResult, error) {
	if len(s.results) > limit {
		return s.results[:limit], nil
	}
	return s.results, nil
}

func (s *fakeResultStore) FindByUserID(userID string, limit int) ([]*models.GameResult, error) {
	var matched []*models.GameResult
	for _, r := range s.results {
		if r.PlayerAID == userID || r.PlayerBID == userID {
			matched = append(matched, r)
		}
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func TestResultService_RankedMatchAppliesRating(t *testing.T) {
	dir := newFakeDirectory()
	dir.set("a", 1200)
	dir.set("b", 1200)
	store := &fakeResultStore{}
	svc := NewResultService(store, NewRankingService(dir))

	started := time.Now().Add(-time.Minute)
	finished := time.Now()

	result, err := svc.RecordResult("room-1", rankedUser("a"), rankedUser("b"), 5, 3,
		models.MatchTypeRanked, started, finished)
	if err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	if result.RatingChangeA != 16 || result.RatingChangeB != -16 {
		t.Errorf("rating changes = %d/%d, want +16/-16", result.RatingChangeA, result.RatingChangeB)
	}
	if result.RatingAfterA != 1216 || result.RatingAfterB != 1184 {
		t.Errorf("ratings after = %d/%d, want 1216/1184", result.RatingAfterA, result.RatingAfterB)
	}
	if *dir.ratings["a"] != 1216 || *dir.ratings["b"] != 1184 {
		t.Error("new ratings should be persisted to the directory")
	}
	if len(store.results) != 1 {
		t.Fatalf("stored results = %d, want 1", len(store.results))
	}
}

func TestResultService_NormalMatchLeavesRatingsUntouched(t *testing.T) {
	dir := newFakeDirectory()
	dir.set("a", 1300)
	store := &fakeResultStore{}
	svc := NewResultService(store, NewRankingService(dir))

	result, err := svc.RecordResult("room-1", rankedUser("a"), rankedUser("b"), 5, 0,
		models.MatchTypeNormal, time.Now().Add(-time.Minute), time.Now())
	if err != nil {
		t.Fatalf("RecordResult failed: %v", err)
	}

	if result.RatingChangeA != 0 || result.RatingChangeB != 0 {
		t.Error("normal match should not change ratings")
	}
	if len(dir.saves) != 0 {
		t.Error("normal match should not persist ratings")
	}
	if len(store.results) != 1 {
		t.Fatalf("stored results = %d, want 1", len(store.results))
	}
}

func TestResultService_FindResultsForUserFiltersParticipants(t *testing.T) {
	dir := newFakeDirectory()
	store := &fakeResultStore{}
	svc := NewResultService(store, NewRankingService(dir))

	started := time.Now().Add(-time.Minute)
	finished := time.Now()
	svc.RecordResult("room-1", rankedUser("a"), rankedUser("b"), 5, 2,
		models.MatchTypeNormal, started, finished)
	svc.RecordResult("room-2", rankedUser("b"), rankedUser("c"), 5, 4,
		models.MatchTypeNormal, started, finished)

	results, err := svc.FindResultsForUser("a")
	if err != nil {
		t.Fatalf("FindResultsForUser failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results for a = %d, want 1", len(results))
	}
	if results[0].RoomID != "room-1" {
		t.Errorf("roomId = %s, want room-1", results[0].RoomID)
	}

	both, err := svc.FindResultsForUser("b")
	if err != nil {
		t.Fatalf("FindResultsForUser failed: %v", err)
	}
	if len(both) != 2 {
		t.Errorf("results for b = %d, want 2", len(both))
	}
}

func TestResultService_WinnerIDResolvesFromScores(t *testing.T) {
	result := &models.GameResult{PlayerAID: "a", PlayerBID: "b", ScoreA: 2, ScoreB: 5}
	if winner := result.WinnerID(); winner == nil || *winner != "b" {
		t.Errorf("winner = %v, want b", winner)
	}

	tie := &models.GameResult{PlayerAID: "a", PlayerBID: "b", ScoreA: 3, ScoreB: 3}
	if tie.WinnerID() != nil {
		t.Error("tie should have no winner")
	}
}
