package game

import (
	"sync"
	"testing"

	"party-hub/internal/db"
)

func TestLevelFormula(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{199, 2},
		{250, 3},
		{1000, 11},
	}
	for _, tc := range cases {
		if got := Level(tc.points); got != tc.level {
			t.Fatalf("Level(%d) = %d, want %d", tc.points, got, tc.level)
		}
	}
}

func TestAddPointsRejectsNonPositive(t *testing.T) {
	engine := New(NewMemStore(), 50)
	for _, points := range []int{0, -5} {
		if _, _, err := engine.AddPoints(1, 1, points); !IsValidation(err) {
			t.Fatalf("expected validation error for points=%d, got %v", points, err)
		}
	}
	store := NewMemStore()
	engine = New(store, 50)
	if _, err := store.Score(1, 1); err != ErrScoreNotFound {
		t.Fatalf("expected no score row, got %v", err)
	}
}

func TestAddPointsCreatesAndLevels(t *testing.T) {
	engine := New(NewMemStore(), 50)
	score, _, err := engine.AddPoints(1, 1, 45)
	if err != nil {
		t.Fatalf("add points failed: %v", err)
	}
	if score.TotalPoints != 45 || score.Level != 1 {
		t.Fatalf("expected 45 points level 1, got %d/%d", score.TotalPoints, score.Level)
	}
	score, _, err = engine.AddPoints(1, 1, 60)
	if err != nil {
		t.Fatalf("add points failed: %v", err)
	}
	if score.TotalPoints != 105 || score.Level != 2 {
		t.Fatalf("expected 105 points level 2, got %d/%d", score.TotalPoints, score.Level)
	}
}

func TestConcurrentAddsSum(t *testing.T) {
	engine := New(NewMemStore(), 50)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := engine.AddPoints(1, 1, 10); err != nil {
				t.Errorf("add points failed: %v", err)
			}
		}()
	}
	wg.Wait()
	ranking, err := engine.Rank(1, 1)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if ranking.TotalPoints != 20 {
		t.Fatalf("expected total 20 after concurrent adds, got %d", ranking.TotalPoints)
	}
}

func TestRankTies(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	mustAdd(t, engine, 1, 7, 100)
	mustAdd(t, engine, 2, 7, 100)
	mustAdd(t, engine, 3, 7, 50)

	for _, userID := range []uint{1, 2} {
		ranking, err := engine.Rank(userID, 7)
		if err != nil {
			t.Fatalf("rank failed: %v", err)
		}
		if ranking.Rank != 1 {
			t.Fatalf("expected rank 1 for user %d, got %d", userID, ranking.Rank)
		}
	}
	ranking, err := engine.Rank(3, 7)
	if err != nil {
		t.Fatalf("rank failed: %v", err)
	}
	if ranking.Rank != 3 {
		t.Fatalf("expected rank 3 for trailing user, got %d", ranking.Rank)
	}
	if ranking.TotalPlayers != 3 {
		t.Fatalf("expected 3 players, got %d", ranking.TotalPlayers)
	}
}

func TestRankWithoutScore(t *testing.T) {
	engine := New(NewMemStore(), 50)
	if _, err := engine.Rank(1, 1); err != ErrScoreNotFound {
		t.Fatalf("expected ErrScoreNotFound, got %v", err)
	}
}

func TestEvaluateAwardsIdempotent(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "First Steps", PointsRequired: 10, IsActive: true})
	store.SeedBadge(db.Badge{Name: "Century", PointsRequired: 100, IsActive: true})
	engine := New(store, 50)

	mustAdd(t, engine, 1, 1, 40)
	first, err := engine.EvaluateAwards(1, 1)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("expected catch-up pass to award nothing new, got %d", len(first))
	}
	ids, _ := store.AwardedBadgeIDs(1, 1)
	if len(ids) != 1 {
		t.Fatalf("expected exactly one award after add, got %d", len(ids))
	}

	second, err := engine.EvaluateAwards(1, 1)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(second) != 0 {
		t.Fatalf("second evaluate must create zero awards, got %d", len(second))
	}
}

func TestZeroThresholdBadge(t *testing.T) {
	store := NewMemStore()
	freebie := store.SeedBadge(db.Badge{Name: "Party Guest", PointsRequired: 0, IsActive: true})
	engine := New(store, 50)

	awarded, err := engine.EvaluateAwards(5, 2)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(awarded) != 1 || awarded[0].ID != freebie.ID {
		t.Fatalf("expected zero-threshold badge for brand-new user, got %#v", awarded)
	}
}

func TestInactiveBadgeNeverAwarded(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "Retired", PointsRequired: 0, IsActive: false})
	engine := New(store, 50)
	awarded, err := engine.EvaluateAwards(1, 1)
	if err != nil {
		t.Fatalf("evaluate failed: %v", err)
	}
	if len(awarded) != 0 {
		t.Fatalf("inactive badge must not be awarded, got %d", len(awarded))
	}
}

func TestBadgeProgressWindow(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "Claimed", PointsRequired: 20, IsActive: true})
	store.SeedBadge(db.Badge{Name: "Reachable", PointsRequired: 30, IsActive: true})
	store.SeedBadge(db.Badge{Name: "Edge", PointsRequired: 80, IsActive: true})
	store.SeedBadge(db.Badge{Name: "TooFar", PointsRequired: 81, IsActive: true})
	engine := New(store, 50)

	// 30 points: Claimed and Reachable are both auto-awarded during the add.
	mustAdd(t, engine, 1, 1, 30)

	progress, err := engine.BadgeProgress(1, 1)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if progress.UserPoints != 30 {
		t.Fatalf("expected 30 points, got %d", progress.UserPoints)
	}
	if len(progress.Available) != 0 {
		t.Fatalf("available badges should already be auto-awarded, got %d", len(progress.Available))
	}
	if len(progress.Upcoming) != 1 || progress.Upcoming[0].Name != "Edge" {
		t.Fatalf("expected only Edge (threshold 80) within (30, 80], got %#v", progress.Upcoming)
	}
}

func TestBadgeProgressNoScore(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "Starter", PointsRequired: 0, IsActive: true})
	store.SeedBadge(db.Badge{Name: "Soon", PointsRequired: 40, IsActive: true})
	engine := New(store, 50)

	progress, err := engine.BadgeProgress(9, 9)
	if err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	if progress.UserPoints != 0 {
		t.Fatalf("missing score must read as 0 points, got %d", progress.UserPoints)
	}
	if len(progress.Available) != 1 || progress.Available[0].Name != "Starter" {
		t.Fatalf("expected zero-threshold badge available, got %#v", progress.Available)
	}
	if len(progress.Upcoming) != 1 || progress.Upcoming[0].Name != "Soon" {
		t.Fatalf("expected 40-point badge upcoming, got %#v", progress.Upcoming)
	}
}

func TestAwardBadgePermissions(t *testing.T) {
	store := NewMemStore()
	badge := store.SeedBadge(db.Badge{Name: "VIP", PointsRequired: 50, IsActive: true})
	engine := New(store, 50)

	if _, err := engine.AwardBadge(1, false, 2, badge.ID, 1); err != ErrPermission {
		t.Fatalf("expected permission error awarding to another user, got %v", err)
	}
	if _, err := engine.AwardBadge(1, false, 1, badge.ID, 1); err != ErrInsufficientPoints {
		t.Fatalf("expected insufficient points, got %v", err)
	}
	if _, err := engine.AwardBadge(9, true, 2, badge.ID, 1); err != nil {
		t.Fatalf("staff award failed: %v", err)
	}
	if _, err := engine.AwardBadge(9, true, 2, badge.ID, 1); err != ErrAlreadyAwarded {
		t.Fatalf("expected already-awarded on repeat, got %v", err)
	}
	if _, err := engine.AwardBadge(9, true, 2, 999, 1); err != ErrBadgeNotFound {
		t.Fatalf("expected badge-not-found, got %v", err)
	}
}

func TestLeaderboardRanksAndBadgeCounts(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "Ten", PointsRequired: 10, IsActive: true})
	engine := New(store, 50)
	mustAdd(t, engine, 1, 3, 100)
	mustAdd(t, engine, 2, 3, 100)
	mustAdd(t, engine, 3, 3, 50)

	entries, err := engine.Leaderboard(3, 10)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Rank != 1 || entries[1].Rank != 1 || entries[2].Rank != 3 {
		t.Fatalf("expected ranks 1,1,3, got %d,%d,%d", entries[0].Rank, entries[1].Rank, entries[2].Rank)
	}
	if entries[0].Position != 1 || entries[2].Position != 3 {
		t.Fatalf("positions must enumerate the board, got %d..%d", entries[0].Position, entries[2].Position)
	}
	for _, entry := range entries {
		if entry.BadgeCount != 1 {
			t.Fatalf("every player passed 10 points, expected badge count 1, got %d", entry.BadgeCount)
		}
	}
}

func TestPartyStats(t *testing.T) {
	engine := New(NewMemStore(), 50)
	stats, top, err := engine.PartyStats(4)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalPlayers != 0 || len(top) != 0 {
		t.Fatalf("expected empty stats for empty party, got %#v", stats)
	}

	mustAdd(t, engine, 1, 4, 150)
	mustAdd(t, engine, 2, 4, 50)
	stats, top, err = engine.PartyStats(4)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalPlayers != 2 || stats.TotalPoints != 200 {
		t.Fatalf("unexpected totals: %#v", stats)
	}
	if stats.AverageScore != 100 || stats.HighestScore != 150 || stats.LowestScore != 50 {
		t.Fatalf("unexpected aggregates: %#v", stats)
	}
	if stats.HighestLevel != 2 || stats.AverageLevel != 1.5 {
		t.Fatalf("unexpected level aggregates: %#v", stats)
	}
	if len(top) != 2 || top[0].TotalPoints != 150 {
		t.Fatalf("unexpected top players: %#v", top)
	}
}

func TestLevelDistribution(t *testing.T) {
	engine := New(NewMemStore(), 50)
	mustAdd(t, engine, 1, 5, 20)
	mustAdd(t, engine, 2, 5, 80)
	mustAdd(t, engine, 3, 5, 120)

	buckets, err := engine.LevelDistribution(5)
	if err != nil {
		t.Fatalf("distribution failed: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %#v", buckets)
	}
	if buckets[0].Level != 1 || buckets[0].Count != 2 {
		t.Fatalf("expected 2 players at level 1, got %#v", buckets[0])
	}
	if buckets[1].Level != 2 || buckets[1].Count != 1 {
		t.Fatalf("expected 1 player at level 2, got %#v", buckets[1])
	}
}

func mustAdd(t *testing.T, engine *Engine, userID, partyID uint, points int) {
	t.Helper()
	if _, _, err := engine.AddPoints(userID, partyID, points); err != nil {
		t.Fatalf("add points failed: %v", err)
	}
}
