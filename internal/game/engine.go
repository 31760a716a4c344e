package game

import (
	"errors"
	"log"
	"math"
	"sort"

	"party-hub/internal/db"
)

// Store is the storage contract the engine runs against. MutateScore must
// apply the mutation as one atomic read-modify-write of the (user, party) row,
// creating it with zero points first if absent; CreateAward must rely on the
// (user, badge, party) uniqueness constraint and report false instead of
// failing when the award already exists.
type Store interface {
	Score(userID, partyID uint) (db.GameScore, error)
	MutateScore(userID, partyID uint, mutate func(*db.GameScore)) (db.GameScore, error)
	PartyScores(partyID uint) ([]db.GameScore, error)
	CountHigher(partyID uint, points int) (int, error)
	CountPlayers(partyID uint) (int, error)
	ActiveBadges() ([]db.Badge, error)
	AwardedBadgeIDs(userID, partyID uint) ([]uint, error)
	AwardCounts(partyID uint) (map[uint]int, error)
	CreateAward(userID, badgeID, partyID uint) (bool, error)
	ActiveQuestions(partyID uint) ([]db.TriviaQuestion, error)
}

// Level derives a level from a point total: every 100 points is one level,
// starting at level 1.
func Level(totalPoints int) int {
	if totalPoints < 0 {
		return 1
	}
	return totalPoints/100 + 1
}

type Engine struct {
	store          Store
	upcomingWindow int
}

func New(store Store, upcomingWindow int) *Engine {
	if upcomingWindow <= 0 {
		upcomingWindow = 50
	}
	return &Engine{store: store, upcomingWindow: upcomingWindow}
}

// AddPoints adds a positive amount to the user's score for the party,
// creating the score row if needed, and awards any badges the new total
// unlocks. Total and level are persisted together.
func (e *Engine) AddPoints(userID, partyID uint, points int) (db.GameScore, []db.Badge, error) {
	if points <= 0 {
		return db.GameScore{}, nil, validationErr("points", "must be a positive integer")
	}
	score, err := e.store.MutateScore(userID, partyID, func(s *db.GameScore) {
		s.TotalPoints += points
		s.Level = Level(s.TotalPoints)
	})
	if err != nil {
		return db.GameScore{}, nil, err
	}
	awarded, err := e.EvaluateAwards(userID, partyID)
	if err != nil {
		return score, nil, err
	}
	log.Printf("points added user_id=%d party_id=%d points=%d total=%d level=%d new_badges=%d",
		userID, partyID, points, score.TotalPoints, score.Level, len(awarded))
	return score, awarded, nil
}

// Rank returns the 1-based standing of the user's score within the party:
// (count of strictly greater totals) + 1. Tied totals share the same rank.
type Ranking struct {
	Rank         int `json:"ranking"`
	TotalPlayers int `json:"total_players"`
	TotalPoints  int `json:"total_points"`
	Level        int `json:"level"`
}

func (e *Engine) Rank(userID, partyID uint) (Ranking, error) {
	score, err := e.store.Score(userID, partyID)
	if err != nil {
		return Ranking{}, err
	}
	higher, err := e.store.CountHigher(partyID, score.TotalPoints)
	if err != nil {
		return Ranking{}, err
	}
	players, err := e.store.CountPlayers(partyID)
	if err != nil {
		return Ranking{}, err
	}
	return Ranking{
		Rank:         higher + 1,
		TotalPlayers: players,
		TotalPoints:  score.TotalPoints,
		Level:        score.Level,
	}, nil
}

// EvaluateAwards grants every active badge whose threshold the user's current
// total meets and that has not been awarded for this party yet. Idempotent:
// repeated calls with no point change create nothing. Uniqueness conflicts
// from concurrent attempts are absorbed as no-ops by the store.
func (e *Engine) EvaluateAwards(userID, partyID uint) ([]db.Badge, error) {
	points := 0
	if score, err := e.store.Score(userID, partyID); err == nil {
		points = score.TotalPoints
	} else if !errors.Is(err, ErrScoreNotFound) {
		return nil, err
	}

	badges, err := e.store.ActiveBadges()
	if err != nil {
		return nil, err
	}
	earnedIDs, err := e.store.AwardedBadgeIDs(userID, partyID)
	if err != nil {
		return nil, err
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	var awarded []db.Badge
	for _, badge := range badges {
		if badge.PointsRequired > points || earned[badge.ID] {
			continue
		}
		created, err := e.store.CreateAward(userID, badge.ID, partyID)
		if err != nil {
			return awarded, err
		}
		if created {
			awarded = append(awarded, badge)
		}
	}
	return awarded, nil
}

// AwardBadge grants one specific badge. Non-staff callers may only award to
// themselves and only once the threshold is met; staff bypasses the points
// check. An existing award surfaces as ErrAlreadyAwarded.
func (e *Engine) AwardBadge(callerID uint, callerStaff bool, userID, badgeID, partyID uint) (db.Badge, error) {
	if userID != callerID && !callerStaff {
		return db.Badge{}, ErrPermission
	}
	badges, err := e.store.ActiveBadges()
	if err != nil {
		return db.Badge{}, err
	}
	var badge *db.Badge
	for i := range badges {
		if badges[i].ID == badgeID {
			badge = &badges[i]
			break
		}
	}
	if badge == nil {
		return db.Badge{}, ErrBadgeNotFound
	}
	if !callerStaff {
		points := 0
		if score, err := e.store.Score(userID, partyID); err == nil {
			points = score.TotalPoints
		} else if !errors.Is(err, ErrScoreNotFound) {
			return db.Badge{}, err
		}
		if points < badge.PointsRequired {
			return db.Badge{}, ErrInsufficientPoints
		}
	}
	created, err := e.store.CreateAward(userID, badgeID, partyID)
	if err != nil {
		return db.Badge{}, err
	}
	if !created {
		return db.Badge{}, ErrAlreadyAwarded
	}
	return *badge, nil
}

// BadgeProgress lists active badges the user can claim now (threshold met,
// not yet earned) and badges within the upcoming window above the current
// total. Read-only; a missing score row counts as zero points.
type BadgeProgress struct {
	UserPoints int        `json:"user_points"`
	Available  []db.Badge `json:"available_badges"`
	Upcoming   []db.Badge `json:"upcoming_badges"`
}

func (e *Engine) BadgeProgress(userID, partyID uint) (BadgeProgress, error) {
	points := 0
	if score, err := e.store.Score(userID, partyID); err == nil {
		points = score.TotalPoints
	} else if !errors.Is(err, ErrScoreNotFound) {
		return BadgeProgress{}, err
	}

	badges, err := e.store.ActiveBadges()
	if err != nil {
		return BadgeProgress{}, err
	}
	earnedIDs, err := e.store.AwardedBadgeIDs(userID, partyID)
	if err != nil {
		return BadgeProgress{}, err
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	progress := BadgeProgress{
		UserPoints: points,
		Available:  []db.Badge{},
		Upcoming:   []db.Badge{},
	}
	for _, badge := range badges {
		if earned[badge.ID] {
			continue
		}
		switch {
		case badge.PointsRequired <= points:
			progress.Available = append(progress.Available, badge)
		case badge.PointsRequired <= points+e.upcomingWindow:
			progress.Upcoming = append(progress.Upcoming, badge)
		}
	}
	return progress, nil
}

// LeaderboardEntry is one display row. Position is the enumeration order of
// the sorted board; Rank is the strictly-greater-count formula, so tied
// totals share a rank.
type LeaderboardEntry struct {
	Position    int  `json:"position"`
	Rank        int  `json:"rank"`
	UserID      uint `json:"user_id"`
	TotalPoints int  `json:"total_points"`
	Level       int  `json:"level"`
	BadgeCount  int  `json:"badge_count"`
}

func (e *Engine) Leaderboard(partyID uint, limit int) ([]LeaderboardEntry, error) {
	scores, err := e.store.PartyScores(partyID)
	if err != nil {
		return nil, err
	}
	counts, err := e.store.AwardCounts(partyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].TotalPoints > scores[j].TotalPoints
	})
	if limit > 0 && len(scores) > limit {
		scores = scores[:limit]
	}
	entries := make([]LeaderboardEntry, 0, len(scores))
	for i, score := range scores {
		rank := i + 1
		if i > 0 && scores[i-1].TotalPoints == score.TotalPoints {
			rank = entries[i-1].Rank
		}
		entries = append(entries, LeaderboardEntry{
			Position:    i + 1,
			Rank:        rank,
			UserID:      score.UserID,
			TotalPoints: score.TotalPoints,
			Level:       score.Level,
			BadgeCount:  counts[score.UserID],
		})
	}
	return entries, nil
}

// PartyStats aggregates a party's scores for the stats endpoint.
type PartyStats struct {
	TotalPlayers int     `json:"total_players"`
	AverageScore float64 `json:"average_score"`
	HighestScore int     `json:"highest_score"`
	LowestScore  int     `json:"lowest_score"`
	TotalPoints  int     `json:"total_points"`
	AverageLevel float64 `json:"average_level"`
	HighestLevel int     `json:"highest_level"`
}

func (e *Engine) PartyStats(partyID uint) (PartyStats, []LeaderboardEntry, error) {
	scores, err := e.store.PartyScores(partyID)
	if err != nil {
		return PartyStats{}, nil, err
	}
	if len(scores) == 0 {
		return PartyStats{}, []LeaderboardEntry{}, nil
	}
	stats := PartyStats{
		TotalPlayers: len(scores),
		LowestScore:  scores[0].TotalPoints,
	}
	levelSum := 0
	for _, score := range scores {
		stats.TotalPoints += score.TotalPoints
		levelSum += score.Level
		if score.TotalPoints > stats.HighestScore {
			stats.HighestScore = score.TotalPoints
		}
		if score.TotalPoints < stats.LowestScore {
			stats.LowestScore = score.TotalPoints
		}
		if score.Level > stats.HighestLevel {
			stats.HighestLevel = score.Level
		}
	}
	stats.AverageScore = round2(float64(stats.TotalPoints) / float64(len(scores)))
	stats.AverageLevel = round2(float64(levelSum) / float64(len(scores)))

	top, err := e.Leaderboard(partyID, 10)
	if err != nil {
		return stats, nil, err
	}
	return stats, top, nil
}

// LevelDistribution counts players per level within a party.
type LevelBucket struct {
	Level int `json:"level"`
	Count int `json:"count"`
}

func (e *Engine) LevelDistribution(partyID uint) ([]LevelBucket, error) {
	scores, err := e.store.PartyScores(partyID)
	if err != nil {
		return nil, err
	}
	byLevel := make(map[int]int)
	for _, score := range scores {
		byLevel[score.Level]++
	}
	levels := make([]int, 0, len(byLevel))
	for level := range byLevel {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	buckets := make([]LevelBucket, 0, len(levels))
	for _, level := range levels {
		buckets = append(buckets, LevelBucket{Level: level, Count: byLevel[level]})
	}
	return buckets, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
