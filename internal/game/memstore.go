package game

import (
	"sort"
	"sync"
	"time"

	"party-hub/internal/db"
)

// MemStore is an in-memory Store. It backs the test suite and store-less
// development runs; atomicity comes from a single mutex instead of row locks.
type MemStore struct {
	mu        sync.Mutex
	nextID    uint
	scores    map[[2]uint]*db.GameScore // (userID, partyID)
	badges    []db.Badge
	awards    map[[3]uint]*db.UserBadge // (userID, badgeID, partyID)
	questions []db.TriviaQuestion
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID: 1,
		scores: make(map[[2]uint]*db.GameScore),
		awards: make(map[[3]uint]*db.UserBadge),
	}
}

// SeedBadge adds a catalog entry, assigning an id if missing.
func (m *MemStore) SeedBadge(badge db.Badge) db.Badge {
	m.mu.Lock()
	defer m.mu.Unlock()
	if badge.ID == 0 {
		badge.ID = m.nextID
		m.nextID++
	}
	m.badges = append(m.badges, badge)
	return badge
}

// SeedQuestion adds a trivia question, assigning an id if missing.
func (m *MemStore) SeedQuestion(question db.TriviaQuestion) db.TriviaQuestion {
	m.mu.Lock()
	defer m.mu.Unlock()
	if question.ID == 0 {
		question.ID = m.nextID
		m.nextID++
	}
	m.questions = append(m.questions, question)
	return question
}

func (m *MemStore) Score(userID, partyID uint) (db.GameScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	score, ok := m.scores[[2]uint{userID, partyID}]
	if !ok {
		return db.GameScore{}, ErrScoreNotFound
	}
	return *score, nil
}

func (m *MemStore) MutateScore(userID, partyID uint, mutate func(*db.GameScore)) (db.GameScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{userID, partyID}
	score, ok := m.scores[key]
	if !ok {
		score = &db.GameScore{
			ID:          m.nextID,
			UserID:      userID,
			PartyID:     partyID,
			TotalPoints: 0,
			Level:       1,
			CreatedAt:   time.Now(),
		}
		m.nextID++
		m.scores[key] = score
	}
	mutate(score)
	score.UpdatedAt = time.Now()
	return *score, nil
}

func (m *MemStore) PartyScores(partyID uint) ([]db.GameScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var scores []db.GameScore
	for key, score := range m.scores {
		if key[1] == partyID {
			scores = append(scores, *score)
		}
	}
	sort.Slice(scores, func(i, j int) bool { return scores[i].ID < scores[j].ID })
	return scores, nil
}

func (m *MemStore) CountHigher(partyID uint, points int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for key, score := range m.scores {
		if key[1] == partyID && score.TotalPoints > points {
			count++
		}
	}
	return count, nil
}

func (m *MemStore) CountPlayers(partyID uint) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for key := range m.scores {
		if key[1] == partyID {
			count++
		}
	}
	return count, nil
}

func (m *MemStore) ActiveBadges() ([]db.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var badges []db.Badge
	for _, badge := range m.badges {
		if badge.IsActive {
			badges = append(badges, badge)
		}
	}
	sort.Slice(badges, func(i, j int) bool { return badges[i].PointsRequired < badges[j].PointsRequired })
	return badges, nil
}

func (m *MemStore) AwardedBadgeIDs(userID, partyID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for key := range m.awards {
		if key[0] == userID && key[2] == partyID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

func (m *MemStore) AwardCounts(partyID uint) (map[uint]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[uint]int)
	for key := range m.awards {
		if key[2] == partyID {
			counts[key[0]]++
		}
	}
	return counts, nil
}

func (m *MemStore) CreateAward(userID, badgeID, partyID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [3]uint{userID, badgeID, partyID}
	if _, exists := m.awards[key]; exists {
		return false, nil
	}
	m.awards[key] = &db.UserBadge{
		ID:       m.nextID,
		UserID:   userID,
		BadgeID:  badgeID,
		PartyID:  partyID,
		EarnedAt: time.Now(),
	}
	m.nextID++
	return true, nil
}

func (m *MemStore) ActiveQuestions(partyID uint) ([]db.TriviaQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var questions []db.TriviaQuestion
	for _, q := range m.questions {
		if !q.IsActive {
			continue
		}
		if q.PartyID == nil || *q.PartyID == partyID {
			questions = append(questions, q)
		}
	}
	return questions, nil
}
