package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
	"party-hub/internal/game"
)

type addPointsRequest struct {
	PartyID uint `json:"party" binding:"required"`
	Points  int  `json:"points" binding:"required"`
}

func (s *Server) handleListScores(c *gin.Context) {
	query := s.db.Model(&db.GameScore{}).Preload("User")
	if partyID, ok := queryID(c, "party"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	var scores []db.GameScore
	if err := query.Order("total_points DESC").Find(&scores).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list scores")
		return
	}
	c.JSON(http.StatusOK, gin.H{"scores": s.projectScores(scores)})
}

func (s *Server) handleMyScores(c *gin.Context) {
	user := currentUser(c)
	var scores []db.GameScore
	if err := s.db.Where("user_id = ?", user.ID).Order("total_points DESC").Find(&scores).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list scores")
		return
	}
	for i := range scores {
		scores[i].User = user
	}
	c.JSON(http.StatusOK, gin.H{"scores": s.projectScores(scores)})
}

func (s *Server) handleAddPoints(c *gin.Context) {
	user := currentUser(c)
	var req addPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	score, newBadges, err := s.engine.AddPoints(user.ID, req.PartyID, req.Points)
	if err != nil {
		writeGameError(c, err)
		return
	}
	if newBadges == nil {
		newBadges = []db.Badge{}
	}
	c.JSON(http.StatusOK, gin.H{
		"score":      score,
		"new_badges": newBadges,
	})
}

func (s *Server) handleRanking(c *gin.Context) {
	user := currentUser(c)
	partyID, ok := queryID(c, "party", "party_id")
	if !ok {
		writeError(c, http.StatusBadRequest, "party query parameter is required")
		return
	}
	ranking, err := s.engine.Rank(user.ID, partyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, ranking)
}

func (s *Server) handleScoreLeaderboard(c *gin.Context) {
	limit := queryLimit(c, s.cfg.LeaderboardDefaultLimit, s.cfg.LeaderboardMaxLimit)
	if partyID, ok := queryID(c, "party", "party_id"); ok {
		entries, err := s.engine.Leaderboard(partyID, limit)
		if err != nil {
			writeGameError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"leaderboard": s.decorateEntries(entries)})
		return
	}
	s.overallLeaderboard(c, limit)
}

// overallLeaderboard sums points across every party per user. This is the one
// ranking that spans score rows, so it runs as a grouped query instead of
// going through the engine.
func (s *Server) overallLeaderboard(c *gin.Context, limit int) {
	type row struct {
		UserID      uint
		TotalPoints int
	}
	var rows []row
	err := s.db.Model(&db.GameScore{}).
		Select("user_id, SUM(total_points) AS total_points").
		Group("user_id").
		Order("total_points DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}
	entries := make([]game.LeaderboardEntry, 0, len(rows))
	rank := 0
	prev := -1
	for i, r := range rows {
		if r.TotalPoints != prev {
			rank = i + 1
			prev = r.TotalPoints
		}
		entries = append(entries, game.LeaderboardEntry{
			Position:    i + 1,
			Rank:        rank,
			UserID:      r.UserID,
			TotalPoints: r.TotalPoints,
			Level:       game.Level(r.TotalPoints),
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": s.decorateEntries(entries)})
}

func (s *Server) handleLevelDistribution(c *gin.Context) {
	partyID, ok := queryID(c, "party", "party_id")
	if !ok {
		writeError(c, http.StatusBadRequest, "party query parameter is required")
		return
	}
	buckets, err := s.engine.LevelDistribution(partyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	if buckets == nil {
		buckets = []game.LevelBucket{}
	}
	c.JSON(http.StatusOK, gin.H{"distribution": buckets})
}

func (s *Server) handlePartyScoreStats(c *gin.Context) {
	partyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.findParty(c, partyID); !ok {
		return
	}
	stats, top, err := s.engine.PartyStats(partyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	const topLimit = 10
	if len(top) > topLimit {
		top = top[:topLimit]
	}
	c.JSON(http.StatusOK, gin.H{
		"stats":       stats,
		"top_players": s.decorateEntries(top),
	})
}

type leaderboardEntryDetail struct {
	game.LeaderboardEntry
	User userSummary `json:"user_detail"`
}

// decorateEntries attaches the user summary to each leaderboard row with a
// single batched lookup.
func (s *Server) decorateEntries(entries []game.LeaderboardEntry) []leaderboardEntryDetail {
	detailed := make([]leaderboardEntryDetail, 0, len(entries))
	if len(entries) == 0 {
		return detailed
	}
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.UserID)
	}
	var users []db.User
	s.db.Where("id IN ?", ids).Find(&users)
	byID := make(map[uint]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	for _, entry := range entries {
		detailed = append(detailed, leaderboardEntryDetail{
			LeaderboardEntry: entry,
			User:             summarizeUser(byID[entry.UserID]),
		})
	}
	return detailed
}

func (s *Server) projectScores(scores []db.GameScore) []scoreDetail {
	details := make([]scoreDetail, 0, len(scores))
	if len(scores) == 0 {
		return details
	}
	partyIDs := make([]uint, 0, len(scores))
	for _, score := range scores {
		partyIDs = append(partyIDs, score.PartyID)
	}
	var parties []db.Party
	s.db.Select("id, name").Where("id IN ?", partyIDs).Find(&parties)
	names := make(map[uint]string, len(parties))
	for _, party := range parties {
		names[party.ID] = party.Name
	}
	for _, score := range scores {
		details = append(details, scoreDetail{
			GameScore: score,
			User:      summarizeUser(score.User),
			PartyName: names[score.PartyID],
		})
	}
	return details
}
