package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"party-hub/internal/db"
)

type badgeRequest struct {
	Name           string `json:"name" binding:"required,max=100"`
	Description    string `json:"description"`
	Icon           string `json:"icon" binding:"max=10"`
	PointsRequired *int   `json:"points_required" binding:"required,min=0"`
	Color          string `json:"color" binding:"omitempty,hexcolor"`
	IsActive       *bool  `json:"is_active"`
}

type awardBadgeRequest struct {
	UserID  uint `json:"user" binding:"required"`
	BadgeID uint `json:"badge" binding:"required"`
	PartyID uint `json:"party" binding:"required"`
}

type autoAwardRequest struct {
	PartyID uint `json:"party" binding:"required"`
}

func (s *Server) handleListBadges(c *gin.Context) {
	query := s.db.Model(&db.Badge{})
	if c.Query("all") != "true" {
		query = query.Where("is_active = ?", true)
	}
	var badges []db.Badge
	if err := query.Order("points_required ASC").Find(&badges).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list badges")
		return
	}
	c.JSON(http.StatusOK, gin.H{"badges": badges})
}

func (s *Server) handleCreateBadge(c *gin.Context) {
	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	badge := db.Badge{
		Name:           req.Name,
		Description:    req.Description,
		Icon:           req.Icon,
		PointsRequired: *req.PointsRequired,
		Color:          "#FFD700",
		IsActive:       true,
	}
	if req.Color != "" {
		badge.Color = req.Color
	}
	if req.IsActive != nil {
		badge.IsActive = *req.IsActive
	}
	if err := s.db.Create(&badge).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(c, http.StatusConflict, "a badge with that name already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to create badge")
		return
	}
	c.JSON(http.StatusCreated, badge)
}

func (s *Server) handleUpdateBadge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var badge db.Badge
	if err := s.db.First(&badge, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "badge not found")
		return
	}
	var req badgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	badge.Name = req.Name
	badge.Description = req.Description
	badge.Icon = req.Icon
	badge.PointsRequired = *req.PointsRequired
	if req.Color != "" {
		badge.Color = req.Color
	}
	if req.IsActive != nil {
		badge.IsActive = *req.IsActive
	}
	if err := s.db.Save(&badge).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(c, http.StatusConflict, "a badge with that name already exists")
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to update badge")
		return
	}
	c.JSON(http.StatusOK, badge)
}

// Deleting a badge removes every award of it. Deactivation via is_active is
// the safer path and leaves earned rows intact.
func (s *Server) handleDeleteBadge(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var badge db.Badge
	if err := s.db.First(&badge, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "badge not found")
		return
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("badge_id = ?", badge.ID).Delete(&db.UserBadge{}).Error; err != nil {
			return err
		}
		return tx.Delete(&badge).Error
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete badge")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAvailableBadges(c *gin.Context) {
	user := currentUser(c)
	partyID, ok := queryID(c, "party", "party_id")
	if !ok {
		writeError(c, http.StatusBadRequest, "party query parameter is required")
		return
	}
	progress, err := s.engine.BadgeProgress(user.ID, partyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, progress)
}

func (s *Server) handleMyBadges(c *gin.Context) {
	user := currentUser(c)
	query := s.db.Where("user_id = ?", user.ID).Preload("Badge")
	if partyID, ok := queryID(c, "party", "party_id"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	var awards []db.UserBadge
	if err := query.Order("earned_at DESC").Find(&awards).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list badges")
		return
	}
	for i := range awards {
		awards[i].User = user
	}
	c.JSON(http.StatusOK, gin.H{"badges": s.projectAwards(awards)})
}

// handleBadgeLeaderboard ranks users by how many badges they have earned,
// optionally within one party.
func (s *Server) handleBadgeLeaderboard(c *gin.Context) {
	limit := queryLimit(c, s.cfg.LeaderboardDefaultLimit, s.cfg.LeaderboardMaxLimit)
	query := s.db.Model(&db.UserBadge{}).
		Select("user_id, COUNT(*) AS badge_count").
		Group("user_id").
		Order("badge_count DESC").
		Limit(limit)
	if partyID, ok := queryID(c, "party", "party_id"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	type row struct {
		UserID     uint
		BadgeCount int
	}
	var rows []row
	if err := query.Scan(&rows).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to build leaderboard")
		return
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.UserID)
	}
	var users []db.User
	if len(ids) > 0 {
		s.db.Where("id IN ?", ids).Find(&users)
	}
	byID := make(map[uint]*db.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	type entry struct {
		Position   int         `json:"position"`
		User       userSummary `json:"user_detail"`
		BadgeCount int         `json:"badge_count"`
	}
	entries := make([]entry, 0, len(rows))
	for i, r := range rows {
		entries = append(entries, entry{
			Position:   i + 1,
			User:       summarizeUser(byID[r.UserID]),
			BadgeCount: r.BadgeCount,
		})
	}
	c.JSON(http.StatusOK, gin.H{"leaderboard": entries})
}

// handlePartyAchievements groups a party's earned badges by badge, each with
// the list of users who earned it.
func (s *Server) handlePartyAchievements(c *gin.Context) {
	partyID, ok := queryID(c, "party", "party_id")
	if !ok {
		writeError(c, http.StatusBadRequest, "party query parameter is required")
		return
	}
	party, ok := s.findParty(c, partyID)
	if !ok {
		return
	}
	var awards []db.UserBadge
	if err := s.db.Where("party_id = ?", party.ID).
		Preload("User").Preload("Badge").
		Order("earned_at ASC").
		Find(&awards).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list achievements")
		return
	}
	type earner struct {
		User     userSummary `json:"user"`
		EarnedAt time.Time   `json:"earned_at"`
	}
	type badgeGroup struct {
		Badge   db.Badge `json:"badge"`
		Earners []earner `json:"earners"`
	}
	groups := make([]*badgeGroup, 0)
	byBadge := make(map[uint]*badgeGroup)
	for _, award := range awards {
		group, seen := byBadge[award.BadgeID]
		if !seen {
			group = &badgeGroup{}
			if award.Badge != nil {
				group.Badge = *award.Badge
			}
			byBadge[award.BadgeID] = group
			groups = append(groups, group)
		}
		group.Earners = append(group.Earners, earner{
			User:     summarizeUser(award.User),
			EarnedAt: award.EarnedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"party":               partySummary{ID: party.ID, Name: party.Name},
		"total_achievements":  len(awards),
		"badges_with_earners": groups,
	})
}

// handleAutoAward re-runs threshold evaluation for the caller in one party
// and reports anything newly earned.
func (s *Server) handleAutoAward(c *gin.Context) {
	user := currentUser(c)
	var req autoAwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	awarded, err := s.engine.EvaluateAwards(user.ID, req.PartyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	if awarded == nil {
		awarded = []db.Badge{}
	}
	c.JSON(http.StatusOK, gin.H{
		"new_badges":    awarded,
		"awarded_count": len(awarded),
	})
}

func (s *Server) handleAwardBadge(c *gin.Context) {
	user := currentUser(c)
	var req awardBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	badge, err := s.engine.AwardBadge(user.ID, user.IsStaff, req.UserID, req.BadgeID, req.PartyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"badge": badge})
}

func (s *Server) projectAwards(awards []db.UserBadge) []userBadgeDetail {
	details := make([]userBadgeDetail, 0, len(awards))
	if len(awards) == 0 {
		return details
	}
	partyIDs := make([]uint, 0, len(awards))
	for _, award := range awards {
		partyIDs = append(partyIDs, award.PartyID)
	}
	var parties []db.Party
	s.db.Select("id, name").Where("id IN ?", partyIDs).Find(&parties)
	names := make(map[uint]string, len(parties))
	for _, party := range parties {
		names[party.ID] = party.Name
	}
	for _, award := range awards {
		var badge db.Badge
		if award.Badge != nil {
			badge = *award.Badge
		}
		details = append(details, projectUserBadge(award, badge, award.User, names[award.PartyID]))
	}
	return details
}
