package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

type timelineRequest struct {
	Time            string `json:"time" binding:"required,datetime=15:04"`
	Activity        string `json:"activity" binding:"required,max=200"`
	Description     string `json:"description"`
	Icon            string `json:"icon" binding:"omitempty,max=50"`
	DurationMinutes *int   `json:"duration_minutes" binding:"omitempty,gt=0"`
	IsActive        *bool  `json:"is_active"`
}

func (s *Server) handleListTimeline(c *gin.Context) {
	partyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.findParty(c, partyID); !ok {
		return
	}
	var events []db.PartyTimelineEvent
	if err := s.db.Where("party_id = ? AND is_active = ?", partyID, true).
		Order("time ASC").Find(&events).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list timeline")
		return
	}
	c.JSON(http.StatusOK, gin.H{"timeline": events})
}

func (s *Server) handleCreateTimeline(c *gin.Context) {
	partyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	party, ok := s.findParty(c, partyID)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	var req timelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	event := db.PartyTimelineEvent{
		PartyID:         partyID,
		Time:            req.Time,
		Activity:        req.Activity,
		Description:     req.Description,
		Icon:            req.Icon,
		DurationMinutes: req.DurationMinutes,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := s.db.Create(&event).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to create timeline event")
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (s *Server) handleUpdateTimeline(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	event, party, ok := s.findTimelineEvent(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	var req timelineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	event.Time = req.Time
	event.Activity = req.Activity
	event.Description = req.Description
	event.Icon = req.Icon
	event.DurationMinutes = req.DurationMinutes
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}
	if err := s.db.Save(event).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update timeline event")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (s *Server) handleDeleteTimeline(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	event, party, ok := s.findTimelineEvent(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	if err := s.db.Delete(event).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete timeline event")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) findTimelineEvent(c *gin.Context, id uint) (*db.PartyTimelineEvent, *db.Party, bool) {
	var event db.PartyTimelineEvent
	if err := s.db.First(&event, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "timeline event not found")
		return nil, nil, false
	}
	party, ok := s.findParty(c, event.PartyID)
	if !ok {
		return nil, nil, false
	}
	return &event, party, true
}
