package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

type guestBookRequest struct {
	PartyID uint   `json:"party" binding:"required"`
	Message string `json:"message" binding:"required,max=2000"`
}

func (s *Server) handleListGuestBook(c *gin.Context) {
	query := s.db.Model(&db.GuestBookEntry{}).Preload("Author")
	if partyID, ok := queryID(c, "party"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	var entries []db.GuestBookEntry
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list guest book")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

func (s *Server) handleCreateGuestBookEntry(c *gin.Context) {
	user := currentUser(c)
	var req guestBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	entry := db.GuestBookEntry{
		PartyID:  req.PartyID,
		AuthorID: user.ID,
		Message:  req.Message,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to sign guest book")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleDeleteGuestBookEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var entry db.GuestBookEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "entry not found")
		return
	}
	party, ok := s.findParty(c, entry.PartyID)
	if !ok {
		return
	}
	if entry.AuthorID != user.ID && party.HostID != user.ID && !user.IsStaff {
		writeError(c, http.StatusForbidden, "you cannot delete this entry")
		return
	}
	if err := s.db.Delete(&entry).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete entry")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleFeatureGuestBookEntry(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var entry db.GuestBookEntry
	if err := s.db.First(&entry, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "entry not found")
		return
	}
	party, ok := s.findParty(c, entry.PartyID)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	entry.IsFeatured = !entry.IsFeatured
	if err := s.db.Save(&entry).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}
