package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

type rsvpRequest struct {
	PartyID             uint   `json:"party" binding:"required"`
	Status              string `json:"status" binding:"required,oneof=yes no maybe"`
	GuestCount          int    `json:"guest_count" binding:"omitempty,gte=1,lte=10"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	PhoneNumber         string `json:"phone_number" binding:"omitempty,max=20"`
	Notes               string `json:"notes"`
}

func (s *Server) handleListRSVPs(c *gin.Context) {
	user := currentUser(c)
	query := s.db.Model(&db.RSVP{}).Preload("User")
	if partyID, ok := queryID(c, "party"); ok {
		party, ok := s.findParty(c, partyID)
		if !ok {
			return
		}
		// Hosts and staff see the whole guest list; guests see their own reply.
		if party.HostID == user.ID || user.IsStaff {
			query = query.Where("party_id = ?", partyID)
		} else {
			query = query.Where("party_id = ? AND user_id = ?", partyID, user.ID)
		}
	} else if !user.IsStaff {
		query = query.Where("user_id = ?", user.ID)
	}
	var rsvps []db.RSVP
	if err := query.Order("created_at DESC").Find(&rsvps).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list rsvps")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rsvps": rsvps})
}

func (s *Server) handleCreateRSVP(c *gin.Context) {
	user := currentUser(c)
	var req rsvpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	if req.GuestCount == 0 {
		req.GuestCount = 1
	}
	rsvp := db.RSVP{
		PartyID:             req.PartyID,
		UserID:              user.ID,
		Status:              req.Status,
		GuestCount:          req.GuestCount,
		DietaryRestrictions: req.DietaryRestrictions,
		PhoneNumber:         req.PhoneNumber,
		Notes:               req.Notes,
	}
	if err := s.db.Create(&rsvp).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(c, http.StatusConflict, "you have already responded to this party")
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to create rsvp")
		return
	}
	c.JSON(http.StatusCreated, rsvp)
}

func (s *Server) handleUpdateRSVP(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var rsvp db.RSVP
	if err := s.db.First(&rsvp, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "rsvp not found")
		return
	}
	if rsvp.UserID != user.ID && !user.IsStaff {
		writeError(c, http.StatusForbidden, "you can only update your own rsvp")
		return
	}
	var req rsvpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	rsvp.Status = req.Status
	if req.GuestCount > 0 {
		rsvp.GuestCount = req.GuestCount
	}
	rsvp.DietaryRestrictions = req.DietaryRestrictions
	rsvp.PhoneNumber = req.PhoneNumber
	rsvp.Notes = req.Notes
	if err := s.db.Save(&rsvp).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update rsvp")
		return
	}
	c.JSON(http.StatusOK, rsvp)
}

func (s *Server) handleDeleteRSVP(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var rsvp db.RSVP
	if err := s.db.First(&rsvp, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "rsvp not found")
		return
	}
	if rsvp.UserID != user.ID && !user.IsStaff {
		writeError(c, http.StatusForbidden, "you can only delete your own rsvp")
		return
	}
	if err := s.db.Delete(&rsvp).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete rsvp")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleRSVPSummary(c *gin.Context) {
	partyID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.findParty(c, partyID); !ok {
		return
	}
	summary := gin.H{}
	totalGuests := 0
	for _, status := range []string{db.RSVPStatusYes, db.RSVPStatusNo, db.RSVPStatusMaybe} {
		var count int64
		s.db.Model(&db.RSVP{}).Where("party_id = ? AND status = ?", partyID, status).Count(&count)
		summary[status] = count
	}
	var rsvps []db.RSVP
	if err := s.db.Where("party_id = ? AND status = ?", partyID, db.RSVPStatusYes).Find(&rsvps).Error; err == nil {
		for _, rsvp := range rsvps {
			totalGuests += rsvp.GuestCount
		}
	}
	summary["expected_guests"] = totalGuests
	c.JSON(http.StatusOK, summary)
}
