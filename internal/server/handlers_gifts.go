package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

type giftRequest struct {
	PartyID     uint    `json:"party" binding:"required"`
	Name        string  `json:"name" binding:"required,max=200"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	URL         string  `json:"url" binding:"omitempty,url,max=500"`
	Priority    string  `json:"priority" binding:"omitempty,oneof=low medium high"`
}

type purchaseRequest struct {
	Note string `json:"note" binding:"omitempty,max=200"`
}

func (s *Server) handleListGifts(c *gin.Context) {
	query := s.db.Model(&db.GiftRegistryItem{}).Preload("PurchasedBy")
	if partyID, ok := queryID(c, "party"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	if c.Query("unpurchased") == "true" {
		query = query.Where("is_purchased = ?", false)
	}
	var gifts []db.GiftRegistryItem
	if err := query.
		Order("CASE priority WHEN 'high' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END, price ASC").
		Find(&gifts).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list gifts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifts": gifts})
}

func (s *Server) handleCreateGift(c *gin.Context) {
	var req giftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	party, ok := s.findParty(c, req.PartyID)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	if req.Priority == "" {
		req.Priority = db.GiftPriorityMedium
	}
	gift := db.GiftRegistryItem{
		PartyID:     req.PartyID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		URL:         req.URL,
		Priority:    req.Priority,
	}
	if err := s.db.Create(&gift).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to create gift")
		return
	}
	c.JSON(http.StatusCreated, gift)
}

func (s *Server) handleUpdateGift(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gift, party, ok := s.findGift(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	var req giftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	gift.Name = req.Name
	gift.Description = req.Description
	gift.Price = req.Price
	gift.URL = req.URL
	if req.Priority != "" {
		gift.Priority = req.Priority
	}
	if err := s.db.Save(gift).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update gift")
		return
	}
	c.JSON(http.StatusOK, gift)
}

func (s *Server) handleDeleteGift(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	gift, party, ok := s.findGift(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	if err := s.db.Delete(gift).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete gift")
		return
	}
	c.Status(http.StatusNoContent)
}

// handlePurchaseGift claims a registry item for the caller. Claiming an
// already purchased item is a conflict, not an overwrite.
func (s *Server) handlePurchaseGift(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	gift, _, ok := s.findGift(c, id)
	if !ok {
		return
	}
	now := time.Now()
	result := s.db.Model(&db.GiftRegistryItem{}).
		Where("id = ? AND is_purchased = ?", gift.ID, false).
		Updates(map[string]any{
			"is_purchased":    true,
			"purchased_by_id": user.ID,
			"purchased_at":    now,
			"purchase_note":   req.Note,
		})
	if result.Error != nil {
		writeError(c, http.StatusInternalServerError, "failed to purchase gift")
		return
	}
	if result.RowsAffected == 0 {
		writeError(c, http.StatusConflict, "gift already purchased")
		return
	}
	gift.IsPurchased = true
	gift.PurchasedByID = &user.ID
	gift.PurchasedAt = &now
	gift.PurchaseNote = req.Note
	c.JSON(http.StatusOK, gift)
}

func (s *Server) handleUnpurchaseGift(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	gift, party, ok := s.findGift(c, id)
	if !ok {
		return
	}
	purchaser := gift.PurchasedByID != nil && *gift.PurchasedByID == user.ID
	if !purchaser && party.HostID != user.ID && !user.IsStaff {
		writeError(c, http.StatusForbidden, "you cannot release this gift")
		return
	}
	if err := s.db.Model(gift).Updates(map[string]any{
		"is_purchased":    false,
		"purchased_by_id": nil,
		"purchased_at":    nil,
		"purchase_note":   "",
	}).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to release gift")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) findGift(c *gin.Context, id uint) (*db.GiftRegistryItem, *db.Party, bool) {
	var gift db.GiftRegistryItem
	if err := s.db.First(&gift, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "gift not found")
		return nil, nil, false
	}
	party, ok := s.findParty(c, gift.PartyID)
	if !ok {
		return nil, nil, false
	}
	return &gift, party, true
}
