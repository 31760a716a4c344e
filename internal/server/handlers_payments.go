package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
)

type paymentRequest struct {
	PartyID            uint    `json:"party" binding:"required"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	VenmoTransactionID string  `json:"venmo_transaction_id" binding:"max=100"`
	Note               string  `json:"note" binding:"max=200"`
}

type paymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed failed cancelled"`
}

// Payments are visible to their payer and to whoever runs the party.
func (s *Server) handleListPayments(c *gin.Context) {
	user := currentUser(c)
	query := s.db.Model(&db.VenmoPayment{})
	if partyID, ok := queryID(c, "party"); ok {
		party, ok := s.findParty(c, partyID)
		if !ok {
			return
		}
		query = query.Where("party_id = ?", partyID)
		if party.HostID != user.ID && !user.IsStaff {
			query = query.Where("user_id = ?", user.ID)
		}
	} else if !user.IsStaff {
		query = query.Where("user_id = ?", user.ID)
	}
	var payments []db.VenmoPayment
	if err := query.Order("created_at DESC").Find(&payments).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list payments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"payments": payments})
}

func (s *Server) handleCreatePayment(c *gin.Context) {
	user := currentUser(c)
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	payment := db.VenmoPayment{
		PartyID:            req.PartyID,
		UserID:             user.ID,
		Amount:             req.Amount,
		VenmoTransactionID: req.VenmoTransactionID,
		Note:               req.Note,
		Status:             db.PaymentStatusPending,
	}
	if err := s.db.Create(&payment).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to record payment")
		return
	}
	c.JSON(http.StatusCreated, payment)
}

func (s *Server) handleUpdatePaymentStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	var payment db.VenmoPayment
	if err := s.db.First(&payment, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "payment not found")
		return
	}
	party, ok := s.findParty(c, payment.PartyID)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	payment.Status = req.Status
	if err := s.db.Save(&payment).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update payment")
		return
	}
	c.JSON(http.StatusOK, payment)
}
