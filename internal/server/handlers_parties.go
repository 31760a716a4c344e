package server

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"party-hub/internal/db"
)

type partyRequest struct {
	Name            string     `json:"name" binding:"required,max=200"`
	Description     string     `json:"description"`
	Date            time.Time  `json:"date" binding:"required"`
	EndTime         *time.Time `json:"end_time"`
	Location        string     `json:"location" binding:"required,max=300"`
	FacebookLiveURL string     `json:"facebook_live_url" binding:"omitempty,url,max=500"`
	VenmoUsername   string     `json:"venmo_username" binding:"omitempty,max=100"`
	Latitude        *float64   `json:"latitude" binding:"omitempty,gte=-90,lte=90"`
	Longitude       *float64   `json:"longitude" binding:"omitempty,gte=-180,lte=180"`
	IsPublic        *bool      `json:"is_public"`
	MaxGuests       *int       `json:"max_guests" binding:"omitempty,gt=0"`
}

func (s *Server) handleListParties(c *gin.Context) {
	page, perPage := parsePagination(c, 20, 100)
	query := s.db.Model(&db.Party{}).Where("is_active = ?", true)
	if c.Query("all") != "true" {
		query = query.Where("is_public = ?", true)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list parties")
		return
	}
	var parties []db.Party
	if err := query.Order("date DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&parties).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list parties")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"parties":    parties,
		"pagination": buildPageMeta(page, perPage, total),
	})
}

func (s *Server) handleGetParty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	party, ok := s.findParty(c, id)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.projectParty(party))
}

func (s *Server) handlePartyByInvite(c *gin.Context) {
	code := c.Param("code")
	var party db.Party
	if err := s.db.Where("invite_code = ?", code).First(&party).Error; err != nil {
		writeError(c, http.StatusNotFound, "party not found")
		return
	}
	c.JSON(http.StatusOK, s.projectParty(&party))
}

func (s *Server) handleCreateParty(c *gin.Context) {
	user := currentUser(c)
	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	party := db.Party{
		Name:            req.Name,
		Description:     req.Description,
		Date:            req.Date,
		EndTime:         req.EndTime,
		Location:        req.Location,
		HostID:          user.ID,
		FacebookLiveURL: req.FacebookLiveURL,
		VenmoUsername:   req.VenmoUsername,
		Latitude:        req.Latitude,
		Longitude:       req.Longitude,
		IsActive:        true,
		IsPublic:        req.IsPublic == nil || *req.IsPublic,
		MaxGuests:       req.MaxGuests,
		InviteCode:      uuid.NewString(),
	}
	if err := s.db.Create(&party).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to create party")
		return
	}
	log.Printf("party created party_id=%d host_id=%d", party.ID, user.ID)
	c.JSON(http.StatusCreated, party)
}

func (s *Server) handleUpdateParty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	party, ok := s.findParty(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	var req partyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	party.Name = req.Name
	party.Description = req.Description
	party.Date = req.Date
	party.EndTime = req.EndTime
	party.Location = req.Location
	party.FacebookLiveURL = req.FacebookLiveURL
	party.VenmoUsername = req.VenmoUsername
	party.Latitude = req.Latitude
	party.Longitude = req.Longitude
	party.MaxGuests = req.MaxGuests
	if req.IsPublic != nil {
		party.IsPublic = *req.IsPublic
	}
	if err := s.db.Save(party).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update party")
		return
	}
	c.JSON(http.StatusOK, party)
}

func (s *Server) handleDeleteParty(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	party, ok := s.findParty(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	// Child rows go with the party; likes first so the photo rows they
	// reference still exist inside the transaction.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		photoIDs := tx.Model(&db.PartyPhoto{}).Select("id").Where("party_id = ?", party.ID)
		if err := tx.Where("photo_id IN (?)", photoIDs).Delete(&db.PhotoLike{}).Error; err != nil {
			return err
		}
		for _, child := range []any{
			&db.PartyPhoto{},
			&db.RSVP{},
			&db.PartyTimelineEvent{},
			&db.GiftRegistryItem{},
			&db.GuestBookEntry{},
			&db.VenmoPayment{},
			&db.GameScore{},
			&db.UserBadge{},
			&db.TriviaQuestion{},
			&db.WeatherData{},
		} {
			if err := tx.Where("party_id = ?", party.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(party).Error
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete party")
		return
	}
	log.Printf("party deleted party_id=%d", party.ID)
	c.Status(http.StatusNoContent)
}

type weatherRequest struct {
	Temperature *int   `json:"temperature" binding:"required"`
	Condition   string `json:"condition" binding:"required,max=100"`
	Icon        string `json:"icon" binding:"max=10"`
	Humidity    *int   `json:"humidity" binding:"omitempty,min=0,max=100"`
	WindSpeed   *int   `json:"wind_speed" binding:"omitempty,min=0"`
}

func (s *Server) handlePartyWeather(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := s.findParty(c, id); !ok {
		return
	}
	var weather db.WeatherData
	if err := s.db.Where("party_id = ?", id).First(&weather).Error; err != nil {
		writeError(c, http.StatusNotFound, "no weather data available")
		return
	}
	c.JSON(http.StatusOK, weather)
}

// handleUpsertWeather creates or replaces the party's single forecast row.
func (s *Server) handleUpsertWeather(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	party, ok := s.findParty(c, id)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	var req weatherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	var weather db.WeatherData
	created := false
	if err := s.db.Where("party_id = ?", party.ID).First(&weather).Error; err != nil {
		weather = db.WeatherData{PartyID: party.ID}
		created = true
	}
	weather.Temperature = *req.Temperature
	weather.Condition = req.Condition
	weather.Icon = req.Icon
	weather.Humidity = req.Humidity
	weather.WindSpeed = req.WindSpeed
	if err := s.db.Save(&weather).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to save weather data")
		return
	}
	if created {
		c.JSON(http.StatusCreated, weather)
		return
	}
	c.JSON(http.StatusOK, weather)
}

// findParty resolves a party id or writes a 404.
func (s *Server) findParty(c *gin.Context, id uint) (*db.Party, bool) {
	var party db.Party
	if err := s.db.First(&party, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "party not found")
		return nil, false
	}
	return &party, true
}

// canManageParty allows the host and staff; everyone else gets a 403.
func (s *Server) canManageParty(c *gin.Context, party *db.Party) bool {
	user := currentUser(c)
	if user == nil || (party.HostID != user.ID && !user.IsStaff) {
		writeError(c, http.StatusForbidden, "only the party host can do this")
		return false
	}
	return true
}

func (s *Server) projectParty(party *db.Party) partyDetail {
	detail := partyDetail{Party: *party, IsPast: party.Date.Before(time.Now())}
	s.db.Model(&db.RSVP{}).Where("party_id = ?", party.ID).Count(&detail.TotalRSVPs)
	s.db.Model(&db.RSVP{}).Where("party_id = ? AND status = ?", party.ID, db.RSVPStatusYes).
		Count(&detail.AttendingCount)
	return detail
}
