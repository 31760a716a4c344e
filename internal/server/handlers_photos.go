package server

import (
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"party-hub/internal/db"
)

type photoUploadRequest struct {
	PartyID   uint   `json:"party" binding:"required"`
	ImageData string `json:"image_data" binding:"required"`
	Caption   string `json:"caption" binding:"omitempty,max=500"`
}

// decodeImageData accepts raw base64 or a data URL and returns the image
// bytes plus the declared content type.
func decodeImageData(data string) ([]byte, string, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, "", errors.New("no image data")
	}
	contentType := "image/png"
	if strings.HasPrefix(data, "data:") {
		parts := strings.SplitN(data, ",", 2)
		if len(parts) != 2 {
			return nil, "", errors.New("malformed data url")
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		if idx := strings.Index(meta, ";"); idx >= 0 {
			meta = meta[:idx]
		}
		if meta != "" {
			contentType = meta
		}
		data = parts[1]
	}
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", err
	}
	return decoded, contentType, nil
}

func (s *Server) handleListPhotos(c *gin.Context) {
	user := currentUser(c)
	page, perPage := parsePagination(c, 20, 100)
	query := s.db.Model(&db.PartyPhoto{})
	if partyID, ok := queryID(c, "party"); ok {
		query = query.Where("party_id = ?", partyID)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list photos")
		return
	}
	var photos []db.PartyPhoto
	if err := query.Preload("UploadedBy").Order("uploaded_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&photos).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list photos")
		return
	}
	details := make([]photoDetail, 0, len(photos))
	for _, photo := range photos {
		detail := photoDetail{PartyPhoto: photo, Uploader: summarizeUser(photo.UploadedBy)}
		s.db.Model(&db.PhotoLike{}).Where("photo_id = ?", photo.ID).Count(&detail.LikesCount)
		var mine int64
		s.db.Model(&db.PhotoLike{}).Where("photo_id = ? AND user_id = ?", photo.ID, user.ID).Count(&mine)
		detail.Liked = mine > 0
		details = append(details, detail)
	}
	c.JSON(http.StatusOK, gin.H{
		"photos":     details,
		"pagination": buildPageMeta(page, perPage, total),
	})
}

func (s *Server) handleUploadPhoto(c *gin.Context) {
	user := currentUser(c)
	var req photoUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	image, contentType, err := decodeImageData(req.ImageData)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid image data")
		return
	}
	if len(image) > s.cfg.MaxPhotoBytes {
		writeError(c, http.StatusBadRequest, "image too large")
		return
	}
	photo := db.PartyPhoto{
		PartyID:      req.PartyID,
		ImageData:    image,
		ContentType:  contentType,
		Caption:      req.Caption,
		UploadedByID: &user.ID,
	}
	if err := s.db.Create(&photo).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to save photo")
		return
	}
	log.Printf("photo uploaded photo_id=%d party_id=%d bytes=%d", photo.ID, photo.PartyID, len(image))
	c.JSON(http.StatusCreated, photo)
}

func (s *Server) handlePhotoImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var photo db.PartyPhoto
	if err := s.db.First(&photo, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "photo not found")
		return
	}
	c.Data(http.StatusOK, photo.ContentType, photo.ImageData)
}

func (s *Server) handleDeletePhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var photo db.PartyPhoto
	if err := s.db.First(&photo, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "photo not found")
		return
	}
	party, ok := s.findParty(c, photo.PartyID)
	if !ok {
		return
	}
	owner := photo.UploadedByID != nil && *photo.UploadedByID == user.ID
	if !owner && party.HostID != user.ID && !user.IsStaff {
		writeError(c, http.StatusForbidden, "you cannot delete this photo")
		return
	}
	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photo.ID).Delete(&db.PhotoLike{}).Error; err != nil {
			return err
		}
		return tx.Delete(&photo).Error
	}); err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete photo")
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleLikePhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	var photo db.PartyPhoto
	if err := s.db.First(&photo, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "photo not found")
		return
	}
	like := db.PhotoLike{PhotoID: photo.ID, UserID: user.ID}
	if err := s.db.Create(&like).Error; err != nil {
		if isUniqueViolation(err) {
			writeError(c, http.StatusConflict, "already liked")
			return
		}
		writeError(c, http.StatusInternalServerError, "failed to like photo")
		return
	}
	var count int64
	s.db.Model(&db.PhotoLike{}).Where("photo_id = ?", photo.ID).Count(&count)
	c.JSON(http.StatusCreated, gin.H{"likes_count": count})
}

func (s *Server) handleUnlikePhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	user := currentUser(c)
	result := s.db.Where("photo_id = ? AND user_id = ?", id, user.ID).Delete(&db.PhotoLike{})
	if result.Error != nil {
		writeError(c, http.StatusInternalServerError, "failed to unlike photo")
		return
	}
	if result.RowsAffected == 0 {
		writeError(c, http.StatusNotFound, "like not found")
		return
	}
	var count int64
	s.db.Model(&db.PhotoLike{}).Where("photo_id = ?", id).Count(&count)
	c.JSON(http.StatusOK, gin.H{"likes_count": count})
}

func (s *Server) handleFeaturePhoto(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var photo db.PartyPhoto
	if err := s.db.First(&photo, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "photo not found")
		return
	}
	party, ok := s.findParty(c, photo.PartyID)
	if !ok {
		return
	}
	if !s.canManageParty(c, party) {
		return
	}
	photo.IsFeatured = !photo.IsFeatured
	if err := s.db.Save(&photo).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update photo")
		return
	}
	c.JSON(http.StatusOK, photo)
}
