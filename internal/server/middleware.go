package server

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"party-hub/internal/auth"
	"party-hub/internal/db"
)

const contextUserKey = "current_user"

// requireAuth validates the bearer token and lazily provisions a local user
// row for the identity's uid, mirroring the provider-backed flow the frontend
// already speaks.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		claims, err := s.auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		user, err := s.provisionUser(claims)
		if err != nil {
			log.Printf("user provisioning failed uid=%s: %v", claims.Subject, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

func (s *Server) requireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsStaff {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *db.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*db.User)
	if !ok {
		return nil
	}
	return user
}

func (s *Server) provisionUser(claims *auth.Claims) (*db.User, error) {
	var user db.User
	err := s.db.Where("uid = ?", claims.Subject).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	first, last := splitName(claims.Name)
	user = db.User{
		UID:       claims.Subject,
		Username:  claims.Subject,
		Email:     claims.Email,
		FirstName: first,
		LastName:  last,
		IsStaff:   claims.Admin,
	}
	if err := s.db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			// Concurrent first request won the insert.
			if err := s.db.Where("uid = ?", claims.Subject).First(&user).Error; err != nil {
				return nil, err
			}
			return &user, nil
		}
		return nil, err
	}
	log.Printf("user provisioned uid=%s user_id=%d", user.UID, user.ID)
	return &user, nil
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ""
	}
	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}
