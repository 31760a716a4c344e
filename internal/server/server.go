package server

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"party-hub/internal/auth"
	"party-hub/internal/config"
	"party-hub/internal/game"
)

type Server struct {
	db     *gorm.DB
	cfg    config.Config
	auth   *auth.Service
	engine *game.Engine
}

func New(conn *gorm.DB, cfg config.Config, authService *auth.Service, engine *game.Engine) *Server {
	registerValidators()
	return &Server{
		db:     conn,
		cfg:    cfg,
		auth:   authService,
		engine: engine,
	}
}

func (s *Server) Handler() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	api := router.Group("/api")

	// Public browsing surface.
	api.GET("/parties", s.handleListParties)
	api.GET("/invites/:code", s.handlePartyByInvite)
	api.GET("/parties/:id", s.handleGetParty)
	api.GET("/parties/:id/timeline", s.handleListTimeline)
	api.GET("/parties/:id/weather", s.handlePartyWeather)
	api.GET("/photos/:id/image", s.handlePhotoImage)

	authed := api.Group("")
	authed.Use(s.requireAuth())

	authed.POST("/auth/register", s.handleRegister)
	authed.GET("/auth/me", s.handleMe)

	authed.POST("/parties", s.handleCreateParty)
	authed.PUT("/parties/:id", s.handleUpdateParty)
	authed.DELETE("/parties/:id", s.handleDeleteParty)
	authed.PUT("/parties/:id/weather", s.handleUpsertWeather)
	authed.POST("/parties/:id/timeline", s.handleCreateTimeline)
	authed.PUT("/timeline/:id", s.handleUpdateTimeline)
	authed.DELETE("/timeline/:id", s.handleDeleteTimeline)
	authed.GET("/parties/:id/rsvps/summary", s.handleRSVPSummary)
	authed.GET("/parties/:id/score-stats", s.handlePartyScoreStats)

	authed.GET("/rsvps", s.handleListRSVPs)
	authed.POST("/rsvps", s.handleCreateRSVP)
	authed.PUT("/rsvps/:id", s.handleUpdateRSVP)
	authed.DELETE("/rsvps/:id", s.handleDeleteRSVP)

	authed.GET("/photos", s.handleListPhotos)
	authed.POST("/photos", s.handleUploadPhoto)
	authed.DELETE("/photos/:id", s.handleDeletePhoto)
	authed.POST("/photos/:id/like", s.handleLikePhoto)
	authed.DELETE("/photos/:id/like", s.handleUnlikePhoto)
	authed.POST("/photos/:id/feature", s.handleFeaturePhoto)

	authed.GET("/gifts", s.handleListGifts)
	authed.POST("/gifts", s.handleCreateGift)
	authed.PUT("/gifts/:id", s.handleUpdateGift)
	authed.DELETE("/gifts/:id", s.handleDeleteGift)
	authed.POST("/gifts/:id/purchase", s.handlePurchaseGift)
	authed.POST("/gifts/:id/unpurchase", s.handleUnpurchaseGift)

	authed.GET("/guestbook", s.handleListGuestBook)
	authed.POST("/guestbook", s.handleCreateGuestBookEntry)
	authed.DELETE("/guestbook/:id", s.handleDeleteGuestBookEntry)
	authed.POST("/guestbook/:id/feature", s.handleFeatureGuestBookEntry)

	authed.GET("/payments", s.handleListPayments)
	authed.POST("/payments", s.handleCreatePayment)
	authed.POST("/payments/:id/status", s.handleUpdatePaymentStatus)

	authed.GET("/scores", s.handleListScores)
	authed.GET("/scores/my", s.handleMyScores)
	authed.POST("/scores/add-points", s.handleAddPoints)
	authed.GET("/scores/ranking", s.handleRanking)
	authed.GET("/scores/leaderboard", s.handleScoreLeaderboard)
	authed.GET("/scores/level-distribution", s.handleLevelDistribution)

	authed.GET("/badges", s.handleListBadges)
	authed.GET("/badges/available", s.handleAvailableBadges)
	authed.GET("/badges/mine", s.handleMyBadges)
	authed.GET("/badges/leaderboard", s.handleBadgeLeaderboard)
	authed.GET("/badges/party-achievements", s.handlePartyAchievements)
	authed.POST("/badges/auto-award", s.handleAutoAward)
	authed.POST("/badges/award", s.handleAwardBadge)

	staff := authed.Group("")
	staff.Use(s.requireStaff())
	staff.POST("/badges", s.handleCreateBadge)
	staff.PUT("/badges/:id", s.handleUpdateBadge)
	staff.DELETE("/badges/:id", s.handleDeleteBadge)
	staff.POST("/trivia-questions", s.handleCreateQuestion)
	staff.PUT("/trivia-questions/:id", s.handleUpdateQuestion)
	staff.DELETE("/trivia-questions/:id", s.handleDeleteQuestion)

	authed.GET("/trivia-questions", s.handleListQuestions)
	authed.GET("/trivia/questions", s.handleTriviaQuestions)
	authed.POST("/trivia/submit", s.handleTriviaSubmit)
	authed.GET("/trivia/categories", s.handleTriviaCategories)

	return router
}
