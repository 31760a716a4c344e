package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"party-hub/internal/db"
	"party-hub/internal/game"
)

type questionRequest struct {
	PartyID       *uint    `json:"party"`
	Category      string   `json:"category" binding:"max=100"`
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,optionlist"`
	CorrectAnswer *int     `json:"correct_answer" binding:"required,min=0"`
	Points        int      `json:"points" binding:"omitempty,min=1"`
	IsActive      *bool    `json:"is_active"`
}

type triviaSubmitRequest struct {
	PartyID uint          `json:"party" binding:"required"`
	Answers []game.Answer `json:"answers" binding:"required"`
}

// handleListQuestions is the management view: staff see the answer key,
// everyone else gets the same projection as gameplay.
func (s *Server) handleListQuestions(c *gin.Context) {
	user := currentUser(c)
	query := s.db.Model(&db.TriviaQuestion{})
	if partyID, ok := queryID(c, "party", "party_id"); ok {
		query = query.Where("party_id IS NULL OR party_id = ?", partyID)
	}
	if c.Query("all") != "true" || !user.IsStaff {
		query = query.Where("is_active = ?", true)
	}
	var questions []db.TriviaQuestion
	if err := query.Order("category, question").Find(&questions).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to list questions")
		return
	}
	if user.IsStaff {
		c.JSON(http.StatusOK, gin.H{"questions": questions})
		return
	}
	public := make([]publicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, projectQuestion(q))
	}
	c.JSON(http.StatusOK, gin.H{"questions": public})
}

func (s *Server) handleCreateQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if *req.CorrectAnswer >= len(req.Options) {
		writeError(c, http.StatusBadRequest, "correct_answer must index into options")
		return
	}
	if req.PartyID != nil {
		if _, ok := s.findParty(c, *req.PartyID); !ok {
			return
		}
	}
	options, err := db.EncodeOptions(trimOptions(req.Options))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid options")
		return
	}
	question := db.TriviaQuestion{
		PartyID:       req.PartyID,
		Category:      req.Category,
		Question:      req.Question,
		Options:       options,
		CorrectAnswer: *req.CorrectAnswer,
		Points:        req.Points,
		IsActive:      true,
	}
	if question.Category == "" {
		question.Category = "Personal"
	}
	if question.Points == 0 {
		question.Points = 20
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}
	if err := s.db.Create(&question).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to create question")
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (s *Server) handleUpdateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var question db.TriviaQuestion
	if err := s.db.First(&question, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "question not found")
		return
	}
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if *req.CorrectAnswer >= len(req.Options) {
		writeError(c, http.StatusBadRequest, "correct_answer must index into options")
		return
	}
	options, err := db.EncodeOptions(trimOptions(req.Options))
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid options")
		return
	}
	question.PartyID = req.PartyID
	if req.Category != "" {
		question.Category = req.Category
	}
	question.Question = req.Question
	question.Options = options
	question.CorrectAnswer = *req.CorrectAnswer
	if req.Points > 0 {
		question.Points = req.Points
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}
	if err := s.db.Save(&question).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to update question")
		return
	}
	c.JSON(http.StatusOK, question)
}

func (s *Server) handleDeleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var question db.TriviaQuestion
	if err := s.db.First(&question, id).Error; err != nil {
		writeError(c, http.StatusNotFound, "question not found")
		return
	}
	if err := s.db.Delete(&question).Error; err != nil {
		writeError(c, http.StatusInternalServerError, "failed to delete question")
		return
	}
	c.Status(http.StatusNoContent)
}

// handleTriviaQuestions serves the gameplay round: a capped set of active
// questions with the answer key stripped.
func (s *Server) handleTriviaQuestions(c *gin.Context) {
	partyID, ok := queryID(c, "party", "party_id")
	if !ok {
		writeError(c, http.StatusBadRequest, "party query parameter is required")
		return
	}
	if _, ok := s.findParty(c, partyID); !ok {
		return
	}
	limit := queryLimit(c, s.cfg.TriviaQuestionLimit, 0)
	questions, err := s.engine.VisibleQuestions(partyID, limit)
	if err != nil {
		writeGameError(c, err)
		return
	}
	public := make([]publicQuestion, 0, len(questions))
	for _, q := range questions {
		public = append(public, projectQuestion(q))
	}
	c.JSON(http.StatusOK, gin.H{"questions": public})
}

func (s *Server) handleTriviaSubmit(c *gin.Context) {
	user := currentUser(c)
	var req triviaSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	if _, ok := s.findParty(c, req.PartyID); !ok {
		return
	}
	result, err := s.engine.SubmitTrivia(user.ID, req.PartyID, req.Answers)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleTriviaCategories(c *gin.Context) {
	partyID, _ := queryID(c, "party", "party_id")
	categories, err := s.engine.Categories(partyID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
