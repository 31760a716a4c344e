package game

import (
	"log"
	"math"
	"sort"

	"party-hub/internal/db"
)

// Answer is one submitted (question, selected option) pair.
type Answer struct {
	QuestionID uint `json:"question_id"`
	Answer     int  `json:"answer"`
}

// QuestionResult reports the outcome for a single answered question.
type QuestionResult struct {
	QuestionID    uint   `json:"question_id"`
	Question      string `json:"question"`
	YourAnswer    int    `json:"your_answer"`
	CorrectAnswer int    `json:"correct_answer"`
	IsCorrect     bool   `json:"is_correct"`
	PointsEarned  int    `json:"points_earned"`
}

type TriviaResult struct {
	TotalQuestions  int              `json:"total_questions"`
	CorrectAnswers  int              `json:"correct_answers"`
	PointsEarned    int              `json:"points_earned"`
	Accuracy        float64          `json:"accuracy"`
	QuestionResults []QuestionResult `json:"question_results"`
	Score           db.GameScore     `json:"score"`
	NewBadges       []db.Badge       `json:"new_badges"`
}

// SubmitTrivia grades an ordered answer list against the party's visible
// question set (party-scoped plus global, active only). Unknown question ids
// are skipped silently and count toward nothing. The summed points are applied
// to the score in a single mutation; the score row is always created on
// submission, even when nothing was correct, so that row existence means
// "has played".
func (e *Engine) SubmitTrivia(userID, partyID uint, answers []Answer) (TriviaResult, error) {
	if len(answers) == 0 {
		return TriviaResult{}, validationErr("answers", "answers array is required")
	}

	questions, err := e.store.ActiveQuestions(partyID)
	if err != nil {
		return TriviaResult{}, err
	}
	byID := make(map[uint]db.TriviaQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := TriviaResult{QuestionResults: []QuestionResult{}}
	for _, answer := range answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			continue
		}
		correct := answer.Answer == question.CorrectAnswer
		earned := 0
		if correct {
			earned = question.Points
			result.CorrectAnswers++
			result.PointsEarned += earned
		}
		result.QuestionResults = append(result.QuestionResults, QuestionResult{
			QuestionID:    question.ID,
			Question:      question.Question,
			YourAnswer:    answer.Answer,
			CorrectAnswer: question.CorrectAnswer,
			IsCorrect:     correct,
			PointsEarned:  earned,
		})
	}
	result.TotalQuestions = len(result.QuestionResults)
	if result.TotalQuestions > 0 {
		ratio := float64(result.CorrectAnswers) / float64(result.TotalQuestions) * 100
		result.Accuracy = math.Round(ratio*10) / 10
	}

	earned := result.PointsEarned
	score, err := e.store.MutateScore(userID, partyID, func(s *db.GameScore) {
		s.TotalPoints += earned
		s.Level = Level(s.TotalPoints)
	})
	if err != nil {
		return TriviaResult{}, err
	}
	result.Score = score

	newBadges, err := e.EvaluateAwards(userID, partyID)
	if err != nil {
		return TriviaResult{}, err
	}
	result.NewBadges = newBadges
	log.Printf("trivia submitted user_id=%d party_id=%d answered=%d correct=%d points=%d",
		userID, partyID, result.TotalQuestions, result.CorrectAnswers, result.PointsEarned)
	return result, nil
}

// VisibleQuestions returns the party's active question set, capped at limit
// when limit is positive. Questions come back in catalog order (category,
// then question text).
func (e *Engine) VisibleQuestions(partyID uint, limit int) ([]db.TriviaQuestion, error) {
	questions, err := e.store.ActiveQuestions(partyID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(questions, func(i, j int) bool {
		if questions[i].Category != questions[j].Category {
			return questions[i].Category < questions[j].Category
		}
		return questions[i].Question < questions[j].Question
	})
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// Categories lists the distinct categories across the party's visible
// question set, sorted.
func (e *Engine) Categories(partyID uint) ([]string, error) {
	questions, err := e.store.ActiveQuestions(partyID)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var categories []string
	for _, q := range questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			categories = append(categories, q.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
