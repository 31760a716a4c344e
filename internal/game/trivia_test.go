package game

import (
	"testing"

	"party-hub/internal/db"
)

func seedQuestion(t *testing.T, store *MemStore, partyID *uint, text string, options []string, correct, points int) db.TriviaQuestion {
	t.Helper()
	raw, err := db.EncodeOptions(options)
	if err != nil {
		t.Fatalf("encode options: %v", err)
	}
	return store.SeedQuestion(db.TriviaQuestion{
		PartyID:       partyID,
		Category:      "Personal",
		Question:      text,
		Options:       raw,
		CorrectAnswer: correct,
		Points:        points,
		IsActive:      true,
	})
}

func TestSubmitTriviaScoring(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	question := seedQuestion(t, store, nil, "Favorite color?", []string{"Blue", "Red"}, 1, 20)

	result, err := engine.SubmitTrivia(1, 1, []Answer{{QuestionID: question.ID, Answer: 1}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.PointsEarned != 20 || !result.QuestionResults[0].IsCorrect {
		t.Fatalf("expected correct answer worth 20, got %#v", result)
	}

	result, err = engine.SubmitTrivia(2, 1, []Answer{{QuestionID: question.ID, Answer: 0}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.PointsEarned != 0 || result.QuestionResults[0].IsCorrect {
		t.Fatalf("expected wrong answer worth 0, got %#v", result)
	}
	if result.QuestionResults[0].PointsEarned != 0 {
		t.Fatalf("wrong answer must earn 0 points, got %d", result.QuestionResults[0].PointsEarned)
	}
}

func TestSubmitTriviaSkipsUnknownQuestions(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	question := seedQuestion(t, store, nil, "Favorite animal?", []string{"Dog", "Cat"}, 1, 20)

	result, err := engine.SubmitTrivia(1, 1, []Answer{
		{QuestionID: question.ID, Answer: 1},
		{QuestionID: 999, Answer: 0},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.TotalQuestions != 1 {
		t.Fatalf("unknown ids must not count toward totals, got %d", result.TotalQuestions)
	}
	if result.Accuracy != 100 {
		t.Fatalf("accuracy denominator must exclude skipped questions, got %v", result.Accuracy)
	}
}

func TestSubmitTriviaEndToEnd(t *testing.T) {
	store := NewMemStore()
	store.SeedBadge(db.Badge{Name: "Forty", PointsRequired: 40, IsActive: true})
	engine := New(store, 50)
	q1 := seedQuestion(t, store, nil, "Q1", []string{"A", "B"}, 0, 20)
	q2 := seedQuestion(t, store, nil, "Q2", []string{"A", "B"}, 1, 25)
	q3 := seedQuestion(t, store, nil, "Q3", []string{"A", "B"}, 0, 15)

	result, err := engine.SubmitTrivia(1, 1, []Answer{
		{QuestionID: q1.ID, Answer: 0},
		{QuestionID: q2.ID, Answer: 1},
		{QuestionID: q3.ID, Answer: 1},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.PointsEarned != 45 || result.CorrectAnswers != 2 {
		t.Fatalf("expected 45 points from 2 correct, got %d from %d", result.PointsEarned, result.CorrectAnswers)
	}
	if result.Accuracy != 66.7 {
		t.Fatalf("expected accuracy 66.7, got %v", result.Accuracy)
	}
	if result.Score.TotalPoints != 45 || result.Score.Level != 1 {
		t.Fatalf("expected score 45 at level 1, got %d/%d", result.Score.TotalPoints, result.Score.Level)
	}
	if len(result.NewBadges) != 1 || result.NewBadges[0].Name != "Forty" {
		t.Fatalf("expected the 40-point badge to be awarded, got %#v", result.NewBadges)
	}
}

func TestSubmitTriviaAllWrongStillCreatesScore(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	question := seedQuestion(t, store, nil, "Q", []string{"A", "B"}, 0, 20)

	result, err := engine.SubmitTrivia(1, 1, []Answer{{QuestionID: question.ID, Answer: 1}})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if result.PointsEarned != 0 || result.Accuracy != 0 {
		t.Fatalf("expected zero-point submission, got %#v", result)
	}
	score, err := store.Score(1, 1)
	if err != nil {
		t.Fatalf("score row must exist after an all-wrong submission: %v", err)
	}
	if score.TotalPoints != 0 || score.Level != 1 {
		t.Fatalf("expected 0 points level 1, got %d/%d", score.TotalPoints, score.Level)
	}
}

func TestSubmitTriviaEmptyAnswers(t *testing.T) {
	engine := New(NewMemStore(), 50)
	if _, err := engine.SubmitTrivia(1, 1, nil); !IsValidation(err) {
		t.Fatalf("expected validation error for empty answers, got %v", err)
	}
}

func TestSubmitTriviaPartyScoping(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	partyA := uint(1)
	partyB := uint(2)
	scoped := seedQuestion(t, store, &partyA, "Scoped", []string{"A", "B"}, 0, 10)
	global := seedQuestion(t, store, nil, "Global", []string{"A", "B"}, 0, 10)
	inactive := seedQuestion(t, store, nil, "Inactive", []string{"A", "B"}, 0, 10)
	store.questions[len(store.questions)-1].IsActive = false

	result, err := engine.SubmitTrivia(1, partyB, []Answer{
		{QuestionID: scoped.ID, Answer: 0},
		{QuestionID: global.ID, Answer: 0},
		{QuestionID: inactive.ID, Answer: 0},
	})
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	// Only the global question is visible from party B.
	if result.TotalQuestions != 1 || result.PointsEarned != 10 {
		t.Fatalf("expected only the global question to count, got %#v", result)
	}
}

func TestCategories(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	raw, _ := db.EncodeOptions([]string{"A", "B"})
	store.SeedQuestion(db.TriviaQuestion{Category: "Personal", Question: "Q1", Options: raw, IsActive: true})
	store.SeedQuestion(db.TriviaQuestion{Category: "Music", Question: "Q2", Options: raw, IsActive: true})
	store.SeedQuestion(db.TriviaQuestion{Category: "Personal", Question: "Q3", Options: raw, IsActive: true})

	categories, err := engine.Categories(1)
	if err != nil {
		t.Fatalf("categories failed: %v", err)
	}
	if len(categories) != 2 || categories[0] != "Music" || categories[1] != "Personal" {
		t.Fatalf("expected sorted distinct categories, got %#v", categories)
	}
}

func TestVisibleQuestionsLimit(t *testing.T) {
	store := NewMemStore()
	engine := New(store, 50)
	for i := 0; i < 8; i++ {
		seedQuestion(t, store, nil, string(rune('A'+i)), []string{"A", "B"}, 0, 10)
	}
	questions, err := engine.VisibleQuestions(1, 6)
	if err != nil {
		t.Fatalf("questions failed: %v", err)
	}
	if len(questions) != 6 {
		t.Fatalf("expected limit of 6 questions, got %d", len(questions))
	}
}
