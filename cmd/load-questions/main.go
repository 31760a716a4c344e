package main

import (
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"party-hub/internal/config"
	"party-hub/internal/db"
)

type questionRecord struct {
	Category      string
	Question      string
	Options       []string
	CorrectAnswer int
	Points        int
}

type badgeRecord struct {
	Name           string
	Description    string
	Icon           string
	PointsRequired int
	Color          string
}

func main() {
	questionsPath := flag.String("questions", "questions.csv", "path to trivia questions csv")
	badgesPath := flag.String("badges", "", "optional path to badges csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	questions, err := readQuestions(*questionsPath)
	if err != nil {
		log.Fatalf("failed to read questions: %v", err)
	}

	inserted := 0
	for _, record := range questions {
		options, err := db.EncodeOptions(record.Options)
		if err != nil {
			log.Fatalf("failed to encode options: %v", err)
		}
		entry := db.TriviaQuestion{
			Category:      record.Category,
			Question:      record.Question,
			Options:       options,
			CorrectAnswer: record.CorrectAnswer,
			Points:        record.Points,
			IsActive:      true,
		}
		if err := conn.FirstOrCreate(&entry, db.TriviaQuestion{Category: entry.Category, Question: entry.Question}).Error; err != nil {
			log.Fatalf("failed to upsert question: %v", err)
		}
		inserted++
	}
	log.Printf("loaded %d questions", inserted)

	if *badgesPath == "" {
		return
	}
	badges, err := readBadges(*badgesPath)
	if err != nil {
		log.Fatalf("failed to read badges: %v", err)
	}
	for _, record := range badges {
		entry := db.Badge{
			Name:           record.Name,
			Description:    record.Description,
			Icon:           record.Icon,
			PointsRequired: record.PointsRequired,
			Color:          record.Color,
			IsActive:       true,
		}
		if entry.Color == "" {
			entry.Color = "#FFD700"
		}
		if err := conn.FirstOrCreate(&entry, db.Badge{Name: entry.Name}).Error; err != nil {
			log.Fatalf("failed to upsert badge: %v", err)
		}
	}
	log.Printf("loaded %d badges", len(badges))
}

// readQuestions parses rows of: category, question, options (pipe-separated),
// correct answer index, points. The header row is skipped.
func readQuestions(path string) ([]questionRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var records []questionRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			continue
		}
		category := strings.TrimSpace(row[0])
		question := strings.TrimSpace(row[1])
		if category == "" || question == "" {
			continue
		}
		var options []string
		for _, option := range strings.Split(row[2], "|") {
			option = strings.TrimSpace(option)
			if option != "" {
				options = append(options, option)
			}
		}
		correct, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil || correct < 0 || correct >= len(options) {
			log.Printf("skipping question with bad answer index: %q", question)
			continue
		}
		points := 20
		if len(row) > 4 {
			if value, err := strconv.Atoi(strings.TrimSpace(row[4])); err == nil && value > 0 {
				points = value
			}
		}
		records = append(records, questionRecord{
			Category:      category,
			Question:      question,
			Options:       options,
			CorrectAnswer: correct,
			Points:        points,
		})
	}
	return records, nil
}

// readBadges parses rows of: name, description, icon, points required, color.
func readBadges(path string) ([]badgeRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	var records []badgeRecord
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 4 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		points, err := strconv.Atoi(strings.TrimSpace(row[3]))
		if err != nil || points < 0 {
			log.Printf("skipping badge with bad point threshold: %q", name)
			continue
		}
		record := badgeRecord{
			Name:           name,
			Description:    strings.TrimSpace(row[1]),
			Icon:           strings.TrimSpace(row[2]),
			PointsRequired: points,
		}
		if len(row) > 4 {
			record.Color = strings.TrimSpace(row[4])
		}
		records = append(records, record)
	}
	return records, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}
