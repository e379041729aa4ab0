// Package main provides a CLI tool to import a question catalog from an
// Excel workbook or a JSON file into the database.
// Usage: go run cmd/seed-catalog/main.go -file catalog.xlsx
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kval-tools/assessment_backend/internal/models"
	"github.com/kval-tools/assessment_backend/internal/repository"
	"github.com/kval-tools/assessment_backend/internal/services"
)

func main() {
	// Define command line flags
	file := flag.String("file", "", "Catalog file to import, .xlsx or .json (required)")
	sheet := flag.String("sheet", "", "Worksheet name (defaults to the first sheet)")
	reset := flag.Bool("reset", false, "Delete the existing catalog before importing")
	dryRun := flag.Bool("dry-run", false, "Validate and print the catalog without writing to database")
	envFile := flag.String("env", "", "Path to .env file (defaults to .env in current dir)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Imports a question catalog into the KVAL assessment database.\n\n")
		fmt.Fprintf(os.Stderr, "Excel files need the columns: id, channel, factor, type, prompt.\n")
		fmt.Fprintf(os.Stderr, "JSON files hold an array of question objects with the same fields.\n\n")
		fmt.Fprintf(os.Stderr, "Required config (via .env or environment):\n")
		fmt.Fprintf(os.Stderr, "  KVAL_DATABASE_URI   MongoDB connection URI\n")
		fmt.Fprintf(os.Stderr, "  KVAL_DATABASE_NAME  Database name (default: kval_assessment)\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -file catalog.xlsx\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -file catalog.json -reset\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -file catalog.xlsx -sheet Questions -dry-run\n", os.Args[0])
	}

	flag.Parse()

	// Load .env file
	loadEnvFile(*envFile)

	if *file == "" {
		log.Fatal("Error: -file is required")
	}

	// Parse the catalog file
	var questions []*models.Question
	var err error
	switch strings.ToLower(filepath.Ext(*file)) {
	case ".xlsx":
		questions, err = readExcelCatalog(*file, *sheet)
	case ".json":
		questions, err = readJSONCatalog(*file)
	default:
		log.Fatalf("Error: unsupported file extension %q (use .xlsx or .json)", filepath.Ext(*file))
	}
	if err != nil {
		log.Fatalf("Failed to read catalog file: %v", err)
	}

	// Validate before touching the database
	catalog := make([]models.Question, len(questions))
	for i, q := range questions {
		catalog[i] = *q
	}
	if err := services.ValidateCatalog(catalog); err != nil {
		log.Fatalf("Catalog validation failed: %v", err)
	}

	// Print what will be imported
	fmt.Printf("=== Catalog: %s ===\n", *file)
	fmt.Printf("  Questions: %d\n", len(questions))
	perChannel := map[models.Channel]int{}
	for _, q := range questions {
		perChannel[q.Channel]++
	}
	for _, ch := range models.Channels() {
		fmt.Printf("  %-45s %d\n", ch.DisplayName(), perChannel[ch])
	}
	fmt.Println()

	if *dryRun {
		fmt.Println("[DRY RUN] No changes made to database")
		return
	}

	// Load database configuration from environment
	dbURI := os.Getenv("KVAL_DATABASE_URI")
	if dbURI == "" {
		log.Fatal("Error: KVAL_DATABASE_URI environment variable is required")
	}
	dbName := os.Getenv("KVAL_DATABASE_NAME")
	if dbName == "" {
		dbName = "kval_assessment"
	}

	// Connect to MongoDB
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(dbURI)
	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		if disconnectErr := client.Disconnect(ctx); disconnectErr != nil {
			log.Printf("Error disconnecting from MongoDB: %v", disconnectErr)
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	repo := repository.NewMongoQuestionRepository(client.Database(dbName))

	existing, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count existing catalog: %v", err)
	}

	if existing > 0 {
		if !*reset {
			log.Fatalf("Error: catalog already holds %d questions, rerun with -reset to replace it", existing)
		}
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			log.Fatalf("Failed to delete existing catalog: %v", err)
		}
		fmt.Printf("✓ Deleted %d existing questions\n", deleted)
	}

	if err := repo.CreateMany(ctx, questions); err != nil {
		log.Fatalf("Failed to import catalog: %v", err)
	}
	fmt.Printf("✓ Imported %d questions\n", len(questions))

	fmt.Println()
	fmt.Println("Catalog import complete!")
}

// readExcelCatalog parses a workbook with a header row of
// id, channel, factor, type, prompt columns
func readExcelCatalog(path, sheet string) ([]*models.Question, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Printf("Error closing workbook: %v", closeErr)
		}
	}()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	// Map header names to column indexes so column order doesn't matter
	cols := map[string]int{}
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "channel", "factor", "type", "prompt"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("sheet %q is missing the %q column", sheet, required)
		}
	}

	cell := func(row []string, name string) string {
		idx := cols[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var questions []*models.Question
	for i, row := range rows[1:] {
		// Skip fully empty trailing rows, a common Excel artifact
		if cell(row, "id") == "" && cell(row, "prompt") == "" {
			continue
		}

		order := len(questions) + 1
		if _, ok := cols["order"]; ok {
			if parsed, parseErr := strconv.Atoi(cell(row, "order")); parseErr == nil {
				order = parsed
			}
		}

		q := &models.Question{
			QuestionID: cell(row, "id"),
			Channel:    models.Channel(strings.ToUpper(cell(row, "channel"))),
			Factor:     models.Factor(strings.ToUpper(cell(row, "factor"))),
			Type:       models.AnswerType(strings.ToUpper(cell(row, "type"))),
			Prompt:     cell(row, "prompt"),
			Order:      order,
		}
		q.BeforeCreate()
		if err := q.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		questions = append(questions, q)
	}

	return questions, nil
}

// readJSONCatalog parses a JSON array of question objects
func readJSONCatalog(path string) ([]*models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var parsed []models.Question
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	questions := make([]*models.Question, 0, len(parsed))
	for i := range parsed {
		q := parsed[i]
		if q.Order == 0 {
			q.Order = i + 1
		}
		q.BeforeCreate()
		questions = append(questions, &q)
	}

	return questions, nil
}

// loadEnvFile loads environment variables from a .env file
func loadEnvFile(path string) {
	if path == "" {
		cwd, _ := os.Getwd()
		if _, err := os.Stat(filepath.Join(cwd, ".env")); err == nil {
			path = ".env"
		}
	}

	if path != "" {
		if err := godotenv.Load(path); err != nil {
			log.Printf("Error loading .env file: %v", err)
		}
	}
}
