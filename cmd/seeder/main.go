package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/depressed1503/maria-rating/internal/database"
)

// Simplified config loading for the script
func loadConfig() (dbName, migrationsDir string) {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		log.Fatalf("Error: Required environment variable DB_NAME is not set.")
	}
	migrationsDir, ok = os.LookupEnv("MIGRATIONS_DIR")
	if !ok {
		migrationsDir = "./migrations"
	}
	return dbName, migrationsDir
}

func main() {
	log.Info("Starting database seeder...")
	dbName, migrationsDir := loadConfig()

	db, teardown, err := database.InitDB(dbName, os.Getenv("TURSO_PRIMARY_URL"), os.Getenv("TURSO_AUTH_TOKEN"), migrationsDir)
	if err != nil {
		log.Fatalf("Failed to open database: %s", err)
	}
	defer teardown()

	log.Info("Successfully connected to the database.")

	// Create dummy players to use in matches
	type seedPlayer struct {
		id         int64
		externalID string
		handle     string
	}
	dummyPlayers := make([]seedPlayer, 0, 4)
	for i := 1; i <= 4; i++ {
		p := seedPlayer{externalID: fmt.Sprintf("seed-%d", i), handle: fmt.Sprintf("seeder%d", i)}
		res, err := db.Exec("INSERT OR IGNORE INTO players (external_id, handle) VALUES (?, ?)", p.externalID, p.handle)
		if err != nil {
			log.Fatalf("Failed to insert dummy player %s: %s", p.handle, err)
		}
		if id, err := res.LastInsertId(); err == nil && id > 0 {
			p.id = id
		} else {
			if err := db.QueryRow("SELECT id FROM players WHERE external_id = ?", p.externalID).Scan(&p.id); err != nil {
				log.Fatalf("Failed to look up dummy player %s: %s", p.handle, err)
			}
		}
		dummyPlayers = append(dummyPlayers, p)
	}
	log.Info("Ensured dummy players exist.")

	const batchSize = 100 // Insert 100 matches at a time
	const numMatches = 10000

	log.Info("Preparing to insert dummy matches...", "total", numMatches, "batch_size", batchSize)
	startTime := time.Now()

	tx, err := db.Begin()
	if err != nil {
		log.Fatalf("Failed to begin transaction: %s", err)
	}

	valueStrings := make([]string, 0, batchSize)
	valueArgs := make([]interface{}, 0, batchSize*9) // 9 columns per match

	for i := 0; i < numMatches; i++ {
		matchTime := time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour)
		reporter := dummyPlayers[rand.Intn(len(dummyPlayers))]
		opponent := dummyPlayers[rand.Intn(len(dummyPlayers))]
		for opponent.id == reporter.id {
			opponent = dummyPlayers[rand.Intn(len(dummyPlayers))]
		}
		score1, score2 := 11, rand.Intn(10)
		winnerID := reporter.id

		valueStrings = append(valueStrings, "(?, ?, ?, ?, ?, ?, ?, ?, ?)")
		valueArgs = append(valueArgs,
			uuid.NewString(),
			reporter.id,
			opponent.id,
			score1,
			score2,
			winnerID,
			"CONFIRMED",
			matchTime.Unix(),
			matchTime.Add(30*time.Minute).Unix(),
		)

		if (i+1)%batchSize == 0 || (i+1) == numMatches {
			stmt := fmt.Sprintf(`
				INSERT INTO singles_matches (id, reporter_id, opponent_id, score1, score2,
					winner_id, state, created_at, resolved_at)
				VALUES %s;`, strings.Join(valueStrings, ","))

			_, err := tx.Exec(stmt, valueArgs...)
			if err != nil {
				tx.Rollback()
				log.Fatalf("Failed to execute batch insert: %s", err)
			}

			// Reset for the next batch
			valueStrings = make([]string, 0, batchSize)
			valueArgs = make([]interface{}, 0, batchSize*9)
			log.Info("Inserted batch", "completed", i+1, "total", numMatches)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit transaction: %s", err)
	}

	duration := time.Since(startTime)
	log.Info("Successfully inserted all dummy matches.", "duration", duration)
}
