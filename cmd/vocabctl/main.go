// vocabctl is the admin CLI for the trainer's mastery ledger and word
// list. It works directly on the local files; no server is needed.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/mastery"
	"github.com/glossa-trainer/backend/internal/wordpool"
)

const version = "1.0.0"

var (
	dbPath    string
	wordsPath string
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "vocabctl",
		Short:   "vocabctl - inspect and manage vocabulary mastery",
		Version: version,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", envDefault("MASTERY_DB", "mastery.db"), "mastery ledger SQLite file")
	rootCmd.PersistentFlags().StringVar(&wordsPath, "words", envDefault("WORDS_FILE", "data/words.json"), "word list JSON file")

	rootCmd.AddCommand(newStatsCommand())
	rootCmd.AddCommand(newResetCommand())
	rootCmd.AddCommand(newLessonsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newStatsCommand() *cobra.Command {
	var direction string
	var lessonsFlag string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-lesson mastery for a direction",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := quiz.ParseDirection(direction)
			if err != nil {
				return err
			}

			pool, err := wordpool.Load(wordsPath)
			if err != nil {
				return err
			}

			ledger, err := mastery.Open(dbPath)
			if err != nil {
				return err
			}
			defer ledger.Close()

			lessons := pool.Lessons()
			if lessonsFlag != "" {
				lessons = strings.Split(lessonsFlag, ",")
			}

			stats, err := ledger.Stats(context.Background(), dir, lessons, pool.TotalsPerLesson())
			if err != nil {
				return err
			}

			return json.NewEncoder(os.Stdout).Encode(stats)
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "forward", "quiz direction: forward or reverse")
	cmd.Flags().StringVar(&lessonsFlag, "lessons", "", "comma-separated lessons (default: all)")
	return cmd
}

func newResetCommand() *cobra.Command {
	var direction string
	var lessonsFlag string

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete mastery entries, optionally filtered by direction and lessons",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := quiz.Direction("")
			if direction != "" {
				parsed, err := quiz.ParseDirection(direction)
				if err != nil {
					return err
				}
				dir = parsed
			}

			var lessons []string
			if lessonsFlag != "" {
				lessons = strings.Split(lessonsFlag, ",")
			}

			ledger, err := mastery.Open(dbPath)
			if err != nil {
				return err
			}
			defer ledger.Close()

			if err := ledger.Reset(context.Background(), dir, lessons); err != nil {
				return err
			}

			fmt.Println("mastery reset")
			return nil
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "", "quiz direction (default: both)")
	cmd.Flags().StringVar(&lessonsFlag, "lessons", "", "comma-separated lessons (default: all)")
	return cmd
}

func newLessonsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lessons",
		Short: "List the lessons in the word file with their word counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := wordpool.Load(wordsPath)
			if err != nil {
				return err
			}

			totals := pool.TotalsPerLesson()
			for _, lesson := range pool.Lessons() {
				fmt.Printf("%s\t%d\n", lesson, totals[lesson])
			}
			return nil
		},
	}
}
