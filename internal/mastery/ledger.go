// Package mastery persists which word pairs have been fully answered, per
// direction and lesson, so mastered words can be excluded from new quizzes.
package mastery

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glossa-trainer/backend/internal/domain/quiz"
	"github.com/glossa-trainer/backend/internal/domain/word"
)

const schema = `
CREATE TABLE IF NOT EXISTS mastery (
    direction TEXT NOT NULL,
    lesson    TEXT NOT NULL,
    word_key  TEXT NOT NULL,
    correct   INTEGER NOT NULL,
    last_seen TEXT NOT NULL,
    PRIMARY KEY (direction, lesson, word_key)
);
`

// Ledger is the SQLite-backed mastery store. Open it at startup and close
// it on shutdown; it is safe for concurrent use.
type Ledger struct {
	db *sql.DB
}

func Open(dbPath string) (*Ledger, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Ledger{db: db}, nil
}

func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record marks a pair as mastered for the given direction. Called only for
// full-credit verdicts at summary time; partial credit never records.
func (l *Ledger) Record(ctx context.Context, direction quiz.Direction, p word.Pair) error {
	_, err := l.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO mastery (direction, lesson, word_key, correct, last_seen) VALUES (?, ?, ?, 1, ?)",
		string(direction), p.Lesson, p.Key(), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// IsMastered reports whether a pair has a recorded full-credit verdict.
func (l *Ledger) IsMastered(ctx context.Context, direction quiz.Direction, p word.Pair) (bool, error) {
	var correct int
	err := l.db.QueryRowContext(ctx,
		"SELECT correct FROM mastery WHERE direction = ? AND lesson = ? AND word_key = ?",
		string(direction), p.Lesson, p.Key(),
	).Scan(&correct)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return correct == 1, nil
}

// ExcludeMastered filters already-mastered pairs out of a word pool.
func (l *Ledger) ExcludeMastered(ctx context.Context, direction quiz.Direction, pool []word.Pair) ([]word.Pair, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT lesson, word_key FROM mastery WHERE direction = ? AND correct = 1",
		string(direction),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mastered := make(map[string]bool)
	for rows.Next() {
		var lesson, key string
		if err := rows.Scan(&lesson, &key); err != nil {
			return nil, err
		}
		mastered[lesson+"\x00"+key] = true
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	filtered := make([]word.Pair, 0, len(pool))
	for _, p := range pool {
		if !mastered[p.Lesson+"\x00"+p.Key()] {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// Reset deletes mastery entries. An empty direction means all directions;
// an empty lesson list means all lessons.
func (l *Ledger) Reset(ctx context.Context, direction quiz.Direction, lessons []string) error {
	query := "DELETE FROM mastery"
	var conds []string
	var args []any

	if direction != "" {
		conds = append(conds, "direction = ?")
		args = append(args, string(direction))
	}
	if len(lessons) > 0 {
		placeholders := strings.Repeat("?,", len(lessons)-1) + "?"
		conds = append(conds, fmt.Sprintf("lesson IN (%s)", placeholders))
		for _, lesson := range lessons {
			args = append(args, lesson)
		}
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	_, err := l.db.ExecContext(ctx, query, args...)
	return err
}

// LessonStats is the per-lesson progress snapshot.
type LessonStats struct {
	Lesson     string `json:"lesson"`
	Mastered   int    `json:"mastered"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}

// Stats reports mastered counts per lesson for a direction. totals maps
// each lesson to its word count in the pool; lessons absent from the
// ledger report zero mastered.
func (l *Ledger) Stats(ctx context.Context, direction quiz.Direction, lessons []string, totals map[string]int) ([]LessonStats, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT lesson, COUNT(*) FROM mastery WHERE direction = ? AND correct = 1 GROUP BY lesson",
		string(direction),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mastered := make(map[string]int)
	for rows.Next() {
		var lesson string
		var count int
		if err := rows.Scan(&lesson, &count); err != nil {
			return nil, err
		}
		mastered[lesson] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	stats := make([]LessonStats, 0, len(lessons))
	for _, lesson := range lessons {
		s := LessonStats{
			Lesson:   lesson,
			Mastered: mastered[lesson],
			Total:    totals[lesson],
		}
		if s.Total > 0 {
			s.Percentage = int(math.Round(float64(s.Mastered) / float64(s.Total) * 100))
		}
		stats = append(stats, s)
	}
	return stats, nil
}
