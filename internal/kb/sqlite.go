package kb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"learnpath/internal/logging"
	"learnpath/internal/types"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kb_meta (key TEXT PRIMARY KEY, value TEXT NOT NULL);
CREATE TABLE IF NOT EXISTS topics (
	id TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	duration INTEGER NOT NULL,
	difficulty TEXT NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS prerequisites (
	topic TEXT NOT NULL,
	position INTEGER NOT NULL,
	prerequisite TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS goals (name TEXT PRIMARY KEY, position INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS goal_topics (
	goal TEXT NOT NULL,
	position INTEGER NOT NULL,
	topic TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS strategies (
	root TEXT NOT NULL,
	alternative INTEGER NOT NULL,
	position INTEGER NOT NULL,
	cost INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS strategy_requirements (
	root TEXT NOT NULL,
	alternative INTEGER NOT NULL,
	position INTEGER NOT NULL,
	requirement TEXT NOT NULL
);
`

// ExportSQLite writes k into a SQLite database at path, replacing any
// knowledge base already stored there.
func ExportSQLite(ctx context.Context, k *KnowledgeBase, path string) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"kb_meta", "topics", "prerequisites", "goals", "goal_topics", "strategies", "strategy_requirements"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO kb_meta (key, value) VALUES ('version', ?)`, k.version); err != nil {
		return fmt.Errorf("failed to write version: %w", err)
	}
	for i, t := range k.topics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO topics (id, position, duration, difficulty, category, description) VALUES (?, ?, ?, ?, ?, ?)`,
			t.ID, i, t.Duration, string(t.Difficulty), t.Category, t.Description); err != nil {
			return fmt.Errorf("failed to write topic %s: %w", t.ID, err)
		}
		for j, p := range t.Prerequisites {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO prerequisites (topic, position, prerequisite) VALUES (?, ?, ?)`, t.ID, j, p); err != nil {
				return fmt.Errorf("failed to write prerequisite %s->%s: %w", t.ID, p, err)
			}
		}
	}
	for i, g := range k.goals {
		if _, err := tx.ExecContext(ctx, `INSERT INTO goals (name, position) VALUES (?, ?)`, g.Name, i); err != nil {
			return fmt.Errorf("failed to write goal %s: %w", g.Name, err)
		}
		for j, id := range g.Topics {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO goal_topics (goal, position, topic) VALUES (?, ?, ?)`, g.Name, j, id); err != nil {
				return fmt.Errorf("failed to write goal topic %s/%s: %w", g.Name, id, err)
			}
		}
	}
	for i, root := range k.roots {
		for _, s := range k.strategies[root] {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO strategies (root, alternative, position, cost) VALUES (?, ?, ?, ?)`,
				root, s.Index, i, s.Cost); err != nil {
				return fmt.Errorf("failed to write strategy %s#%d: %w", root, s.Index, err)
			}
			for j, req := range s.Requires {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO strategy_requirements (root, alternative, position, requirement) VALUES (?, ?, ?, ?)`,
					root, s.Index, j, req); err != nil {
					return fmt.Errorf("failed to write requirement %s#%d/%s: %w", root, s.Index, req, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit knowledge base: %w", err)
	}
	logging.KB("knowledge base exported", zap.String("path", path), zap.Int("topics", len(k.topics)))
	return nil
}

// LoadSQLite reads a knowledge base previously written by ExportSQLite and
// runs the same validation as Parse.
func LoadSQLite(ctx context.Context, path string) (*KnowledgeBase, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	defer db.Close()

	var version string
	if err := db.QueryRowContext(ctx, `SELECT value FROM kb_meta WHERE key = 'version'`).Scan(&version); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to read version: %w", err)
	}

	topics, err := loadTopics(ctx, db)
	if err != nil {
		return nil, err
	}
	goals, err := loadGoals(ctx, db)
	if err != nil {
		return nil, err
	}
	strategies, err := loadStrategies(ctx, db)
	if err != nil {
		return nil, err
	}
	return build(version, topics, goals, strategies)
}

func loadTopics(ctx context.Context, db *sql.DB) ([]Topic, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, duration, difficulty, category, description FROM topics ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []Topic
	byID := make(map[string]int)
	for rows.Next() {
		var t Topic
		var diff string
		if err := rows.Scan(&t.ID, &t.Duration, &diff, &t.Category, &t.Description); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		t.Difficulty = Difficulty(diff)
		byID[t.ID] = len(topics)
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read topics: %w", err)
	}

	prereqs, err := db.QueryContext(ctx,
		`SELECT topic, prerequisite FROM prerequisites ORDER BY topic, position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query prerequisites: %w", err)
	}
	defer prereqs.Close()
	for prereqs.Next() {
		var topic, p string
		if err := prereqs.Scan(&topic, &p); err != nil {
			return nil, fmt.Errorf("failed to scan prerequisite: %w", err)
		}
		i, ok := byID[topic]
		if !ok {
			return nil, fmt.Errorf("prerequisite row for topic %q: %w", topic, types.ErrNotFound)
		}
		topics[i].Prerequisites = append(topics[i].Prerequisites, p)
	}
	return topics, prereqs.Err()
}

func loadGoals(ctx context.Context, db *sql.DB) ([]Goal, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT g.name, gt.topic
		FROM goals g LEFT JOIN goal_topics gt ON gt.goal = g.name
		ORDER BY g.position, gt.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var name string
		var topic sql.NullString
		if err := rows.Scan(&name, &topic); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if len(goals) == 0 || goals[len(goals)-1].Name != name {
			goals = append(goals, Goal{Name: name})
		}
		if topic.Valid {
			last := &goals[len(goals)-1]
			last.Topics = append(last.Topics, topic.String)
		}
	}
	return goals, rows.Err()
}

func loadStrategies(ctx context.Context, db *sql.DB) ([]Strategy, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT s.root, s.alternative, s.cost, r.requirement
		FROM strategies s
		LEFT JOIN strategy_requirements r ON r.root = s.root AND r.alternative = s.alternative
		ORDER BY s.position, s.alternative, r.position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var out []Strategy
	for rows.Next() {
		var s Strategy
		var req sql.NullString
		if err := rows.Scan(&s.Root, &s.Index, &s.Cost, &req); err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		if n := len(out); n == 0 || out[n-1].Root != s.Root || out[n-1].Index != s.Index {
			out = append(out, s)
		}
		if req.Valid {
			last := &out[len(out)-1]
			last.Requires = append(last.Requires, req.String)
		}
	}
	return out, rows.Err()
}
