// Package history persists chat turns per user.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"bookhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

// Append stores a turn, filling in ID and At when they are empty.
func (r *Repo) Append(ctx context.Context, turn models.ChatTurn) (*models.ChatTurn, error) {
	if strings.TrimSpace(turn.UserID) == "" {
		return nil, fmt.Errorf("append turn: empty user id")
	}
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.At.IsZero() {
		turn.At = time.Now().UTC()
	}
	if turn.BookIDs == nil {
		turn.BookIDs = []int{}
	}
	ids, err := json.Marshal(turn.BookIDs)
	if err != nil {
		return nil, fmt.Errorf("encode book ids: %w", err)
	}

	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO chat_turns (id, user_id, message, intent, confidence, response, book_ids, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, turn.ID, turn.UserID, turn.Message, turn.Intent, turn.Confidence, turn.Response, string(ids), turn.At)
	if err != nil {
		return nil, fmt.Errorf("insert chat turn: %w", err)
	}
	return &turn, nil
}

// ListByUser returns the user's turns, newest first.
func (r *Repo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.ChatTurn, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, message, intent, confidence, response, book_ids, created_at
		FROM chat_turns
		WHERE user_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list chat turns: %w", err)
	}
	defer rows.Close()

	out := make([]models.ChatTurn, 0, limit)
	for rows.Next() {
		var t models.ChatTurn
		var ids string
		if err := rows.Scan(&t.ID, &t.UserID, &t.Message, &t.Intent, &t.Confidence, &t.Response, &ids, &t.At); err != nil {
			return nil, fmt.Errorf("scan chat turn: %w", err)
		}
		if err := json.Unmarshal([]byte(ids), &t.BookIDs); err != nil {
			return nil, fmt.Errorf("decode book ids: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM chat_turns WHERE user_id = ?`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chat turns: %w", err)
	}
	return n, nil
}
