package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/spainrp/awards/internal/models"
)

// Repository is the SQLite-backed store
type Repository struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (or creates) the SQLite database at dbPath
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// SQLite works best with a single connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	repo := &Repository{db: db, now: time.Now}

	if err := repo.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS votes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL UNIQUE,
			username TEXT,
			roblox_user TEXT NOT NULL,
			discord_avatar_url TEXT,
			roblox_avatar_url TEXT,
			roblox_id TEXT,
			selections TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS award_config (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			data TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_votes_created ON votes(created_at)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return err
		}
	}
	return nil
}

// ==================== Config Methods ====================

// GetConfig returns the stored award configuration
func (r *Repository) GetConfig(ctx context.Context) (*models.AwardConfig, error) {
	var data string
	var updatedAt time.Time
	err := r.db.QueryRowContext(ctx, `SELECT data, updated_at FROM award_config WHERE id = 1`).Scan(&data, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var cfg models.AwardConfig
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return nil, fmt.Errorf("decode award config: %w", err)
	}
	cfg.UpdatedAt = updatedAt
	return &cfg, nil
}

// SaveConfig replaces the stored award configuration
func (r *Repository) SaveConfig(ctx context.Context, cfg *models.AwardConfig) error {
	cfg.UpdatedAt = r.now().UTC()
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode award config: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO award_config (id, data, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, string(data), cfg.UpdatedAt)
	return err
}

// ==================== Vote Methods ====================

const voteColumns = `user_id, username, roblox_user, discord_avatar_url, roblox_avatar_url, roblox_id, selections, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVote(row rowScanner) (*models.Vote, error) {
	var v models.Vote
	var username, discordAvatar, robloxAvatar, robloxID sql.NullString
	var selections string
	if err := row.Scan(&v.UserID, &username, &v.RobloxUser, &discordAvatar, &robloxAvatar, &robloxID, &selections, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	v.Username = username.String
	v.DiscordAvatarURL = discordAvatar.String
	v.RobloxAvatarURL = robloxAvatar.String
	v.RobloxID = robloxID.String
	if err := json.Unmarshal([]byte(selections), &v.Selections); err != nil {
		return nil, fmt.Errorf("decode selections for %s: %w", v.UserID, err)
	}
	if v.Selections == nil {
		v.Selections = map[string]string{}
	}
	return &v, nil
}

// GetVote returns the vote cast by userID
func (r *Repository) GetVote(ctx context.Context, userID string) (*models.Vote, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+voteColumns+` FROM votes WHERE user_id = ?`, userID)
	v, err := scanVote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return v, err
}

// CreateVote inserts a new vote; the unique index on user_id decides races
func (r *Repository) CreateVote(ctx context.Context, vote *models.Vote) error {
	now := r.now().UTC()
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = now
	}
	vote.UpdatedAt = now
	if vote.Selections == nil {
		vote.Selections = map[string]string{}
	}

	selections, err := json.Marshal(vote.Selections)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO votes (`+voteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, vote.UserID, vote.Username, vote.RobloxUser, vote.DiscordAvatarURL, vote.RobloxAvatarURL,
		vote.RobloxID, string(selections), vote.CreatedAt, vote.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

// UpdateSelections merges partial into the user's selections
func (r *Repository) UpdateSelections(ctx context.Context, userID string, partial map[string]string) (*models.Vote, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	v, err := scanVote(tx.QueryRowContext(ctx, `SELECT `+voteColumns+` FROM votes WHERE user_id = ?`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	for k, val := range partial {
		v.Selections[k] = val
	}
	v.UpdatedAt = r.now().UTC()

	selections, err := json.Marshal(v.Selections)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE votes SET selections = ?, updated_at = ? WHERE user_id = ?`,
		string(selections), v.UpdatedAt, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return v, nil
}

// ListVotes returns all votes in insertion order
func (r *Repository) ListVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+voteColumns+` FROM votes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, err
		}
		votes = append(votes, *v)
	}
	return votes, rows.Err()
}

// CountVotes returns the number of stored votes
func (r *Repository) CountVotes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM votes`).Scan(&n)
	return n, err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}
