// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/votedesk/models"
)

// Store reads and writes the four record collections.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB returns the underlying connection pool.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ---------- Users ----------

const userColumns = `id, username, password_hash, role, voter_no, voted, voted_at, voted_candidate_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var voterNo sql.NullString
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &voterNo,
		&u.Voted, &u.VotedAt, &u.VotedCandidateID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.VoterNo = voterNo.String
	return &u, nil
}

// CreateUser inserts a new account. ID and CreatedAt are assigned here.
func (s *Store) CreateUser(ctx context.Context, u models.User) (*models.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	if u.Role == "" {
		u.Role = models.RoleVoter
	}

	var voterNo sql.NullString
	if u.VoterNo != "" {
		voterNo = sql.NullString{String: u.VoterNo, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, password_hash, role, voter_no, voted, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)
	`, u.ID, u.Username, u.PasswordHash, u.Role, voterNo, u.CreatedAt)

	if err != nil {
		if isUniqueViolation(err, "username") {
			return nil, ErrUsernameTaken
		}
		if isUniqueViolation(err, "voter_no") {
			return nil, ErrVoterNoTaken
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	return &u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *Store) GetUserByVoterNo(ctx context.Context, voterNo string) (*models.User, error) {
	return s.getUser(ctx, `SELECT `+userColumns+` FROM users WHERE voter_no = $1`, voterNo)
}

func (s *Store) getUser(ctx context.Context, query string, arg any) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return u, nil
}

// ListUsers returns all accounts, admins first, then by username.
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+`
		FROM users
		ORDER BY CASE WHEN role = 'admin' THEN 0 ELSE 1 END, username
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// HasAdmin reports whether at least one admin account exists.
func (s *Store) HasAdmin(ctx context.Context) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE role = 'admin')
	`).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check for admin: %w", err)
	}
	return exists, nil
}

// UpsertAdmin creates an admin account, or promotes an existing user to admin
// and resets its password. It reports whether a new account was created.
func (s *Store) UpsertAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = $1, role = 'admin' WHERE username = $2
	`, passwordHash, username)
	if err != nil {
		return false, fmt.Errorf("failed to promote user: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = s.CreateUser(ctx, models.User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// ---------- Candidates ----------

// CreateCandidate appends a candidate to the end of the listing order.
func (s *Store) CreateCandidate(ctx context.Context, name string) (*models.Candidate, error) {
	c := models.Candidate{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO candidates (id, name, position, created_at)
		VALUES ($1, $2, (SELECT COALESCE(MAX(position), 0) + 1 FROM candidates), $3)
	`, c.ID, c.Name, c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert candidate: %w", err)
	}

	return &c, nil
}

// EnsureCandidate creates a candidate with the given name unless one exists.
// It reports whether a candidate was created.
func (s *Store) EnsureCandidate(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidates WHERE name = $1)
	`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check candidate: %w", err)
	}
	if exists {
		return false, nil
	}

	if _, err := s.CreateCandidate(ctx, name); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) GetCandidate(ctx context.Context, id string) (*models.Candidate, error) {
	var c models.Candidate
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM candidates WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query candidate: %w", err)
	}
	return &c, nil
}

// ListCandidates returns candidates in creation order.
func (s *Store) ListCandidates(ctx context.Context) ([]models.Candidate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM candidates ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}
	return candidates, nil
}

func (s *Store) RenameCandidate(ctx context.Context, id, name string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE candidates SET name = $1 WHERE id = $2`, name, id)
	if err != nil {
		return fmt.Errorf("failed to rename candidate: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCandidate removes a candidate and every vote cast for it, and returns
// the number of votes removed. Voters keep their voted flag.
func (s *Store) DeleteCandidate(ctx context.Context, id string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM votes WHERE candidate_id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE users SET voted_candidate_id = NULL WHERE voted_candidate_id = $1
	`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to clear voted candidate: %w", err)
	}

	res, err = tx.ExecContext(ctx, `DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete candidate: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return 0, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return int(removed), nil
}

// ---------- Election ----------

// GetElection returns the schedule record, or nil if none has been created.
func (s *Store) GetElection(ctx context.Context) (*models.Election, error) {
	var e models.Election
	err := s.db.QueryRowContext(ctx, `
		SELECT start_date, end_date, active, published, updated_at
		FROM election
		WHERE id = 1
	`).Scan(&e.StartDate, &e.EndDate, &e.Active, &e.Published, &e.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query election: %w", err)
	}
	return &e, nil
}

// ScheduleElection sets the voting window and starts a new cycle:
// the election becomes active and results unpublished.
func (s *Store) ScheduleElection(ctx context.Context, start, end time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, start_date, end_date, active, published, updated_at)
		VALUES (1, $1, $2, TRUE, FALSE, $3)
		ON CONFLICT (id) DO UPDATE SET
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			active = TRUE,
			published = FALSE,
			updated_at = excluded.updated_at
	`, start.UTC(), end.UTC(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to schedule election: %w", err)
	}
	return nil
}

// StartElection marks the election active, creating an unbounded record
// if none exists.
func (s *Store) StartElection(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, start_date, end_date, active, published, updated_at)
		VALUES (1, NULL, NULL, TRUE, FALSE, $1)
		ON CONFLICT (id) DO UPDATE SET
			active = TRUE,
			updated_at = excluded.updated_at
	`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to start election: %w", err)
	}
	return nil
}

// StopElection clears the active flag. Without a record it does nothing.
func (s *Store) StopElection(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE election SET active = FALSE, updated_at = $1 WHERE id = 1
	`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to stop election: %w", err)
	}
	return nil
}

// PublishResults sets the published flag, creating an inactive record if
// none exists.
func (s *Store) PublishResults(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO election (id, start_date, end_date, active, published, updated_at)
		VALUES (1, NULL, NULL, FALSE, TRUE, $1)
		ON CONFLICT (id) DO UPDATE SET
			published = TRUE,
			updated_at = excluded.updated_at
	`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to publish results: %w", err)
	}
	return nil
}

// ---------- Votes ----------

// RecordVote atomically claims the user's single vote and inserts it.
//
// The user row is flipped from voted = FALSE to TRUE with a conditional
// UPDATE, so of two concurrent submissions only one can proceed; the UNIQUE
// constraint on votes.user_id backs this up. Returns ErrAlreadyVoted,
// ErrCandidateNotFound, or ErrNotFound for an unknown user.
func (s *Store) RecordVote(ctx context.Context, v models.Vote) (*models.Vote, error) {
	v.ID = uuid.NewString()
	v.CastAt = v.CastAt.UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE users
		SET voted = TRUE, voted_at = $1, voted_candidate_id = $2
		WHERE id = $3 AND voted = FALSE
	`, v.CastAt, v.CandidateID, v.UserID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to mark user voted: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		var exists bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
		`, v.UserID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check user: %w", err)
		}
		if !exists {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyVoted
	}

	var candidateExists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM candidates WHERE id = $1)
	`, v.CandidateID).Scan(&candidateExists)
	if err != nil {
		return nil, fmt.Errorf("failed to check candidate: %w", err)
	}
	if !candidateExists {
		return nil, ErrCandidateNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO votes (id, user_id, candidate_id, cast_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, v.ID, v.UserID, v.CandidateID, v.CastAt, v.IPHash, v.UserAgent)
	if err != nil {
		if isUniqueViolation(err, "user_id") {
			return nil, ErrAlreadyVoted
		}
		if isForeignKeyViolation(err) {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to insert vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit vote: %w", err)
	}

	return &v, nil
}

// ListVotes returns every recorded vote.
func (s *Store) ListVotes(ctx context.Context) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, candidate_id, cast_at FROM votes ORDER BY cast_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.UserID, &v.CandidateID, &v.CastAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate votes: %w", err)
	}
	return votes, nil
}
