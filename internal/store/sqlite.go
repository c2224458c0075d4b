package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/rounakb/placedigest/internal/model"
	"github.com/rounakb/placedigest/internal/secret"
)

// Ensure SQLiteStore satisfies the pipeline's persistence interfaces.
var (
	_ model.RecordStore      = (*SQLiteStore)(nil)
	_ model.CredentialSource = (*SQLiteStore)(nil)
)

// SQLiteStore persists summary records and per-user credentials in a SQLite
// database. API keys are encrypted at rest with the configured Keeper.
type SQLiteStore struct {
	db     *sql.DB
	keeper *secret.Keeper
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures
// the schema exists.
func NewSQLiteStore(dbPath string, keeper *secret.Keeper) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createSummaries := `CREATE TABLE IF NOT EXISTS summaries (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id          TEXT NOT NULL,
		email_id         TEXT NOT NULL,
		subject          TEXT NOT NULL,
		sender           TEXT NOT NULL,
		snippet          TEXT NOT NULL DEFAULT '',
		summary          TEXT NOT NULL,
		company          TEXT,
		job_role         TEXT,
		deadline         TEXT,
		eligibility      TEXT,
		application_link TEXT,
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(user_id, email_id)
	)`
	if _, err := db.Exec(createSummaries); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating summaries table: %w", err)
	}

	createUsers := `CREATE TABLE IF NOT EXISTS users (
		user_id    TEXT PRIMARY KEY,
		gemini_key BLOB
	)`
	if _, err := db.Exec(createUsers); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating users table: %w", err)
	}

	return &SQLiteStore{db: db, keeper: keeper}, nil
}

// KnownMessageIDs returns the email ids of every record the user already has.
func (s *SQLiteStore) KnownMessageIDs(userID string) (map[string]struct{}, error) {
	rows, err := s.db.Query("SELECT email_id FROM summaries WHERE user_id = ?", userID)
	if err != nil {
		return nil, fmt.Errorf("listing known message ids: %w", err)
	}
	defer rows.Close()

	known := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning message id: %w", err)
		}
		known[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing known message ids: %w", err)
	}
	return known, nil
}

// Insert writes one summary record. The UNIQUE(user_id, email_id) constraint
// rejects a second record for the same message.
func (s *SQLiteStore) Insert(rec model.SummaryRecord) error {
	_, err := s.db.Exec(`INSERT INTO summaries
		(user_id, email_id, subject, sender, snippet, summary,
		 company, job_role, deadline, eligibility, application_link, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UserID, rec.EmailID, rec.Subject, rec.From, rec.Snippet, rec.Summary,
		nullable(rec.Company), nullable(rec.JobRole), nullable(rec.Deadline),
		nullable(rec.Eligibility), nullable(rec.ApplicationLink), rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting summary for email %s: %w", rec.EmailID, err)
	}
	return nil
}

// ListRecords returns all of the user's records, newest first.
func (s *SQLiteStore) ListRecords(userID string) ([]model.SummaryRecord, error) {
	rows, err := s.db.Query(`SELECT id, user_id, email_id, subject, sender, snippet,
		summary, company, job_role, deadline, eligibility, application_link, created_at
		FROM summaries WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	defer rows.Close()

	var records []model.SummaryRecord
	for rows.Next() {
		var rec model.SummaryRecord
		var company, jobRole, deadline, eligibility, link sql.NullString
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.EmailID, &rec.Subject, &rec.From,
			&rec.Snippet, &rec.Summary, &company, &jobRole, &deadline, &eligibility,
			&link, &rec.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning summary row: %w", err)
		}
		rec.Company = fromNull(company)
		rec.JobRole = fromNull(jobRole)
		rec.Deadline = fromNull(deadline)
		rec.Eligibility = fromNull(eligibility)
		rec.ApplicationLink = fromNull(link)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing summaries: %w", err)
	}
	return records, nil
}

// SetAPIKey encrypts and stores the user's extraction API key, replacing any
// existing one.
func (s *SQLiteStore) SetAPIKey(userID, apiKey string) error {
	blob, err := s.keeper.Encrypt(apiKey)
	if err != nil {
		return fmt.Errorf("encrypting api key: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO users (user_id, gemini_key) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET gemini_key = excluded.gemini_key`,
		userID, blob)
	if err != nil {
		return fmt.Errorf("storing api key: %w", err)
	}
	return nil
}

// APIKey returns the user's decrypted API key. Returns model.ErrNoCredential
// when none is configured.
func (s *SQLiteStore) APIKey(userID string) (string, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT gemini_key FROM users WHERE user_id = ?", userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", model.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("loading api key: %w", err)
	}
	if len(blob) == 0 {
		return "", model.ErrNoCredential
	}

	key, err := s.keeper.Decrypt(blob)
	if err != nil {
		return "", fmt.Errorf("stored api key is unreadable, set it again with `placedigest apikey set`: %w", err)
	}
	return key, nil
}

// HasAPIKey reports whether the user has a stored API key, without
// decrypting it.
func (s *SQLiteStore) HasAPIKey(userID string) (bool, error) {
	var blob []byte
	err := s.db.QueryRow("SELECT gemini_key FROM users WHERE user_id = ?", userID).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking api key: %w", err)
	}
	return len(blob) > 0, nil
}

// ClearAPIKey removes the user's stored API key. A no-op if none exists.
func (s *SQLiteStore) ClearAPIKey(userID string) error {
	_, err := s.db.Exec("UPDATE users SET gemini_key = NULL WHERE user_id = ?", userID)
	if err != nil {
		return fmt.Errorf("clearing api key: %w", err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
