package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/domain"
	"github.com/debaditya-mohankudo/get-insights-from-notification-mails-using-llm/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// record and chat-history store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.prmail/data/prmail.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".prmail", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "prmail.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RecordStore returns a RecordStore interface backed by this store.
func (s *Store) RecordStore() driven.RecordStore {
	return &recordStore{store: s}
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Record Store ====================

// recordStore implements driven.RecordStore.
type recordStore struct {
	store *Store
}

var _ driven.RecordStore = (*recordStore)(nil)

// selectRecordColumns lists the columns read back into a domain.Record.
// full_text and position are write-side only: full text is recomputed
// from the record, position only drives ordering.
const selectRecordColumns = `
	SELECT id, subject, sender, date, message_id, pr_title, body,
		pr_numbers, repos, tickets, sections, commits, files_modified,
		tags, contributors, linked_prs, linked_tickets, sql_statements,
		issue_refs`

// ReplaceAll swaps the stored corpus for the given records in a single
// transaction. Row positions follow slice order, so All returns records
// in the order they were written.
func (s *recordStore) ReplaceAll(ctx context.Context, records []domain.Record) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("clearing records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			id, position, subject, sender, date, message_id, pr_title, body,
			pr_numbers, repos, tickets, sections, commits, files_modified,
			tags, contributors, linked_prs, linked_tickets, sql_statements,
			issue_refs, full_text
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		jsonCols, err := encodeRecordJSON(&rec)
		if err != nil {
			return err
		}

		args := make([]any, 0, 21)
		args = append(args, rec.ID, i, rec.Subject, rec.Sender, rec.Date,
			rec.MessageID, rec.PRTitle, rec.Body)
		args = append(args, jsonCols...)
		args = append(args, rec.FullText())

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// All returns every stored record in write order.
func (s *recordStore) All(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.store.db.QueryContext(ctx, selectRecordColumns+`
		FROM records ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	var records []domain.Record //nolint:prealloc // size unknown from query
	for rows.Next() {
		rec, err := scanRecordRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}

	return records, nil
}

// Get retrieves a record by ID.
func (s *recordStore) Get(ctx context.Context, id string) (*domain.Record, error) {
	row := s.store.db.QueryRowContext(ctx, selectRecordColumns+`
		FROM records WHERE id = ?
	`, id)

	return scanRecordRow(row)
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// Append adds a turn to a conversation, creating the conversation row on
// first use. Sequence numbers are assigned per conversation in append
// order starting at zero.
func (s *historyStore) Append(ctx context.Context, conversationID string, turn domain.ChatTurn) error {
	if conversationID == "" {
		return domain.ErrInvalidInput
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO conversations (id, created_at)
		VALUES (?, ?)
		ON CONFLICT(id) DO NOTHING
	`, conversationID, time.Now().UTC()); err != nil {
		return fmt.Errorf("saving conversation: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, seq, role, content)
		VALUES (
			?,
			(SELECT COALESCE(MAX(seq), -1) + 1 FROM messages WHERE conversation_id = ?),
			?, ?
		)
	`, conversationID, conversationID, turn.Role, turn.Content); err != nil {
		return fmt.Errorf("saving message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Turns returns a conversation's turns in append order. An unknown
// conversation yields no turns and no error.
func (s *historyStore) Turns(ctx context.Context, conversationID string) ([]domain.ChatTurn, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT role, content
		FROM messages WHERE conversation_id = ?
		ORDER BY seq
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []domain.ChatTurn //nolint:prealloc // size unknown from query
	for rows.Next() {
		var turn domain.ChatTurn
		if err := rows.Scan(&turn.Role, &turn.Content); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		turns = append(turns, turn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating turns: %w", err)
	}

	return turns, nil
}

// Conversations returns all conversations, newest first.
func (s *historyStore) Conversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, created_at
		FROM conversations
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying conversations: %w", err)
	}
	defer rows.Close()

	var conversations []domain.Conversation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var conv domain.Conversation
		var createdAt sql.NullTime
		if err := rows.Scan(&conv.ID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning conversation: %w", err)
		}
		if createdAt.Valid {
			conv.CreatedAt = createdAt.Time
		}
		conversations = append(conversations, conv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating conversations: %w", err)
	}

	return conversations, nil
}

// ==================== Helper Functions ====================

// jsonField pairs a JSON column name with the record field behind it.
type jsonField struct {
	name string
	v    any
}

// recordJSONFields lists the JSON columns in records-table order.
func recordJSONFields(rec *domain.Record) []jsonField {
	return []jsonField{
		{"pr_numbers", &rec.PRNumbers},
		{"repos", &rec.Repos},
		{"tickets", &rec.Tickets},
		{"sections", &rec.Sections},
		{"commits", &rec.Commits},
		{"files_modified", &rec.FilesModified},
		{"tags", &rec.Tags},
		{"contributors", &rec.Contributors},
		{"linked_prs", &rec.LinkedPRs},
		{"linked_tickets", &rec.LinkedTickets},
		{"sql_statements", &rec.SQLStatements},
		{"issue_refs", &rec.IssueRefs},
	}
}

// encodeRecordJSON marshals the list and section fields into their column
// values. Nil slices encode as JSON null, which round-trips back to nil.
func encodeRecordJSON(rec *domain.Record) ([]any, error) {
	fields := recordJSONFields(rec)
	cols := make([]any, 0, len(fields))
	for _, f := range fields {
		b, err := json.Marshal(f.v)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s: %w", f.name, err)
		}
		cols = append(cols, string(b))
	}
	return cols, nil
}

// recordColumns carries one row's raw column values before JSON decoding.
type recordColumns struct {
	rec  domain.Record
	json [12]string
}

// dests returns scan destinations in selectRecordColumns order.
func (c *recordColumns) dests() []any {
	dests := []any{
		&c.rec.ID, &c.rec.Subject, &c.rec.Sender, &c.rec.Date,
		&c.rec.MessageID, &c.rec.PRTitle, &c.rec.Body,
	}
	for i := range c.json {
		dests = append(dests, &c.json[i])
	}
	return dests
}

// decode unmarshals the JSON columns into the scanned record.
func (c *recordColumns) decode() (*domain.Record, error) {
	rec := c.rec
	for i, f := range recordJSONFields(&rec) {
		if c.json[i] == "" {
			continue
		}
		if err := json.Unmarshal([]byte(c.json[i]), f.v); err != nil {
			return nil, fmt.Errorf("unmarshaling %s: %w", f.name, err)
		}
	}
	return &rec, nil
}

// scanRecordRow scans a single record row.
func scanRecordRow(row *sql.Row) (*domain.Record, error) {
	var c recordColumns
	if err := row.Scan(c.dests()...); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return c.decode()
}

// scanRecordRows scans a record from *sql.Rows.
func scanRecordRows(rows *sql.Rows) (*domain.Record, error) {
	var c recordColumns
	if err := rows.Scan(c.dests()...); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}
	return c.decode()
}
