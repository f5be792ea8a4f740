package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"staffquiz-server-go/models"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists
	ErrEmailTaken = errors.New("email already registered")
	// ErrStaffNotFound is returned when no staff row matches the lookup
	ErrStaffNotFound = errors.New("staff member not found")
)

// Store handles operations with the SQLite database holding staff accounts
// and the question bank
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenStore opens (creating if needed) the SQLite database at path and
// ensures the schema exists
func OpenStore(path string, logger *zap.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("database path cannot be empty")
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	store := &Store{db: sqlDB, logger: logger}
	if err := store.initSchema(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	// staff_id is assigned from the rowid after insert, so it stays NULL for
	// the duration of the registration transaction. SQLite UNIQUE permits
	// multiple NULLs.
	statements := []string{
		`CREATE TABLE IF NOT EXISTS staff (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			staff_id TEXT UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			question TEXT NOT NULL,
			option1 TEXT NOT NULL,
			option2 TEXT NOT NULL,
			option3 TEXT NOT NULL,
			option4 TEXT NOT NULL,
			answer INTEGER NOT NULL CHECK (answer BETWEEN 1 AND 4)
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// --- Staff Operations ---

// CreateStaff registers a new staff member with the given email and bcrypt
// password hash, assigning the next sequential staff id. Returns
// ErrEmailTaken if the email is already registered.
func (s *Store) CreateStaff(ctx context.Context, email, passwordHash string) (*models.Staff, error) {
	if email == "" || passwordHash == "" {
		return nil, errors.New("email and password hash cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO staff (email, password_hash) VALUES (?, ?)`,
		email, passwordHash)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: staff.email") {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to insert staff row: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted staff id: %w", err)
	}

	// The AUTOINCREMENT rowid is strictly increasing even after deletions,
	// so the derived staff id cannot collide under concurrent registrations.
	staffID := fmt.Sprintf("SID%05d", id)
	if _, err := tx.ExecContext(ctx,
		`UPDATE staff SET staff_id = ? WHERE id = ?`, staffID, id); err != nil {
		return nil, fmt.Errorf("failed to assign staff id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	s.logger.Info("registered staff member",
		zap.String("staffId", staffID), zap.String("email", email))

	return &models.Staff{
		ID:           id,
		StaffID:      staffID,
		Email:        email,
		PasswordHash: passwordHash,
	}, nil
}

// GetStaffByIdentifier looks up a staff member by email or public staff id
func (s *Store) GetStaffByIdentifier(ctx context.Context, identifier string) (*models.Staff, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, staff_id, email, password_hash FROM staff
		 WHERE email = ?1 OR staff_id = ?1`, identifier)
	return scanStaff(row)
}

// GetStaffByID looks up a staff member by internal database id
func (s *Store) GetStaffByID(ctx context.Context, id int64) (*models.Staff, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, staff_id, email, password_hash FROM staff WHERE id = ?`, id)
	return scanStaff(row)
}

// CountStaff returns the number of registered staff members
func (s *Store) CountStaff(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM staff`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count staff: %w", err)
	}
	return count, nil
}

func scanStaff(row *sql.Row) (*models.Staff, error) {
	var staff models.Staff
	err := row.Scan(&staff.ID, &staff.StaffID, &staff.Email, &staff.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan staff row: %w", err)
	}
	return &staff, nil
}

// --- Question Operations ---

// CountQuestions returns the number of questions in the bank
func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	return count, nil
}

// SeedQuestions inserts the given questions iff the bank is empty, making
// repeated seeding a no-op. Returns the number of rows inserted.
func (s *Store) SeedQuestions(ctx context.Context, questions []models.Question) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count questions: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	inserted := 0
	for _, q := range questions {
		if q.Answer < 1 || q.Answer > 4 {
			return 0, fmt.Errorf("question %q has answer %d outside 1-4", q.Question, q.Answer)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO questions (question, option1, option2, option3, option4, answer)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			q.Question, q.Options[0], q.Options[1], q.Options[2], q.Options[3], q.Answer); err != nil {
			return 0, fmt.Errorf("failed to insert question %q: %w", q.Question, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit seed: %w", err)
	}
	return inserted, nil
}

// Questions returns every question in the bank in stable id order
func (s *Store) Questions(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, option1, option2, option3, option4, answer
		 FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Question,
			&q.Options[0], &q.Options[1], &q.Options[2], &q.Options[3],
			&q.Answer); err != nil {
			return nil, fmt.Errorf("failed to scan question row: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate question rows: %w", err)
	}
	return questions, nil
}

// CorrectAnswers returns the correct option index of every question, in the
// same stable id order used by Questions
func (s *Store) CorrectAnswers(ctx context.Context) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT answer FROM questions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query answers: %w", err)
	}
	defer rows.Close()

	var answers []int
	for rows.Next() {
		var answer int
		if err := rows.Scan(&answer); err != nil {
			return nil, fmt.Errorf("failed to scan answer row: %w", err)
		}
		answers = append(answers, answer)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate answer rows: %w", err)
	}
	return answers, nil
}

// DefaultQuestions returns the built-in five-question bank used when no
// workbook is configured
func DefaultQuestions() []models.Question {
	return []models.Question{
		{
			Question: "What is the capital of India?",
			Options:  [4]string{"Delhi", "Mumbai", "Chennai", "Kolkata"},
			Answer:   1,
		},
		{
			Question: "Who is the first president of the USA?",
			Options:  [4]string{"George Washington", "Thomas Jefferson", "John Adams", "James Madison"},
			Answer:   1,
		},
		{
			Question: "What glass is the Jungle babe made with?",
			Options:  [4]string{"Hurricane glass", "Goblet glass", "Balloon glass", "Tall Glass"},
			Answer:   1,
		},
		{
			Question: "How much premix does the jungle babe require?",
			Options:  [4]string{"65ml Premix", "125ml Premix", "55ml Premix", "75ml premix"},
			Answer:   3,
		},
		{
			Question: "What glass does a Mauis highland use??",
			Options:  [4]string{"Coupette", "Ballon Glass", "Skull glass", "Zombie Glass"},
			Answer:   2,
		},
	}
}
