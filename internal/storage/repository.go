package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRepository persists transactions and goals in a SQLite file.
type SQLiteRepository struct {
	db     *sql.DB
	logger *log.Logger
	now    func() time.Time
}

func NewSQLiteRepository(dbPath string, logger *log.Logger) (*SQLiteRepository, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer at a time; SQLite serialises writes anyway.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:     db,
		logger: logger.WithComponent(log.ComponentStorage),
		now:    time.Now,
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) SaveTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{ID: uuid.NewString(), TransactionDraft: d, CreatedAt: r.now().UTC()}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (id, amount, direction, merchant, description, category, subcategory,
			confidence, txn_date, last_four_digits, raw_text, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Amount.String(), string(t.Direction), t.Merchant, t.Description, t.Category, t.Subcategory,
		t.Confidence, t.Date.String(), t.LastFourDigits, t.RawText, t.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	r.logger.DebugContext(ctx, "Transaction saved",
		log.NewFields().WithOperation(log.OpCreate).
			WithTransaction(t.ID, t.Amount.String(), string(t.Direction), t.Merchant, t.Category).ToSlice()...)
	return t, nil
}

func (r *SQLiteRepository) ListTransactions(ctx context.Context, from, to core.Date) ([]core.Transaction, error) {
	var (
		where []string
		args  []any
	)
	if !from.IsZero() {
		where = append(where, "txn_date >= ?")
		args = append(args, from.String())
	}
	if !to.IsZero() {
		where = append(where, "txn_date <= ?")
		args = append(args, to.String())
	}
	q := `SELECT id, amount, direction, merchant, description, category, subcategory,
		confidence, txn_date, last_four_digits, raw_text, created_at FROM transactions`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY txn_date, rowid"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.SavingsGoal) (core.SavingsGoal, error) {
	if err := g.Validate(); err != nil {
		return core.SavingsGoal{}, err
	}
	g.ID = uuid.NewString()
	g.CreatedAt = r.now().UTC()
	g.CurrentAmount = decimal.Min(g.CurrentAmount, g.TargetAmount)

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO goals (id, name, target_amount, current_amount, deadline, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID, g.Name, g.TargetAmount.String(), g.CurrentAmount.String(), g.Deadline.String(),
		g.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("insert goal: %w", err)
	}

	r.logger.InfoContext(ctx, "Goal created", log.FieldGoalID, g.ID, log.FieldAmount, g.TargetAmount.String())
	return g, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.SavingsGoal, error) {
	return getGoal(ctx, r.db, id)
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SavingsGoal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, current_amount, deadline, created_at FROM goals ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var out []core.SavingsGoal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) AddContribution(ctx context.Context, id string, amount decimal.Decimal) (core.SavingsGoal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.SavingsGoal{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	g, err := getGoal(ctx, tx, id)
	if err != nil {
		return core.SavingsGoal{}, err
	}
	if err := g.AddContribution(amount); err != nil {
		return core.SavingsGoal{}, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE goals SET current_amount = ? WHERE id = ?`,
		g.CurrentAmount.String(), id); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("update goal: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("commit contribution: %w", err)
	}

	r.logger.InfoContext(ctx, "Contribution recorded",
		log.FieldOperation, log.OpContribute,
		log.FieldGoalID, id,
		log.FieldAmount, amount.String())
	return g, nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

func getGoal(ctx context.Context, q queryer, id string) (core.SavingsGoal, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, target_amount, current_amount, deadline, created_at FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SavingsGoal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return g, err
}

func scanTransaction(s scanner) (core.Transaction, error) {
	var (
		t                        core.Transaction
		amount, dir, date, added string
	)
	if err := s.Scan(&t.ID, &amount, &dir, &t.Merchant, &t.Description, &t.Category, &t.Subcategory,
		&t.Confidence, &date, &t.LastFourDigits, &t.RawText, &added); err != nil {
		return core.Transaction{}, fmt.Errorf("scan transaction: %w", err)
	}
	var err error
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return core.Transaction{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	t.Direction = core.Direction(dir)
	if t.Date, err = core.ParseDate(date); err != nil {
		return core.Transaction{}, fmt.Errorf("parse date %q: %w", date, err)
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, added); err != nil {
		return core.Transaction{}, fmt.Errorf("parse created_at %q: %w", added, err)
	}
	return t, nil
}

func scanGoal(s scanner) (core.SavingsGoal, error) {
	var (
		g                                 core.SavingsGoal
		target, current, deadline, added string
	)
	if err := s.Scan(&g.ID, &g.Name, &target, &current, &deadline, &added); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.SavingsGoal{}, err
		}
		return core.SavingsGoal{}, fmt.Errorf("scan goal: %w", err)
	}
	var err error
	if g.TargetAmount, err = decimal.NewFromString(target); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse target amount %q: %w", target, err)
	}
	if g.CurrentAmount, err = decimal.NewFromString(current); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse current amount %q: %w", current, err)
	}
	if g.Deadline, err = core.ParseDate(deadline); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse deadline %q: %w", deadline, err)
	}
	if g.CreatedAt, err = time.Parse(time.RFC3339Nano, added); err != nil {
		return core.SavingsGoal{}, fmt.Errorf("parse created_at %q: %w", added, err)
	}
	return g, nil
}
