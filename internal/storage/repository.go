// Package storage implements the data-access layer over SQLite. It is
// the only component that touches persistence: the engines above it
// receive fully materialized transaction snapshots and never see the
// database.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"debiti/internal/core"
	"debiti/internal/query"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// CreatePerson inserts a counterparty.
func (r *SQLiteRepository) CreatePerson(ctx context.Context, p core.Person) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO people (id, name, email, phone, notes) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Email, p.Phone, p.Notes)
	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}

	slog.InfoContext(ctx, "Person saved", "person_id", p.ID, "name", p.Name)
	return nil
}

// FetchPerson returns one counterparty, or core.ErrNotFound.
func (r *SQLiteRepository) FetchPerson(ctx context.Context, id string) (core.Person, error) {
	var p core.Person
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, email, phone, notes FROM people WHERE id = ?`, id).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Notes)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Person{}, fmt.Errorf("fetch person %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Person{}, fmt.Errorf("fetch person: %w", err)
	}
	return p, nil
}

// FetchPeople lists counterparties, optionally narrowed by a
// case-insensitive name search, sorted by name or creation time.
func (r *SQLiteRepository) FetchPeople(ctx context.Context, search, sortBy, sortOrder string) ([]core.Person, error) {
	q := `SELECT id, name, email, phone, notes FROM people`
	var args []any
	if s := strings.TrimSpace(search); s != "" {
		q += ` WHERE lower(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(s)+"%")
	}

	column := "name"
	if sortBy == "createdAt" {
		column = "created_at"
	}
	direction := "ASC"
	if strings.EqualFold(sortOrder, "DESC") {
		direction = "DESC"
	}
	q += fmt.Sprintf(` ORDER BY %s %s, id ASC`, column, direction)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch people: %w", err)
	}
	defer rows.Close()

	var people []core.Person
	for rows.Next() {
		var p core.Person
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.Notes); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

// UpdatePerson rewrites the mutable person fields.
func (r *SQLiteRepository) UpdatePerson(ctx context.Context, p core.Person) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE people SET name = ?, email = ?, phone = ?, notes = ? WHERE id = ?`,
		p.Name, p.Email, p.Phone, p.Notes, p.ID)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}
	return checkAffected(res, p.ID)
}

// DeletePerson removes a counterparty. A person still referenced by
// transactions cannot be deleted; callers get
// core.ErrPersonHasTransactions instead of a dangling foreign key.
func (r *SQLiteRepository) DeletePerson(ctx context.Context, id string) error {
	var refs int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE person_id = ?`, id).Scan(&refs)
	if err != nil {
		return fmt.Errorf("count person transactions: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("delete person %s (%d transactions): %w", id, refs, core.ErrPersonHasTransactions)
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if err := checkAffected(res, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Person deleted", "person_id", id)
	return nil
}

const transactionColumns = `id, person_id, amount, is_money_received, transaction_date,
	description, category, payment_method, is_settled, reminder_date, reminder_sent,
	apply_interest, interest_type, interest_rate, compound_frequency`

// CreateTransaction inserts a validated transaction.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, tx core.Transaction) error {
	var reminder any
	if !tx.ReminderDate.IsEmpty() {
		reminder = tx.ReminderDate.ISO()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, tx.PersonID, tx.Amount, tx.IsMoneyReceived, tx.TransactionDate.ISO(),
		tx.Description, tx.Category, tx.PaymentMethod, tx.IsSettled, reminder, tx.ReminderSent,
		tx.ApplyInterest, string(tx.InterestType), tx.InterestRate, tx.CompoundFreq)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"transaction_id", tx.ID,
		"person_id", tx.PersonID,
		"amount", tx.Amount,
		"money_received", tx.IsMoneyReceived)
	return nil
}

// FetchTransaction returns one transaction, or core.ErrNotFound.
func (r *SQLiteRepository) FetchTransaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("fetch transaction %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("fetch transaction: %w", err)
	}
	return tx, nil
}

// FetchTransactions selects the transaction set for a query. Cheap
// equality and range predicates narrow in SQL; the query package then
// applies the canonical filter/sort/pagination semantics, so SQL and
// in-memory behavior can never diverge.
func (r *SQLiteRepository) FetchTransactions(ctx context.Context, q query.TransactionQuery) ([]core.Transaction, error) {
	sqlQuery := `SELECT ` + transactionColumns + ` FROM transactions`
	var clauses []string
	var args []any

	if q.PersonID != "" {
		clauses = append(clauses, "person_id = ?")
		args = append(args, q.PersonID)
	}
	if q.Category != "" {
		clauses = append(clauses, "category = ?")
		args = append(args, q.Category)
	}
	if !q.StartDate.IsEmpty() {
		clauses = append(clauses, "transaction_date >= ?")
		args = append(args, q.StartDate.ISO())
	}
	if !q.EndDate.IsEmpty() {
		clauses = append(clauses, "transaction_date <= ?")
		args = append(args, q.EndDate.ISO())
	}
	if q.IsMoneyReceived != nil {
		clauses = append(clauses, "is_money_received = ?")
		args = append(args, *q.IsMoneyReceived)
	}
	if q.IsSettled != nil {
		clauses = append(clauses, "is_settled = ?")
		args = append(args, *q.IsSettled)
	}
	if q.ApplyInterest != nil {
		clauses = append(clauses, "apply_interest = ?")
		args = append(args, *q.ApplyInterest)
	}
	if len(clauses) > 0 {
		sqlQuery += " WHERE " + strings.Join(clauses, " AND ")
	}

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	return q.Apply(txs), nil
}

// UpdateTransaction rewrites the mutable transaction fields.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	var reminder any
	if !tx.ReminderDate.IsEmpty() {
		reminder = tx.ReminderDate.ISO()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET person_id = ?, amount = ?, is_money_received = ?,
		 transaction_date = ?, description = ?, category = ?, payment_method = ?,
		 is_settled = ?, reminder_date = ?, reminder_sent = ?, apply_interest = ?,
		 interest_type = ?, interest_rate = ?, compound_frequency = ?
		 WHERE id = ?`,
		tx.PersonID, tx.Amount, tx.IsMoneyReceived,
		tx.TransactionDate.ISO(), tx.Description, tx.Category, tx.PaymentMethod,
		tx.IsSettled, reminder, tx.ReminderSent, tx.ApplyInterest,
		string(tx.InterestType), tx.InterestRate, tx.CompoundFreq, tx.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return checkAffected(res, tx.ID)
}

// DeleteTransaction removes a transaction.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if err := checkAffected(res, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Transaction deleted", "transaction_id", id)
	return nil
}

// DueReminders returns unsettled transactions whose reminder date has
// arrived and has not been notified yet.
func (r *SQLiteRepository) DueReminders(ctx context.Context, today core.Date, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE reminder_date IS NOT NULL AND reminder_date <= ?
		   AND reminder_sent = 0 AND is_settled = 0
		 ORDER BY reminder_date ASC, id ASC
		 LIMIT ?`,
		today.ISO(), limit)
	if err != nil {
		return nil, fmt.Errorf("fetch due reminders: %w", err)
	}
	defer rows.Close()

	var txs []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan due reminder: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// MarkReminderSent records that a reminder notification went out.
func (r *SQLiteRepository) MarkReminderSent(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET reminder_sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	if err := checkAffected(res, id); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Reminder marked as sent", "transaction_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var (
		tx           core.Transaction
		date         string
		reminder     sql.NullString
		interestType string
	)
	err := row.Scan(&tx.ID, &tx.PersonID, &tx.Amount, &tx.IsMoneyReceived, &date,
		&tx.Description, &tx.Category, &tx.PaymentMethod, &tx.IsSettled, &reminder, &tx.ReminderSent,
		&tx.ApplyInterest, &interestType, &tx.InterestRate, &tx.CompoundFreq)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.TransactionDate, err = parseISODate(date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", tx.ID, err)
	}
	if reminder.Valid {
		tx.ReminderDate, err = parseISODate(reminder.String)
		if err != nil {
			return core.Transaction{}, fmt.Errorf("transaction %s reminder: %w", tx.ID, err)
		}
	}
	tx.InterestType = core.InterestType(interestType)
	return tx, nil
}

func parseISODate(s string) (core.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return core.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return core.Date{Time: t}, nil
}

func checkAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", id, core.ErrNotFound)
	}
	return nil
}
