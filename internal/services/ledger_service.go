// Package services provides business logic and orchestration on top of
// the storage layer and the pure interest/aggregation engines.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"debiti/internal/aggregate"
	"debiti/internal/core"
	"debiti/internal/interest"
	"debiti/internal/query"
	"debiti/internal/storage"
)

// Overview is the dashboard view: global totals plus one partition per
// counterparty, ordered by first appearance in the selected set.
type Overview struct {
	AsOf     core.Date
	Summary  aggregate.Summary
	ByPerson []PersonOverview
}

// PersonOverview pairs a per-person summary with the person's name for
// display.
type PersonOverview struct {
	PersonID string
	Name     string
	aggregate.Summary
}

// LedgerService orchestrates ledger operations across storage and the
// interest engines.
type LedgerService struct {
	store *storage.SQLiteRepository
}

func NewLedgerService(store *storage.SQLiteRepository) *LedgerService {
	return &LedgerService{store: store}
}

// CreatePerson validates and stores a new counterparty, assigning its ID.
func (s *LedgerService) CreatePerson(ctx context.Context, p core.Person) (core.Person, error) {
	p.ID = uuid.NewString()
	if err := p.Validate(); err != nil {
		return core.Person{}, fmt.Errorf("validate person: %w", err)
	}
	if err := s.store.CreatePerson(ctx, p); err != nil {
		return core.Person{}, err
	}
	return p, nil
}

func (s *LedgerService) GetPerson(ctx context.Context, id string) (core.Person, error) {
	return s.store.FetchPerson(ctx, id)
}

func (s *LedgerService) ListPeople(ctx context.Context, search, sortBy, sortOrder string) ([]core.Person, error) {
	return s.store.FetchPeople(ctx, search, sortBy, sortOrder)
}

func (s *LedgerService) UpdatePerson(ctx context.Context, p core.Person) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("validate person: %w", err)
	}
	return s.store.UpdatePerson(ctx, p)
}

// DeletePerson removes a counterparty. The store refuses while any
// transaction still references the person.
func (s *LedgerService) DeletePerson(ctx context.Context, id string) error {
	return s.store.DeletePerson(ctx, id)
}

// CreateTransaction validates and stores a transaction, assigning its
// ID. The referenced person must exist.
func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	tx.ID = uuid.NewString()
	if tx.InterestType == "" {
		tx.InterestType = core.InterestNone
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("validate transaction: %w", err)
	}
	if _, err := s.store.FetchPerson(ctx, tx.PersonID); err != nil {
		return core.Transaction{}, fmt.Errorf("transaction person: %w", err)
	}
	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return core.Transaction{}, err
	}
	return tx, nil
}

func (s *LedgerService) GetTransaction(ctx context.Context, id string) (core.Transaction, error) {
	return s.store.FetchTransaction(ctx, id)
}

func (s *LedgerService) ListTransactions(ctx context.Context, q query.TransactionQuery) ([]core.Transaction, error) {
	return s.store.FetchTransactions(ctx, q)
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if tx.InterestType == "" {
		tx.InterestType = core.InterestNone
	}
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("validate transaction: %w", err)
	}
	return s.store.UpdateTransaction(ctx, tx)
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// ComputeInterest evaluates both interest figures for one transaction.
// A zero asOf means today.
func (s *LedgerService) ComputeInterest(ctx context.Context, transactionID string, asOf core.Date) (interest.Breakdown, error) {
	tx, err := s.store.FetchTransaction(ctx, transactionID)
	if err != nil {
		return interest.Breakdown{}, err
	}
	if asOf.IsEmpty() {
		asOf = core.DateOf(time.Now())
	}
	return interest.Compute(tx, asOf)
}

// BuildOverview fetches people and the selected transaction set
// concurrently, then folds the fully materialized snapshot. The fold
// itself never runs against a collection that is still being fetched.
func (s *LedgerService) BuildOverview(ctx context.Context, q query.TransactionQuery, asOf core.Date) (Overview, error) {
	if asOf.IsEmpty() {
		asOf = core.DateOf(time.Now())
	}

	var (
		people []core.Person
		txs    []core.Transaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		people, err = s.store.FetchPeople(gctx, "", "", "")
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.store.FetchTransactions(gctx, q)
		return err
	})
	if err := g.Wait(); err != nil {
		return Overview{}, fmt.Errorf("fetch overview data: %w", err)
	}

	summary, err := aggregate.Summarize(txs, asOf)
	if err != nil {
		return Overview{}, fmt.Errorf("summarize: %w", err)
	}
	byPerson, err := aggregate.SummarizeByPerson(txs, asOf)
	if err != nil {
		return Overview{}, fmt.Errorf("summarize by person: %w", err)
	}

	names := make(map[string]string, len(people))
	for _, p := range people {
		names[p.ID] = p.Name
	}

	out := Overview{AsOf: asOf, Summary: summary}
	for _, ps := range byPerson {
		out.ByPerson = append(out.ByPerson, PersonOverview{
			PersonID: ps.PersonID,
			Name:     names[ps.PersonID],
			Summary:  ps.Summary,
		})
	}

	slog.DebugContext(ctx, "Overview computed",
		"as_of", asOf.ISO(),
		"transaction_count", summary.TransactionCount,
		"people", len(out.ByPerson))
	return out, nil
}

// Close releases the underlying storage.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
