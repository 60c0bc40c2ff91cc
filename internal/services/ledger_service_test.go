package services

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"debiti/internal/core"
	"debiti/internal/query"
	"debiti/internal/storage"
)

func newTestService(t *testing.T) *LedgerService {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "debiti.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	svc := NewLedgerService(repo)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestCreatePersonAssignsID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePerson(ctx, core.Person{Name: "Luca"})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	if p.ID == "" {
		t.Fatal("expected assigned ID")
	}

	got, err := svc.GetPerson(ctx, p.ID)
	if err != nil {
		t.Fatalf("get person: %v", err)
	}
	if got.Name != "Luca" {
		t.Fatalf("got %+v", got)
	}
}

func TestCreatePersonRejectsInvalid(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.CreatePerson(context.Background(), core.Person{Name: " "}); !errors.Is(err, core.ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestCreateTransactionRequiresExistingPerson(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.CreateTransaction(context.Background(), core.Transaction{
		PersonID:        "ghost",
		Amount:          100,
		TransactionDate: core.NewDate(2024, 1, 1),
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestComputeInterestCalculator(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p, err := svc.CreatePerson(ctx, core.Person{Name: "Luca"})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	tx, err := svc.CreateTransaction(ctx, core.Transaction{
		PersonID:        p.ID,
		Amount:          1000,
		TransactionDate: core.NewDate(2024, 1, 1),
		ApplyInterest:   true,
		InterestType:    core.InterestSimple,
		InterestRate:    10,
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	b, err := svc.ComputeInterest(ctx, tx.ID, core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatalf("compute interest: %v", err)
	}
	if b.Simple.DaysElapsed != 366 {
		t.Fatalf("expected 366 days, got %d", b.Simple.DaysElapsed)
	}
	if math.Abs(b.Simple.InterestAmount-100.27) > 0.01 {
		t.Fatalf("simple interest = %v, want about 100.27", b.Simple.InterestAmount)
	}
	if b.Compound.InterestAmount < b.Simple.InterestAmount {
		t.Fatalf("compound %v below simple %v", b.Compound.InterestAmount, b.Simple.InterestAmount)
	}
}

func TestBuildOverview(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	luca, err := svc.CreatePerson(ctx, core.Person{Name: "Luca"})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}
	sara, err := svc.CreatePerson(ctx, core.Person{Name: "Sara"})
	if err != nil {
		t.Fatalf("create person: %v", err)
	}

	if _, err := svc.CreateTransaction(ctx, core.Transaction{
		PersonID:        luca.ID,
		Amount:          1000,
		TransactionDate: core.NewDate(2024, 1, 1),
		ApplyInterest:   true,
		InterestType:    core.InterestSimple,
		InterestRate:    10,
	}); err != nil {
		t.Fatalf("create tx: %v", err)
	}
	if _, err := svc.CreateTransaction(ctx, core.Transaction{
		PersonID:        sara.ID,
		Amount:          400,
		IsMoneyReceived: true,
		TransactionDate: core.NewDate(2024, 6, 1),
	}); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	ov, err := svc.BuildOverview(ctx, query.TransactionQuery{}, core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatalf("build overview: %v", err)
	}

	if ov.Summary.TransactionCount != 2 {
		t.Fatalf("count = %d, want 2", ov.Summary.TransactionCount)
	}
	if math.Abs(ov.Summary.TotalPrincipal-(-600)) > 1e-9 {
		t.Fatalf("principal = %v, want -600", ov.Summary.TotalPrincipal)
	}
	if len(ov.ByPerson) != 2 {
		t.Fatalf("expected 2 person partitions, got %d", len(ov.ByPerson))
	}

	var sum float64
	for _, ps := range ov.ByPerson {
		if ps.Name == "" {
			t.Fatalf("partition %s missing name", ps.PersonID)
		}
		sum += ps.TotalPrincipal
	}
	if math.Abs(sum-ov.Summary.TotalPrincipal) > 1e-9 {
		t.Fatalf("partition principals %v != global %v", sum, ov.Summary.TotalPrincipal)
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	svc := newTestService(t)
	ov, err := svc.BuildOverview(context.Background(), query.TransactionQuery{}, core.NewDate(2025, 1, 1))
	if err != nil {
		t.Fatalf("build overview: %v", err)
	}
	if ov.Summary.TransactionCount != 0 || ov.Summary.TotalPrincipal != 0 {
		t.Fatalf("expected zero summary, got %+v", ov.Summary)
	}
	if len(ov.ByPerson) != 0 {
		t.Fatalf("expected no partitions, got %+v", ov.ByPerson)
	}
}
