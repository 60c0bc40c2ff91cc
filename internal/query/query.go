// Package query defines the parameter contract that selects and orders
// the transaction set feeding list views and aggregation. Apply is the
// canonical semantics; the storage layer may narrow with SQL but
// delegates the final word to this package so there is a single source
// of truth.
package query

import (
	"sort"
	"strconv"
	"strings"

	"debiti/internal/core"
)

const (
	SortByDate        = "transactionDate"
	SortByAmount      = "amount"
	SortByDescription = "description"
	SortByCategory    = "category"

	ASC  = "ASC"
	DESC = "DESC"
)

// TransactionQuery holds the optional filters plus sort and pagination
// parameters. Pointer fields are tri-state: nil means "not filtered".
type TransactionQuery struct {
	SortBy    string
	SortOrder string

	PersonID string
	Search   string
	Category string

	StartDate core.Date // inclusive
	EndDate   core.Date // inclusive

	IsMoneyReceived *bool
	IsSettled       *bool
	ApplyInterest   *bool
	InterestType    core.InterestType // only meaningful with ApplyInterest

	Limit  int // 0 means no limit
	Offset int
}

// Normalized returns a copy with defaults filled in: sort by
// transaction date, newest first.
func (q TransactionQuery) Normalized() TransactionQuery {
	if q.SortBy == "" {
		q.SortBy = SortByDate
	}
	if q.SortOrder != ASC {
		q.SortOrder = DESC
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit < 0 {
		q.Limit = 0
	}
	return q
}

// Matches reports whether tx passes every filter set on the query.
func (q TransactionQuery) Matches(tx core.Transaction) bool {
	if q.PersonID != "" && tx.PersonID != q.PersonID {
		return false
	}
	if q.Category != "" && tx.Category != q.Category {
		return false
	}
	if !q.StartDate.IsEmpty() && tx.TransactionDate.Before(q.StartDate.Time) {
		return false
	}
	if !q.EndDate.IsEmpty() && tx.TransactionDate.After(q.EndDate.Time) {
		return false
	}
	if q.IsMoneyReceived != nil && tx.IsMoneyReceived != *q.IsMoneyReceived {
		return false
	}
	if q.IsSettled != nil && tx.IsSettled != *q.IsSettled {
		return false
	}
	if q.ApplyInterest != nil && tx.ApplyInterest != *q.ApplyInterest {
		return false
	}
	if q.InterestType != "" && tx.InterestType != q.InterestType {
		return false
	}
	if q.Search != "" && !matchesSearch(tx, q.Search) {
		return false
	}
	return true
}

// Apply filters, sorts and paginates. The input slice is never
// mutated: callers can hand over a live snapshot safely.
func (q TransactionQuery) Apply(txs []core.Transaction) []core.Transaction {
	q = q.Normalized()

	out := make([]core.Transaction, 0, len(txs))
	for _, tx := range txs {
		if q.Matches(tx) {
			out = append(out, tx)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return q.less(out[i], out[j])
	})

	if q.Offset >= len(out) {
		return []core.Transaction{}
	}
	out = out[q.Offset:]
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out
}

// less orders by the requested key with ties broken by ID ascending,
// regardless of sort direction, so identical rows never swap places
// between requests.
func (q TransactionQuery) less(a, b core.Transaction) bool {
	cmp := q.compareKey(a, b)
	if cmp == 0 {
		return a.ID < b.ID
	}
	if q.SortOrder == ASC {
		return cmp < 0
	}
	return cmp > 0
}

func (q TransactionQuery) compareKey(a, b core.Transaction) int {
	switch q.SortBy {
	case SortByAmount:
		switch {
		case a.Amount < b.Amount:
			return -1
		case a.Amount > b.Amount:
			return 1
		}
		return 0
	case SortByDescription:
		return strings.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
	case SortByCategory:
		return strings.Compare(strings.ToLower(a.Category), strings.ToLower(b.Category))
	default:
		return a.TransactionDate.Compare(b.TransactionDate.Time)
	}
}

// matchesSearch does case-insensitive substring matching over the
// description and the amount rendered as text.
func matchesSearch(tx core.Transaction, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(tx.Description), needle) {
		return true
	}
	amount := strconv.FormatFloat(tx.Amount, 'f', -1, 64)
	return strings.Contains(amount, needle)
}
