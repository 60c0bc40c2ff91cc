// Package aggregate folds a transaction set into interest and principal
// summaries, globally and partitioned by person. The fold is pure: same
// input and as-of date, same output, always recomputed from the live
// transaction set so there is no cache that could go stale.
package aggregate

import (
	"debiti/internal/core"
	"debiti/internal/interest"
)

// Summary is the rolled-up balance of a transaction set as of a date.
// Principal sums ALL transactions with their direction sign applied,
// not only interest-bearing ones, so it reflects the net balance.
type Summary struct {
	TotalPrincipal            float64
	TotalSimpleInterest       float64
	TotalWithSimpleInterest   float64
	TotalCompoundInterest     float64
	TotalWithCompoundInterest float64
	TransactionCount          int
}

// PersonSummary is one person's partition of the fold.
type PersonSummary struct {
	PersonID string
	Summary
}

// Summarize folds transactions into a single Summary as of asOf.
// Interest-bearing transactions contribute both a simple and a compound
// figure, signed like their principal. Empty input yields a zero
// Summary, never an error.
func Summarize(txs []core.Transaction, asOf core.Date) (Summary, error) {
	var s Summary
	for _, tx := range txs {
		if err := accumulate(&s, tx, asOf); err != nil {
			return Summary{}, err
		}
	}
	finalize(&s)
	return s, nil
}

// SummarizeByPerson runs the same fold partitioned by PersonID. The
// result is ordered by each person's first appearance in the input,
// which keeps display order stable across requests.
func SummarizeByPerson(txs []core.Transaction, asOf core.Date) ([]PersonSummary, error) {
	index := make(map[string]int)
	var out []PersonSummary

	for _, tx := range txs {
		i, ok := index[tx.PersonID]
		if !ok {
			i = len(out)
			index[tx.PersonID] = i
			out = append(out, PersonSummary{PersonID: tx.PersonID})
		}
		if err := accumulate(&out[i].Summary, tx, asOf); err != nil {
			return nil, err
		}
	}
	for i := range out {
		finalize(&out[i].Summary)
	}
	return out, nil
}

func accumulate(s *Summary, tx core.Transaction, asOf core.Date) error {
	s.TotalPrincipal += tx.SignedAmount()
	s.TransactionCount++

	if !tx.ApplyInterest {
		return nil
	}
	b, err := interest.Compute(tx, asOf)
	if err != nil {
		return err
	}
	s.TotalSimpleInterest += tx.Sign() * b.Simple.InterestAmount
	s.TotalCompoundInterest += tx.Sign() * b.Compound.InterestAmount
	return nil
}

func finalize(s *Summary) {
	s.TotalWithSimpleInterest = s.TotalPrincipal + s.TotalSimpleInterest
	s.TotalWithCompoundInterest = s.TotalPrincipal + s.TotalCompoundInterest
}
