package http

import (
	"debiti/internal/aggregate"
	"debiti/internal/core"
	"debiti/internal/interest"
	"debiti/internal/services"
)

type personJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Notes string `json:"notes,omitempty"`
}

func toPersonJSON(p core.Person) personJSON {
	return personJSON{ID: p.ID, Name: p.Name, Email: p.Email, Phone: p.Phone, Notes: p.Notes}
}

func (j personJSON) toDomain() core.Person {
	return core.Person{
		ID:    j.ID,
		Name:  sanitizeInput(j.Name),
		Email: sanitizeInput(j.Email),
		Phone: sanitizeInput(j.Phone),
		Notes: sanitizeInput(j.Notes),
	}
}

type transactionJSON struct {
	ID              string  `json:"id"`
	PersonID        string  `json:"person_id"`
	Amount          float64 `json:"amount"`
	IsMoneyReceived bool    `json:"is_money_received"`
	TransactionDate string  `json:"transaction_date"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	PaymentMethod   string  `json:"payment_method,omitempty"`
	IsSettled       bool    `json:"is_settled"`
	ReminderDate    string  `json:"reminder_date,omitempty"`
	ApplyInterest   bool    `json:"apply_interest"`
	InterestType    string  `json:"interest_type"`
	InterestRate    float64 `json:"interest_rate"`
	CompoundFreq    int     `json:"compound_frequency,omitempty"`
}

func toTransactionJSON(tx core.Transaction) transactionJSON {
	out := transactionJSON{
		ID:              tx.ID,
		PersonID:        tx.PersonID,
		Amount:          tx.Amount,
		IsMoneyReceived: tx.IsMoneyReceived,
		TransactionDate: tx.TransactionDate.ISO(),
		Description:     tx.Description,
		Category:        tx.Category,
		PaymentMethod:   tx.PaymentMethod,
		IsSettled:       tx.IsSettled,
		ApplyInterest:   tx.ApplyInterest,
		InterestType:    string(tx.InterestType),
		InterestRate:    tx.InterestRate,
		CompoundFreq:    tx.CompoundFreq,
	}
	if !tx.ReminderDate.IsEmpty() {
		out.ReminderDate = tx.ReminderDate.ISO()
	}
	return out
}

func (j transactionJSON) toDomain() (core.Transaction, error) {
	tx := core.Transaction{
		ID:              j.ID,
		PersonID:        j.PersonID,
		Amount:          j.Amount,
		IsMoneyReceived: j.IsMoneyReceived,
		Description:     sanitizeInput(j.Description),
		Category:        sanitizeInput(j.Category),
		PaymentMethod:   sanitizeInput(j.PaymentMethod),
		IsSettled:       j.IsSettled,
		ApplyInterest:   j.ApplyInterest,
		InterestType:    core.InterestType(j.InterestType),
		InterestRate:    j.InterestRate,
		CompoundFreq:    j.CompoundFreq,
	}
	if j.InterestType == "" {
		tx.InterestType = core.InterestNone
	}

	date, err := parseDate(j.TransactionDate)
	if err != nil {
		return core.Transaction{}, core.ErrInvalidDate
	}
	tx.TransactionDate = date

	if j.ReminderDate != "" {
		reminder, err := parseDate(j.ReminderDate)
		if err != nil {
			return core.Transaction{}, core.ErrInvalidDate
		}
		tx.ReminderDate = reminder
	}
	return tx, nil
}

type interestResultJSON struct {
	Principal         float64 `json:"principal"`
	InterestAmount    float64 `json:"interest_amount"`
	TotalWithInterest float64 `json:"total_with_interest"`
	DaysElapsed       int     `json:"days_elapsed"`
	AsOf              string  `json:"as_of"`
}

type interestBreakdownJSON struct {
	Simple   interestResultJSON `json:"simple_interest"`
	Compound interestResultJSON `json:"compound_interest"`
}

func toInterestJSON(b interest.Breakdown) interestBreakdownJSON {
	return interestBreakdownJSON{
		Simple:   toInterestResultJSON(b.Simple),
		Compound: toInterestResultJSON(b.Compound),
	}
}

func toInterestResultJSON(r interest.Result) interestResultJSON {
	return interestResultJSON{
		Principal:         round2(r.Principal),
		InterestAmount:    round2(r.InterestAmount),
		TotalWithInterest: round2(r.TotalWithInterest),
		DaysElapsed:       r.DaysElapsed,
		AsOf:              r.AsOf.ISO(),
	}
}

type summaryJSON struct {
	TotalPrincipal            float64 `json:"total_principal"`
	TotalSimpleInterest       float64 `json:"total_simple_interest"`
	TotalWithSimpleInterest   float64 `json:"total_with_simple_interest"`
	TotalCompoundInterest     float64 `json:"total_compound_interest"`
	TotalWithCompoundInterest float64 `json:"total_with_compound_interest"`
	TransactionCount          int     `json:"transaction_count"`
}

func toSummaryJSON(s aggregate.Summary) summaryJSON {
	return summaryJSON{
		TotalPrincipal:            round2(s.TotalPrincipal),
		TotalSimpleInterest:       round2(s.TotalSimpleInterest),
		TotalWithSimpleInterest:   round2(s.TotalWithSimpleInterest),
		TotalCompoundInterest:     round2(s.TotalCompoundInterest),
		TotalWithCompoundInterest: round2(s.TotalWithCompoundInterest),
		TransactionCount:          s.TransactionCount,
	}
}

type personSummaryJSON struct {
	PersonID string `json:"person_id"`
	Name     string `json:"name,omitempty"`
	summaryJSON
}

type overviewJSON struct {
	AsOf     string              `json:"as_of"`
	Summary  summaryJSON         `json:"summary"`
	ByPerson []personSummaryJSON `json:"by_person,omitempty"`
}

func toOverviewJSON(o services.Overview) overviewJSON {
	out := overviewJSON{
		AsOf:    o.AsOf.ISO(),
		Summary: toSummaryJSON(o.Summary),
	}
	for _, ps := range o.ByPerson {
		out.ByPerson = append(out.ByPerson, personSummaryJSON{
			PersonID:    ps.PersonID,
			Name:        ps.Name,
			summaryJSON: toSummaryJSON(ps.Summary),
		})
	}
	return out
}
