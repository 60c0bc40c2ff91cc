package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"debiti/internal/core"
	"debiti/internal/query"
)

var allowedSortFields = map[string]bool{
	query.SortByDate:        true,
	query.SortByAmount:      true,
	query.SortByDescription: true,
	query.SortByCategory:    true,
}

// parseTransactionQuery builds a TransactionQuery from URL query
// parameters. Unknown parameters are ignored; malformed values are
// reported so the caller can answer 400 instead of silently dropping
// a filter.
func parseTransactionQuery(values url.Values) (query.TransactionQuery, error) {
	q := query.TransactionQuery{
		PersonID: sanitizeInput(values.Get("person_id")),
		Search:   sanitizeInput(values.Get("search")),
		Category: sanitizeInput(values.Get("category")),
	}

	if v := values.Get("sort_by"); v != "" {
		if !allowedSortFields[v] {
			return q, fmt.Errorf("unsupported sort_by %q", v)
		}
		q.SortBy = v
	}
	if v := values.Get("sort_order"); v != "" {
		switch strings.ToUpper(v) {
		case query.ASC:
			q.SortOrder = query.ASC
		case query.DESC:
			q.SortOrder = query.DESC
		default:
			return q, fmt.Errorf("unsupported sort_order %q", v)
		}
	}

	var err error
	if q.StartDate, err = parseOptionalDate(values, "start_date"); err != nil {
		return q, err
	}
	if q.EndDate, err = parseOptionalDate(values, "end_date"); err != nil {
		return q, err
	}

	if q.IsMoneyReceived, err = parseOptionalBool(values, "is_money_received"); err != nil {
		return q, err
	}
	if q.IsSettled, err = parseOptionalBool(values, "is_settled"); err != nil {
		return q, err
	}
	if q.ApplyInterest, err = parseOptionalBool(values, "apply_interest"); err != nil {
		return q, err
	}

	if v := values.Get("interest_type"); v != "" {
		it := core.InterestType(v)
		if it != core.InterestSimple && it != core.InterestCompound && it != core.InterestNone {
			return q, fmt.Errorf("unsupported interest_type %q: %w", v, core.ErrUnknownInterestType)
		}
		q.InterestType = it
	}

	if q.Limit, err = parseOptionalInt(values, "limit"); err != nil {
		return q, err
	}
	if q.Offset, err = parseOptionalInt(values, "offset"); err != nil {
		return q, err
	}

	return q.Normalized(), nil
}

func parseOptionalDate(values url.Values, key string) (core.Date, error) {
	v := values.Get(key)
	if v == "" {
		return core.Date{}, nil
	}
	d, err := parseDate(v)
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid %s %q: %w", key, v, core.ErrInvalidDate)
	}
	return d, nil
}

func parseOptionalBool(values url.Values, key string) (*bool, error) {
	v := values.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", key, v)
	}
	return &b, nil
}

func parseOptionalInt(values url.Values, key string) (int, error) {
	v := values.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, v)
	}
	return n, nil
}
