package http

import (
	"net/url"
	"testing"

	"debiti/internal/core"
	"debiti/internal/query"
)

func TestParseTransactionQueryDefaults(t *testing.T) {
	q, err := parseTransactionQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.SortBy != query.SortByDate {
		t.Errorf("SortBy = %q, want %q", q.SortBy, query.SortByDate)
	}
	if q.SortOrder != query.DESC {
		t.Errorf("SortOrder = %q, want %q", q.SortOrder, query.DESC)
	}
	if q.IsMoneyReceived != nil || q.IsSettled != nil || q.ApplyInterest != nil {
		t.Error("expected tri-state filters to stay unset")
	}
	if q.Limit != 0 || q.Offset != 0 {
		t.Errorf("pagination = (%d, %d), want (0, 0)", q.Limit, q.Offset)
	}
}

func TestParseTransactionQueryFull(t *testing.T) {
	values := url.Values{
		"person_id":         {"p1"},
		"search":            {"  pranzo "},
		"category":          {"prestito"},
		"sort_by":           {"amount"},
		"sort_order":        {"asc"},
		"start_date":        {"2024-01-01"},
		"end_date":          {"2024-12-31"},
		"is_money_received": {"true"},
		"is_settled":        {"false"},
		"apply_interest":    {"true"},
		"interest_type":     {"compound"},
		"limit":             {"20"},
		"offset":            {"40"},
	}

	q, err := parseTransactionQuery(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.PersonID != "p1" {
		t.Errorf("PersonID = %q", q.PersonID)
	}
	if q.Search != "pranzo" {
		t.Errorf("Search = %q, want trimmed %q", q.Search, "pranzo")
	}
	if q.SortBy != query.SortByAmount || q.SortOrder != query.ASC {
		t.Errorf("sort = (%q, %q)", q.SortBy, q.SortOrder)
	}
	if q.StartDate.ISO() != "2024-01-01" || q.EndDate.ISO() != "2024-12-31" {
		t.Errorf("date range = (%s, %s)", q.StartDate.ISO(), q.EndDate.ISO())
	}
	if q.IsMoneyReceived == nil || !*q.IsMoneyReceived {
		t.Error("IsMoneyReceived not parsed")
	}
	if q.IsSettled == nil || *q.IsSettled {
		t.Error("IsSettled not parsed")
	}
	if q.ApplyInterest == nil || !*q.ApplyInterest {
		t.Error("ApplyInterest not parsed")
	}
	if q.InterestType != core.InterestCompound {
		t.Errorf("InterestType = %q", q.InterestType)
	}
	if q.Limit != 20 || q.Offset != 40 {
		t.Errorf("pagination = (%d, %d)", q.Limit, q.Offset)
	}
}

func TestParseTransactionQueryRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		values url.Values
	}{
		{"bad sort field", url.Values{"sort_by": {"personId"}}},
		{"bad sort order", url.Values{"sort_order": {"sideways"}}},
		{"bad start date", url.Values{"start_date": {"01/02/2024"}}},
		{"bad end date", url.Values{"end_date": {"2024-13-01"}}},
		{"bad bool", url.Values{"is_settled": {"maybe"}}},
		{"bad interest type", url.Values{"interest_type": {"quadratic"}}},
		{"negative limit", url.Values{"limit": {"-1"}}},
		{"non-numeric offset", url.Values{"offset": {"ten"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseTransactionQuery(tt.values); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  hello  ", "hello"},
		{"a\x00b", "ab"},
		{"multi\nline", "multi\nline"},
		{"tab\tok", "tab\tok"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.125, 0.13},
		{126.8252, 126.83},
		{-3.456, -3.46},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round2(tt.in); got != tt.want {
			t.Errorf("round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
