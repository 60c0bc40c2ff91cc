package amqp

import "testing"

func TestReminderDueMessageRoundTrip(t *testing.T) {
	msg := NewReminderDueMessage("tx-1", "p-1", 150.75, "Loan repayment due", "2024-09-15")

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got, err := ReminderDueMessageFromJSON(body)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.TransactionID != "tx-1" || got.PersonID != "p-1" {
		t.Fatalf("ids lost: %+v", got)
	}
	if got.Amount != 150.75 || got.ReminderDate != "2024-09-15" {
		t.Fatalf("payload lost: %+v", got)
	}
}

func TestReminderDueMessageFromInvalidJSON(t *testing.T) {
	if _, err := ReminderDueMessageFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
