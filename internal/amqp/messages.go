package amqp

import (
	"encoding/json"
	"time"
)

// ReminderDueMessage announces that a transaction's reminder date has
// arrived. It carries enough context for a downstream notifier to
// render a message without another database round trip.
type ReminderDueMessage struct {
	TransactionID string    `json:"transaction_id"`
	PersonID      string    `json:"person_id"`
	Amount        float64   `json:"amount"`
	Description   string    `json:"description"`
	ReminderDate  string    `json:"reminder_date"` // YYYY-MM-DD
	Timestamp     time.Time `json:"timestamp"`
}

func NewReminderDueMessage(transactionID, personID string, amount float64, description, reminderDate string) *ReminderDueMessage {
	return &ReminderDueMessage{
		TransactionID: transactionID,
		PersonID:      personID,
		Amount:        amount,
		Description:   description,
		ReminderDate:  reminderDate,
		Timestamp:     time.Now(),
	}
}

func (m *ReminderDueMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReminderDueMessageFromJSON(data []byte) (*ReminderDueMessage, error) {
	var msg ReminderDueMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
