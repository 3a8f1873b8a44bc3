package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Routing keys, one per event type.
const (
	RoutingTransactionRecorded = "transaction.recorded"
	RoutingBudgetExceeded      = "budget.exceeded"
)

// TransactionRecordedMessage carries a full transaction so consumers do not
// need access to the ledger stores. Amounts are decimal strings.
type TransactionRecordedMessage struct {
	MessageID   string    `json:"message_id"`
	Amount      string    `json:"amount"`
	Date        string    `json:"date"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category"`
	Timestamp   time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(t core.Transaction) *TransactionRecordedMessage {
	return &TransactionRecordedMessage{
		MessageID:   uuid.NewString(),
		Amount:      t.Amount.String(),
		Date:        t.Date.String(),
		Description: t.Description,
		Category:    t.Category,
		Timestamp:   time.Now(),
	}
}

// Transaction converts the message back into a validated transaction.
func (m *TransactionRecordedMessage) Transaction() (core.Transaction, error) {
	amount, err := core.ParseAmount(m.Amount)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount %q: %w", m.Amount, err)
	}
	date, err := core.ParseDate(m.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t := core.Transaction{Amount: amount, Date: date, Description: m.Description, Category: m.Category}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (m *TransactionRecordedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionRecordedMessageFromJSON(data []byte) (*TransactionRecordedMessage, error) {
	var msg TransactionRecordedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// BudgetExceededMessage is published when a transaction takes a budget over
// its limit.
type BudgetExceededMessage struct {
	MessageID string    `json:"message_id"`
	Category  string    `json:"category"`
	Limit     string    `json:"limit"`
	Spent     string    `json:"spent"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBudgetExceededMessage(s core.BudgetStatus) *BudgetExceededMessage {
	return &BudgetExceededMessage{
		MessageID: uuid.NewString(),
		Category:  s.Category,
		Limit:     s.Limit.String(),
		Spent:     s.Spent.String(),
		Timestamp: time.Now(),
	}
}

func (m *BudgetExceededMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func BudgetExceededMessageFromJSON(data []byte) (*BudgetExceededMessage, error) {
	var msg BudgetExceededMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
