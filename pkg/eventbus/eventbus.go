// Package eventbus defines the contract for publishing ledger integration
// events.
package eventbus

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TopicTransactionPosted carries one event per successfully persisted
// balance mutation.
const TopicTransactionPosted = "ledger.transaction.posted"

// TransactionPosted is emitted after the balance update and transaction
// record have been committed as one unit.
type TransactionPosted struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	AccountID     uuid.UUID       `json:"account_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// Publisher publishes events to a topic. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
