package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	TransactionCreated = "transaction.created"
	TransactionDeleted = "transaction.deleted"
	BalanceUpdated     = "balance.updated"
)

// LedgerStream carries every event about bank balances and transactions
const LedgerStream = "ledger.events"

// Event is the envelope written to the stream
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// TransactionCreatedEvent is published after a transaction commits
type TransactionCreatedEvent struct {
	TransactionID uint            `json:"transactionId"`
	BankID        uint            `json:"bankId"`
	UserID        uint            `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
	CategoryIDs   []uint          `json:"categoryIds"`
}

// TransactionDeletedEvent is published after a transaction is removed and its effect reversed
type TransactionDeletedEvent struct {
	TransactionID uint            `json:"transactionId"`
	BankID        uint            `json:"bankId"`
	UserID        uint            `json:"userId"`
	Amount        decimal.Decimal `json:"amount"`
	Type          string          `json:"type"`
}

type BalanceUpdatedEvent struct {
	BankID     uint            `json:"bankId"`
	NewBalance decimal.Decimal `json:"newBalance"`
	Change     decimal.Decimal `json:"change"`
}
