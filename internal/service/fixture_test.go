package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"finance_tracker/internal/db"
	"finance_tracker/internal/db/dbtest"
	"finance_tracker/internal/domain"
	"finance_tracker/internal/utils"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fixture wires every service against a fresh SQLite store
type fixture struct {
	ctx          context.Context
	store        *db.Store
	events       *recordingPublisher
	auth         *AuthService
	transactions *TransactionService
	statistics   *StatisticsService
	banks        *BankService
	categories   *CategoryService
	users        *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := db.NewStore(dbtest.Open(t))
	hasher := utils.NewHasher(utils.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	issuer := utils.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	pub := &recordingPublisher{}
	return &fixture{
		ctx:          context.Background(),
		store:        store,
		events:       pub,
		auth:         NewAuthService(store, hasher, issuer),
		transactions: NewTransactionService(store, store, store, store, store, pub),
		statistics:   NewStatisticsService(store, store),
		banks:        NewBankService(store),
		categories:   NewCategoryService(store),
		users:        NewUserService(store),
	}
}

func (f *fixture) user(t *testing.T, email string) *domain.User {
	t.Helper()
	_, err := f.auth.Register(f.ctx, Credentials{Email: email, Password: "password1"})
	require.NoError(t, err)
	u, err := f.store.FindUserByEmail(f.ctx, email)
	require.NoError(t, err)
	return u
}

func (f *fixture) bank(t *testing.T, userID uint, name string) *domain.Bank {
	t.Helper()
	b, err := f.banks.Create(f.ctx, userID, NameInput{Name: name})
	require.NoError(t, err)
	return b
}

func (f *fixture) category(t *testing.T, userID uint, name string) *domain.Category {
	t.Helper()
	c, err := f.categories.Create(f.ctx, userID, NameInput{Name: name})
	require.NoError(t, err)
	return c
}

func (f *fixture) balance(t *testing.T, userID, bankID uint) decimal.Decimal {
	t.Helper()
	b, err := f.store.FindBank(f.ctx, userID, bankID)
	require.NoError(t, err)
	return b.Balance
}

func input(amount string, typ domain.TransactionType, bankID, userID uint, categoryIDs ...uint) CreateTransactionInput {
	a := decimal.RequireFromString(amount)
	return CreateTransactionInput{Amount: &a, Type: &typ, BankID: bankID, UserID: userID, CategoryIDs: categoryIDs}
}

type publishedEvent struct {
	stream    string
	eventType string
	data      any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, stream, eventType string, data any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, publishedEvent{stream: stream, eventType: eventType, data: data})
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.eventType
	}
	return out
}

var errInjected = errors.New("injected fault")

// faultLedger runs the real unit but fails the chosen step after the earlier writes happened
type faultLedger struct {
	inner       domain.Ledger
	failInsert  bool
	failBalance bool
}

func (l *faultLedger) Atomically(ctx context.Context, fn func(domain.LedgerTx) error) error {
	return l.inner.Atomically(ctx, func(tx domain.LedgerTx) error {
		return fn(&faultTx{LedgerTx: tx, ledger: l})
	})
}

type faultTx struct {
	domain.LedgerTx
	ledger *faultLedger
}

func (t *faultTx) InsertTransaction(ctx context.Context, tx *domain.Transaction) error {
	if t.ledger.failInsert {
		return errInjected
	}
	return t.LedgerTx.InsertTransaction(ctx, tx)
}

func (t *faultTx) UpdateBankBalance(ctx context.Context, bankID uint, balance decimal.Decimal) error {
	if t.ledger.failBalance {
		return errInjected
	}
	return t.LedgerTx.UpdateBankBalance(ctx, bankID, balance)
}
