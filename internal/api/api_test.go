package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"finance_tracker/internal/domain"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ---- mock implementations ----

type mockTokens struct{}

func (mockTokens) ValidateAccessToken(_ context.Context, token string) (*domain.User, error) {
	if token == "user-7" {
		return &domain.User{ID: 7, Email: "seven@example.com"}, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (mockTokens) ValidateRefreshToken(header string) (domain.RefreshPrincipal, error) {
	if header == "Bearer refresh-7" {
		return domain.RefreshPrincipal{UserID: 7, RefreshToken: "refresh-7"}, nil
	}
	return domain.RefreshPrincipal{}, domain.ErrUnauthenticated
}

type mockAuth struct {
	registerFn func(service.Credentials) (domain.AuthTokenPair, error)
	loginFn    func(service.Credentials) (domain.AuthTokenPair, error)
	refreshFn  func(domain.RefreshPrincipal) (domain.AuthTokenPair, error)
	logoutFn   func(uint) error
}

func (m *mockAuth) Register(_ context.Context, in service.Credentials) (domain.AuthTokenPair, error) {
	if m.registerFn != nil {
		return m.registerFn(in)
	}
	return domain.AuthTokenPair{}, fmt.Errorf("not configured")
}

func (m *mockAuth) Login(_ context.Context, in service.Credentials) (domain.AuthTokenPair, error) {
	if m.loginFn != nil {
		return m.loginFn(in)
	}
	return domain.AuthTokenPair{}, fmt.Errorf("not configured")
}

func (m *mockAuth) Refresh(_ context.Context, p domain.RefreshPrincipal) (domain.AuthTokenPair, error) {
	if m.refreshFn != nil {
		return m.refreshFn(p)
	}
	return domain.AuthTokenPair{}, fmt.Errorf("not configured")
}

func (m *mockAuth) Logout(_ context.Context, userID uint) error {
	if m.logoutFn != nil {
		return m.logoutFn(userID)
	}
	return fmt.Errorf("not configured")
}

type mockTransactions struct {
	createFn func(service.CreateTransactionInput) (*domain.Transaction, error)
	listFn   func(userID, bankID uint, page domain.Page) ([]domain.Transaction, error)
	deleteFn func(userID, bankID, transactionID uint) error
}

func (m *mockTransactions) Create(_ context.Context, in service.CreateTransactionInput) (*domain.Transaction, error) {
	if m.createFn != nil {
		return m.createFn(in)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactions) List(_ context.Context, userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(userID, bankID, page)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactions) Delete(_ context.Context, userID, bankID, transactionID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, bankID, transactionID)
	}
	return fmt.Errorf("not configured")
}

type mockStatistics struct {
	statsFn func(userID, bankID uint, in service.StatisticsInput) ([]service.CategoryTotal, error)
}

func (m *mockStatistics) BankStatistics(_ context.Context, userID, bankID uint, in service.StatisticsInput) ([]service.CategoryTotal, error) {
	if m.statsFn != nil {
		return m.statsFn(userID, bankID, in)
	}
	return nil, fmt.Errorf("not configured")
}

type mockCategories struct {
	renameFn func(userID, categoryID uint, in service.NameInput) (*domain.Category, error)
}

func (m *mockCategories) Create(_ context.Context, userID uint, in service.NameInput) (*domain.Category, error) {
	return &domain.Category{ID: 1, Name: in.Name, UserID: userID}, nil
}

func (m *mockCategories) List(context.Context, uint) ([]domain.Category, error) {
	return []domain.Category{}, nil
}

func (m *mockCategories) Get(_ context.Context, _ uint, categoryID uint) (*domain.Category, error) {
	return &domain.Category{ID: categoryID}, nil
}

func (m *mockCategories) Rename(_ context.Context, userID, categoryID uint, in service.NameInput) (*domain.Category, error) {
	if m.renameFn != nil {
		return m.renameFn(userID, categoryID, in)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockCategories) Delete(context.Context, uint, uint) error {
	return fmt.Errorf("not configured")
}

type mockBanks struct {
	getFn    func(userID, bankID uint) (*domain.Bank, error)
	deleteFn func(userID, bankID uint) error
}

func (m *mockBanks) Create(_ context.Context, userID uint, in service.NameInput) (*domain.Bank, error) {
	return &domain.Bank{ID: 1, Name: in.Name, UserID: userID}, nil
}

func (m *mockBanks) List(context.Context, uint) ([]domain.Bank, error) {
	return []domain.Bank{}, nil
}

func (m *mockBanks) Get(_ context.Context, userID, bankID uint) (*domain.Bank, error) {
	if m.getFn != nil {
		return m.getFn(userID, bankID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockBanks) Rename(_ context.Context, _ uint, bankID uint, in service.NameInput) (*domain.Bank, error) {
	return &domain.Bank{ID: bankID, Name: in.Name}, nil
}

func (m *mockBanks) Delete(_ context.Context, userID, bankID uint) error {
	if m.deleteFn != nil {
		return m.deleteFn(userID, bankID)
	}
	return fmt.Errorf("not configured")
}

// memoryCache is a PageCache kept in a map
type memoryCache struct {
	mu       sync.Mutex
	entries  map[string][]byte
	versions map[string]int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, versions: map[string]int64{}}
}

func (m *memoryCache) Version(_ context.Context, key string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[key], nil
}

func (m *memoryCache) Bump(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[key]++
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string, dest any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = b
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

// ---- helpers ----

func newTestRouter(t *testing.T, d Deps) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	d.Tokens = mockTokens{}
	if d.Auth == nil {
		d.Auth = &mockAuth{}
	}
	if d.Banks == nil {
		d.Banks = &mockBanks{}
	}
	if d.Transactions == nil {
		d.Transactions = &mockTransactions{}
	}
	if d.Statistics == nil {
		d.Statistics = &mockStatistics{}
	}
	if d.Categories == nil {
		d.Categories = &mockCategories{}
	}
	r, err := NewRouter(d)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return r
}

func doRequest(router *gin.Engine, method, url string, body any, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		var reader *strings.Reader
		if s, ok := body.(string); ok {
			reader = strings.NewReader(s)
		} else {
			b, _ := json.Marshal(body)
			reader = strings.NewReader(string(b))
		}
		req, _ = http.NewRequest(method, url, reader)
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var authed = map[string]string{"Authorization": "Bearer user-7"}

func envelope(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponse {
	t.Helper()
	var resp middleware.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v; body: %s", err, w.Body.String())
	}
	return resp
}

var testPair = domain.AuthTokenPair{AccessToken: "access", RefreshToken: "refresh"}

// ---- tests ----

func TestHealth(t *testing.T) {
	r := newTestRouter(t, Deps{})
	w := doRequest(r, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"ok"`) {
		t.Errorf("expected 200 ok got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           any
		registerFn     func(service.Credentials) (domain.AuthTokenPair, error)
		expectedStatus int
		expectedName   string
	}{
		{
			name:           "success - new user",
			body:           map[string]any{"email": "a@example.com", "password": "password1"},
			registerFn:     func(service.Credentials) (domain.AuthTokenPair, error) { return testPair, nil },
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - duplicate email",
			body:           map[string]any{"email": "a@example.com", "password": "password1"},
			registerFn:     func(service.Credentials) (domain.AuthTokenPair, error) { return domain.AuthTokenPair{}, domain.ErrDuplicateIdentity },
			expectedStatus: http.StatusBadRequest,
			expectedName:   "DuplicateIdentity",
		},
		{
			name: "bad request - invalid email",
			body: map[string]any{"email": "nope", "password": "password1"},
			registerFn: func(service.Credentials) (domain.AuthTokenPair, error) {
				return domain.AuthTokenPair{}, domain.ValidationErrors{{Field: "email", Message: "Invalid email format", Type: "email"}}
			},
			expectedStatus: http.StatusBadRequest,
			expectedName:   "ValidationError",
		},
		{
			name:           "bad request - malformed json",
			body:           "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedName:   "ValidationError",
		},
		{
			name:           "internal error - storage down",
			body:           map[string]any{"email": "a@example.com", "password": "password1"},
			registerFn:     func(service.Credentials) (domain.AuthTokenPair, error) { return domain.AuthTokenPair{}, domain.ErrStorageFailure },
			expectedStatus: http.StatusInternalServerError,
			expectedName:   "InternalError",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, Deps{Auth: &mockAuth{registerFn: tt.registerFn}})
			w := doRequest(r, http.MethodPost, "/auth/register", tt.body, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedName != "" {
				if resp := envelope(t, w); resp.ErrorName != tt.expectedName || resp.Path != "/auth/register" || resp.Method != http.MethodPost {
					t.Errorf("[%s] unexpected envelope %+v", tt.name, resp)
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		loginFn        func(service.Credentials) (domain.AuthTokenPair, error)
		expectedStatus int
	}{
		{name: "success", loginFn: func(service.Credentials) (domain.AuthTokenPair, error) { return testPair, nil }, expectedStatus: http.StatusOK},
		{name: "unknown email", loginFn: func(service.Credentials) (domain.AuthTokenPair, error) { return testPair, domain.ErrIdentityNotFound }, expectedStatus: http.StatusBadRequest},
		{name: "wrong password", loginFn: func(service.Credentials) (domain.AuthTokenPair, error) { return testPair, domain.ErrCredentialMismatch }, expectedStatus: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, Deps{Auth: &mockAuth{loginFn: tt.loginFn}})
			w := doRequest(r, http.MethodPost, "/auth/login", map[string]any{"email": "a@example.com", "password": "x"}, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestRefreshAndLogout(t *testing.T) {
	var refreshed domain.RefreshPrincipal
	var loggedOut uint
	auth := &mockAuth{
		refreshFn: func(p domain.RefreshPrincipal) (domain.AuthTokenPair, error) {
			refreshed = p
			return testPair, nil
		},
		logoutFn: func(userID uint) error {
			loggedOut = userID
			return nil
		},
	}
	r := newTestRouter(t, Deps{Auth: auth})

	w := doRequest(r, http.MethodGet, "/auth/refresh", nil, map[string]string{"Authorization": "Bearer refresh-7"})
	if w.Code != http.StatusOK || refreshed.UserID != 7 || refreshed.RefreshToken != "refresh-7" {
		t.Errorf("refresh: got %d principal %+v; body: %s", w.Code, refreshed, w.Body.String())
	}
	var pair domain.AuthTokenPair
	if err := json.Unmarshal(w.Body.Bytes(), &pair); err != nil || pair.AccessToken != "access" {
		t.Errorf("refresh: unexpected body %s", w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/auth/refresh", nil, authed)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("refresh with access token: expected 401 got %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/auth/logout", nil, authed)
	if w.Code != http.StatusNoContent || loggedOut != 7 {
		t.Errorf("logout: got %d for user %d", w.Code, loggedOut)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, Deps{})
	for _, route := range []struct{ method, url string }{
		{http.MethodGet, "/user"},
		{http.MethodGet, "/bank"},
		{http.MethodGet, "/category"},
		{http.MethodPost, "/bank/1/transaction"},
		{http.MethodPost, "/bank/1/statistics"},
	} {
		w := doRequest(r, route.method, route.url, nil, nil)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("[%s %s] expected 401 got %d", route.method, route.url, w.Code)
		}
	}
}

func TestCreateTransaction(t *testing.T) {
	tests := []struct {
		name           string
		url            string
		body           any
		createFn       func(service.CreateTransactionInput) (*domain.Transaction, error)
		expectedStatus int
	}{
		{
			name: "success - profitable transaction",
			url:  "/bank/3/transaction",
			body: map[string]any{"amount": 12.5, "type": 1, "categoryIds": []uint{1, 2}},
			createFn: func(in service.CreateTransactionInput) (*domain.Transaction, error) {
				if in.UserID != 7 || in.BankID != 3 || in.Amount == nil || !in.Amount.Equal(decimal.RequireFromString("12.5")) || *in.Type != domain.Profitable {
					return nil, fmt.Errorf("unexpected input %+v", in)
				}
				return &domain.Transaction{ID: 10, Amount: *in.Amount, Type: *in.Type, BankID: in.BankID}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "bad request - bank id not numeric",
			url:            "/bank/abc/transaction",
			body:           map[string]any{"amount": 1, "type": 0, "categoryIds": []uint{1}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "not found - foreign bank",
			url:  "/bank/99/transaction",
			body: map[string]any{"amount": 1, "type": 0, "categoryIds": []uint{1}},
			createFn: func(service.CreateTransactionInput) (*domain.Transaction, error) {
				return nil, domain.ErrBankNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "internal error - atomic unit aborted",
			url:  "/bank/3/transaction",
			body: map[string]any{"amount": 1, "type": 0, "categoryIds": []uint{1}},
			createFn: func(service.CreateTransactionInput) (*domain.Transaction, error) {
				return nil, fmt.Errorf("%w: deadlock", domain.ErrAtomicUnitAborted)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, Deps{Transactions: &mockTransactions{createFn: tt.createFn}})
			w := doRequest(r, http.MethodPost, tt.url, tt.body, authed)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestListTransactionsUsesCache(t *testing.T) {
	calls := 0
	var gotPage domain.Page
	txs := &mockTransactions{
		listFn: func(userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
			calls++
			gotPage = page
			return []domain.Transaction{{ID: 1, BankID: bankID, Amount: decimal.NewFromInt(5)}}, nil
		},
		createFn: func(in service.CreateTransactionInput) (*domain.Transaction, error) {
			return &domain.Transaction{ID: 2, BankID: in.BankID}, nil
		},
	}
	cache := newMemoryCache()
	r := newTestRouter(t, Deps{Transactions: txs, Cache: cache})

	w := doRequest(r, http.MethodGet, "/bank/3/transaction?skip=0&take=2", nil, authed)
	if w.Code != http.StatusOK || w.Header().Get(CacheHeader) != "MISS" {
		t.Fatalf("first list: got %d %q; body: %s", w.Code, w.Header().Get(CacheHeader), w.Body.String())
	}
	if gotPage.Skip != 0 || gotPage.Take == nil || *gotPage.Take != 2 {
		t.Errorf("unexpected page %+v", gotPage)
	}

	w = doRequest(r, http.MethodGet, "/bank/3/transaction?skip=0&take=2", nil, authed)
	if w.Header().Get(CacheHeader) != "HIT" || calls != 1 {
		t.Errorf("second list should be cached: header %q calls %d", w.Header().Get(CacheHeader), calls)
	}
	var listed []domain.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil || len(listed) != 1 || !listed[0].Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("cached body mismatch: %s", w.Body.String())
	}

	w = doRequest(r, http.MethodPost, "/bank/3/transaction", map[string]any{"amount": 1, "type": 1, "categoryIds": []uint{1}}, authed)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: got %d; body: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/bank/3/transaction?skip=0&take=2", nil, authed)
	if w.Header().Get(CacheHeader) != "MISS" || calls != 2 {
		t.Errorf("create must invalidate the bank pages: header %q calls %d", w.Header().Get(CacheHeader), calls)
	}
}

func TestListTransactionsDropsPageRacingAWrite(t *testing.T) {
	cache := newMemoryCache()
	calls := 0
	txs := &mockTransactions{
		listFn: func(userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
			calls++
			if calls == 1 {
				// a create commits while the first listing is reading
				invalidateTransactions(context.Background(), cache, bankID)
				return []domain.Transaction{}, nil
			}
			return []domain.Transaction{{ID: 9, BankID: bankID}}, nil
		},
	}
	r := newTestRouter(t, Deps{Transactions: txs, Cache: cache})

	w := doRequest(r, http.MethodGet, "/bank/3/transaction", nil, authed)
	if w.Code != http.StatusOK || w.Header().Get(CacheHeader) != "MISS" {
		t.Fatalf("first list: got %d %q", w.Code, w.Header().Get(CacheHeader))
	}

	w = doRequest(r, http.MethodGet, "/bank/3/transaction", nil, authed)
	if w.Header().Get(CacheHeader) != "MISS" || calls != 2 {
		t.Fatalf("stale page must not be served: header %q calls %d", w.Header().Get(CacheHeader), calls)
	}
	var listed []domain.Transaction
	if err := json.Unmarshal(w.Body.Bytes(), &listed); err != nil || len(listed) != 1 {
		t.Errorf("expected the fresh page, got %s", w.Body.String())
	}
}

func TestRenameCategoryRetiresCachedListings(t *testing.T) {
	calls := 0
	txs := &mockTransactions{listFn: func(userID, bankID uint, page domain.Page) ([]domain.Transaction, error) {
		calls++
		return []domain.Transaction{}, nil
	}}
	categories := &mockCategories{renameFn: func(userID, categoryID uint, in service.NameInput) (*domain.Category, error) {
		return &domain.Category{ID: categoryID, Name: in.Name, UserID: userID}, nil
	}}
	r := newTestRouter(t, Deps{Transactions: txs, Categories: categories, Cache: newMemoryCache()})

	doRequest(r, http.MethodGet, "/bank/3/transaction", nil, authed)
	w := doRequest(r, http.MethodGet, "/bank/3/transaction", nil, authed)
	if w.Header().Get(CacheHeader) != "HIT" {
		t.Fatalf("expected a cached page, got %q", w.Header().Get(CacheHeader))
	}

	w = doRequest(r, http.MethodPatch, "/category/4", map[string]any{"name": "groceries"}, authed)
	if w.Code != http.StatusOK {
		t.Fatalf("rename: got %d; body: %s", w.Code, w.Body.String())
	}

	w = doRequest(r, http.MethodGet, "/bank/3/transaction", nil, authed)
	if w.Header().Get(CacheHeader) != "MISS" || calls != 2 {
		t.Errorf("rename must retire listings: header %q calls %d", w.Header().Get(CacheHeader), calls)
	}
}

func TestListTransactionsRejectsBadQuery(t *testing.T) {
	r := newTestRouter(t, Deps{})
	w := doRequest(r, http.MethodGet, "/bank/3/transaction?take=many", nil, authed)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 got %d; body: %s", w.Code, w.Body.String())
	}
	if resp := envelope(t, w); len(resp.Details) != 1 || resp.Details[0].Field != "take" {
		t.Errorf("unexpected details %+v", resp.Details)
	}
}

func TestDeleteTransaction(t *testing.T) {
	var got [3]uint
	txs := &mockTransactions{deleteFn: func(userID, bankID, transactionID uint) error {
		got = [3]uint{userID, bankID, transactionID}
		if transactionID == 404 {
			return domain.ErrTransactionNotFound
		}
		return nil
	}}
	r := newTestRouter(t, Deps{Transactions: txs})

	w := doRequest(r, http.MethodDelete, "/bank/3/transaction/9", nil, authed)
	if w.Code != http.StatusNoContent || got != [3]uint{7, 3, 9} {
		t.Errorf("expected 204 for (7,3,9) got %d %v", w.Code, got)
	}
	w = doRequest(r, http.MethodDelete, "/bank/3/transaction/404", nil, authed)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 got %d", w.Code)
	}
}

func TestBankStatistics(t *testing.T) {
	stats := &mockStatistics{statsFn: func(userID, bankID uint, in service.StatisticsInput) ([]service.CategoryTotal, error) {
		if userID != 7 || bankID != 3 || len(in.CategoryIDs) != 2 || in.FromPeriod != "2024-01-01" {
			return nil, fmt.Errorf("unexpected input %+v", in)
		}
		return []service.CategoryTotal{{"salary": decimal.NewFromInt(1)}, {"food": decimal.NewFromInt(-1)}}, nil
	}}
	r := newTestRouter(t, Deps{Statistics: stats})

	w := doRequest(r, http.MethodPost, "/bank/3/statistics",
		map[string]any{"categoryIds": []uint{1, 2}, "fromPeriod": "2024-01-01", "toPeriod": "2024-01-31"}, authed)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	var body []map[string]decimal.Decimal
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body) != 2 || !body[0]["salary"].Equal(decimal.NewFromInt(1)) || !body[1]["food"].Equal(decimal.NewFromInt(-1)) {
		t.Errorf("unexpected totals %s", w.Body.String())
	}
}

func TestBankRoutes(t *testing.T) {
	banks := &mockBanks{
		getFn: func(userID, bankID uint) (*domain.Bank, error) {
			if bankID == 1 {
				return &domain.Bank{ID: 1, Name: "Main", UserID: userID}, nil
			}
			return nil, domain.ErrBankNotFound
		},
		deleteFn: func(_, bankID uint) error {
			if bankID == 1 {
				return domain.ErrBankInUse
			}
			return nil
		},
	}
	r := newTestRouter(t, Deps{Banks: banks})

	tests := []struct {
		name           string
		method, url    string
		body           any
		expectedStatus int
	}{
		{name: "create", method: http.MethodPost, url: "/bank", body: map[string]any{"name": "Main"}, expectedStatus: http.StatusCreated},
		{name: "list", method: http.MethodGet, url: "/bank", expectedStatus: http.StatusOK},
		{name: "get own", method: http.MethodGet, url: "/bank/1", expectedStatus: http.StatusOK},
		{name: "get missing", method: http.MethodGet, url: "/bank/2", expectedStatus: http.StatusNotFound},
		{name: "get zero id", method: http.MethodGet, url: "/bank/0", expectedStatus: http.StatusBadRequest},
		{name: "rename", method: http.MethodPatch, url: "/bank/1", body: map[string]any{"name": "Savings"}, expectedStatus: http.StatusOK},
		{name: "delete in use", method: http.MethodDelete, url: "/bank/1", expectedStatus: http.StatusConflict},
		{name: "delete empty", method: http.MethodDelete, url: "/bank/2", expectedStatus: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.method, tt.url, tt.body, authed)
			if w.Code != tt.expectedStatus {
				t.Errorf("[%s] expected %d got %d; body: %s", tt.name, tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestWebhook(t *testing.T) {
	var got service.CreateTransactionInput
	txs := &mockTransactions{createFn: func(in service.CreateTransactionInput) (*domain.Transaction, error) {
		got = in
		return &domain.Transaction{ID: 5, BankID: in.BankID}, nil
	}}
	r := newTestRouter(t, Deps{Transactions: txs, WebhookSecret: "s3cret", Cache: newMemoryCache()})
	body := map[string]any{"amount": "9.99", "type": 0, "bankId": 3, "userId": 7, "categoryIds": []uint{1}}

	w := doRequest(r, http.MethodPost, "/webhook", body, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing secret: expected 401 got %d", w.Code)
	}
	w = doRequest(r, http.MethodPost, "/webhook", body, map[string]string{middleware.WebhookSecretHeader: "wrong"})
	if w.Code != http.StatusForbidden {
		t.Errorf("wrong secret: expected 403 got %d", w.Code)
	}
	w = doRequest(r, http.MethodPost, "/webhook", body, map[string]string{middleware.WebhookSecretHeader: "s3cret"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d; body: %s", w.Code, w.Body.String())
	}
	if got.UserID != 7 || got.BankID != 3 || got.Amount == nil || !got.Amount.Equal(decimal.RequireFromString("9.99")) {
		t.Errorf("unexpected input %+v", got)
	}

	disabled := newTestRouter(t, Deps{Transactions: txs})
	w = doRequest(disabled, http.MethodPost, "/webhook", body, map[string]string{middleware.WebhookSecretHeader: ""})
	if w.Code != http.StatusNotFound {
		t.Errorf("disabled webhook: expected 404 got %d", w.Code)
	}
}
