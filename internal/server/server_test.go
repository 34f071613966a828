package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"sankalp/internal/ledger"
	"sankalp/pkg/types"

	"github.com/sirupsen/logrus"
)

// Fakes for the store interfaces. They mirror the side effects the real
// repositories perform (ID assignment, status defaults, number generation) so
// handlers observe the same contract.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*types.User // keyed by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*types.User)}
}

func (f *fakeUserStore) User(_ context.Context, userID string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, types.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UserByEmail(_ context.Context, email string) (*types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, types.ErrUserNotFound
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *types.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return types.ErrUserExists
		}
	}
	user.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	user.Status = types.UserStatusActive
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) UpdateProfile(_ context.Context, userID string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[userID]; !ok {
		return types.ErrUserNotFound
	}
	return nil
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, userID string) error {
	return nil
}

type fakeCatalogStore struct {
	policies     map[string]*types.CatalogPolicy
	typesQueried []string
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{policies: map[string]*types.CatalogPolicy{
		"cat-1": {ID: "cat-1", InsuranceTypeID: "it-1", PolicyName: "Family Health Shield", ProviderName: "Sankalp General", AnnualPremium: 12000, IsActive: true},
	}}
}

func (f *fakeCatalogStore) ActiveTypes(_ context.Context) ([]*types.InsuranceTypeWithCount, error) {
	return []*types.InsuranceTypeWithCount{}, nil
}

func (f *fakeCatalogStore) PoliciesByType(_ context.Context, typeID string) ([]*types.CatalogPolicy, error) {
	f.typesQueried = append(f.typesQueried, typeID)
	return []*types.CatalogPolicy{}, nil
}

func (f *fakeCatalogStore) PolicyByID(_ context.Context, policyID string) (*types.CatalogPolicy, error) {
	p, ok := f.policies[policyID]
	if !ok {
		return nil, types.ErrPolicyNotFound
	}
	return p, nil
}

type fakeLedgerStore struct {
	mu      sync.Mutex
	entries map[string]*types.UserPolicy
	nextID  int
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{entries: make(map[string]*types.UserPolicy)}
}

func (f *fakeLedgerStore) PurchasePolicy(_ context.Context, entry *types.UserPolicy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	entry.ID = fmt.Sprintf("up-%d", f.nextID)
	entry.PolicyNumber = ledger.PolicyNumber(time.Now())
	entry.Status = types.PolicyStatusActive
	entry.PurchasedAt = time.Now()
	clone := *entry
	f.entries[entry.ID] = &clone
	return nil
}

func (f *fakeLedgerStore) PoliciesByUser(_ context.Context, userID string) ([]*types.UserPolicyDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.UserPolicyDetail
	for _, e := range f.entries {
		if e.UserID == userID {
			out = append(out, &types.UserPolicyDetail{UserPolicy: *e})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PurchasedAt.Equal(out[j].PurchasedAt) {
			return out[i].PurchasedAt.After(out[j].PurchasedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (f *fakeLedgerStore) PolicyByID(_ context.Context, entryID string) (*types.UserPolicy, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return nil, types.ErrPolicyNotFound
	}
	clone := *e
	return &clone, nil
}

func (f *fakeLedgerStore) UpdateStatus(_ context.Context, entryID string, status types.PolicyStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return types.ErrPolicyNotFound
	}
	e.Status = status
	return nil
}

func (f *fakeLedgerStore) AdvanceNextPremium(_ context.Context, entryID string, next time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return types.ErrPolicyNotFound
	}
	e.NextPremiumDate = next
	return nil
}

type fakeClaimStore struct {
	mu     sync.Mutex
	claims []*types.Claim
	docs   map[string][]*types.ClaimDocument
	err    error
}

func newFakeClaimStore() *fakeClaimStore {
	return &fakeClaimStore{docs: make(map[string][]*types.ClaimDocument)}
}

func (f *fakeClaimStore) FileClaim(_ context.Context, claim *types.Claim, docs []*types.ClaimDocument) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	claim.ID = fmt.Sprintf("claim-%d", len(f.claims)+1)
	claim.ClaimNumber = ledger.ClaimNumber(time.Now())
	claim.Status = types.ClaimStatusPending
	claim.FilingDate = time.Now()
	f.claims = append(f.claims, claim)
	for _, d := range docs {
		d.ClaimID = claim.ID
	}
	f.docs[claim.ID] = docs
	return nil
}

func (f *fakeClaimStore) ClaimsByUser(_ context.Context, userID string) ([]*types.ClaimDetail, error) {
	return []*types.ClaimDetail{}, nil
}

func (f *fakeClaimStore) DocumentsByClaimID(_ context.Context, claimID string) ([]*types.ClaimDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[claimID], nil
}

type fakeNotificationStore struct {
	mu       sync.Mutex
	markRead [][2]string // notificationID, userID pairs
}

func (f *fakeNotificationStore) NotificationsByUser(_ context.Context, _ string) ([]*types.Notification, error) {
	return []*types.Notification{}, nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, notificationID, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markRead = append(f.markRead, [2]string{notificationID, userID})
	return nil
}

type fakeSupportStore struct {
	mu      sync.Mutex
	tickets []*types.SupportTicket
}

func (f *fakeSupportStore) CreateTicket(_ context.Context, ticket *types.SupportTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket.ID = fmt.Sprintf("tkt-%d", len(f.tickets)+1)
	ticket.TicketNumber = ledger.TicketNumber(time.Now())
	ticket.Status = types.TicketStatusOpen
	f.tickets = append(f.tickets, ticket)
	return nil
}

func (f *fakeSupportStore) TicketsByUser(_ context.Context, _ string) ([]*types.SupportTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickets, nil
}

type fakeDocumentStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

func (f *fakeDocumentStorage) UploadDocument(_ context.Context, key string, body io.Reader, _ string, _ int64) (string, error) {
	if _, err := io.ReadAll(body); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeDocumentStorage) DeleteDocument(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type fakePaymentProvider struct {
	calls int
}

func (f *fakePaymentProvider) CreatePremiumPayment(_ context.Context, _ int64, _, _ string) (string, error) {
	f.calls++
	return "cs_test_secret", nil
}

type testEnv struct {
	svc           *Service
	users         *fakeUserStore
	catalog       *fakeCatalogStore
	ledger        *fakeLedgerStore
	claims        *fakeClaimStore
	notifications *fakeNotificationStore
	support       *fakeSupportStore
	docs          *fakeDocumentStorage
	payments      *fakePaymentProvider
}

func newTestEnv() *testEnv {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	config := &types.Config{
		JWTSecret:        "test-signing-secret",
		JWTExpirySec:     3600,
		CookieName:       "session_token",
		MaxDocumentBytes: 5 << 20,
		PaymentCurrency:  "inr",
		RateLimitPerMin:  6000,
		RateLimitBurst:   6000,
	}

	env := &testEnv{
		users:         newFakeUserStore(),
		catalog:       newFakeCatalogStore(),
		ledger:        newFakeLedgerStore(),
		claims:        newFakeClaimStore(),
		notifications: &fakeNotificationStore{},
		support:       &fakeSupportStore{},
		docs:          &fakeDocumentStorage{},
		payments:      &fakePaymentProvider{},
	}

	svc, err := New(
		config,
		logger,
		env.users,
		env.catalog,
		env.ledger,
		env.claims,
		env.notifications,
		env.support,
		env.docs,
		env.payments,
	)
	if err != nil {
		panic(err)
	}
	env.svc = svc
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.svc.server.Handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) authHeader(userID string) string {
	token, err := e.svc.issueToken(userID, userID+"@example.com")
	if err != nil {
		panic(err)
	}
	return "Bearer " + token
}
