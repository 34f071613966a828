package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"sankalp/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// Store interfaces are satisfied by the internal/store repositories; handler
// tests substitute fakes.

type userStore interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user *types.User) error
	UpdateProfile(ctx context.Context, userID string, fields map[string]any) error
	UpdateLastLogin(ctx context.Context, userID string) error
}

type catalogStore interface {
	ActiveTypes(ctx context.Context) ([]*types.InsuranceTypeWithCount, error)
	PoliciesByType(ctx context.Context, typeID string) ([]*types.CatalogPolicy, error)
	PolicyByID(ctx context.Context, policyID string) (*types.CatalogPolicy, error)
}

type policyLedgerStore interface {
	PurchasePolicy(ctx context.Context, entry *types.UserPolicy) error
	PoliciesByUser(ctx context.Context, userID string) ([]*types.UserPolicyDetail, error)
	PolicyByID(ctx context.Context, entryID string) (*types.UserPolicy, error)
	UpdateStatus(ctx context.Context, entryID string, status types.PolicyStatus) error
	AdvanceNextPremium(ctx context.Context, entryID string, next time.Time) error
}

type claimStore interface {
	FileClaim(ctx context.Context, claim *types.Claim, docs []*types.ClaimDocument) error
	ClaimsByUser(ctx context.Context, userID string) ([]*types.ClaimDetail, error)
	DocumentsByClaimID(ctx context.Context, claimID string) ([]*types.ClaimDocument, error)
}

type notificationStore interface {
	NotificationsByUser(ctx context.Context, userID string) ([]*types.Notification, error)
	MarkRead(ctx context.Context, notificationID, userID string) error
}

type supportStore interface {
	CreateTicket(ctx context.Context, ticket *types.SupportTicket) error
	TicketsByUser(ctx context.Context, userID string) ([]*types.SupportTicket, error)
}

type documentStorage interface {
	UploadDocument(ctx context.Context, key string, body io.Reader, contentType string, size int64) (string, error)
	DeleteDocument(ctx context.Context, key string) error
}

type paymentProvider interface {
	CreatePremiumPayment(ctx context.Context, amount int64, currency, policyNumber string) (string, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	users         userStore
	catalog       catalogStore
	policies      policyLedgerStore
	claims        claimStore
	notifications notificationStore
	support       supportStore
	documents     documentStorage
	payments      paymentProvider

	cookie  *securecookie.SecureCookie
	started time.Time

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	users userStore,
	catalog catalogStore,
	policies policyLedgerStore,
	claims claimStore,
	notifications notificationStore,
	support supportStore,
	documents documentStorage,
	payments paymentProvider,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		users:         users,
		catalog:       catalog,
		policies:      policies,
		claims:        claims,
		notifications: notifications,
		support:       support,
		documents:     documents,
		payments:      payments,

		started: time.Now(),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.LoggingMiddleware)
	r.Use(s.RateLimit)

	r.HandleFunc("/api/health", s.handleHealth, http.MethodGet)

	r.HandleFunc("/api/register", s.handleRegister, http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin, http.MethodPost)

	r.HandleFunc("/api/products", s.handleProducts, http.MethodGet)
	r.HandleFunc("/api/products/:typeID/policies", s.handlePoliciesByType, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		r.HandleFunc("/api/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/api/profile", s.handleUpdateProfile, http.MethodPut)

		r.HandleFunc("/api/policies", s.handleListPolicies, http.MethodGet)
		r.HandleFunc("/api/policies/purchase", s.handlePurchasePolicy, http.MethodPost)
		r.HandleFunc("/api/policies/:id", s.handleGetPolicy, http.MethodGet)
		r.HandleFunc("/api/policies/:id/cancel", s.handleCancelPolicy, http.MethodPost)
		r.HandleFunc("/api/policies/:id/premium/pay", s.handlePayPremium, http.MethodPost)

		r.HandleFunc("/api/claims", s.handleFileClaim, http.MethodPost)
		r.HandleFunc("/api/claims", s.handleListClaims, http.MethodGet)

		r.HandleFunc("/api/notifications", s.handleListNotifications, http.MethodGet)
		r.HandleFunc("/api/notifications/:id/read", s.handleMarkNotificationRead, http.MethodPut)

		r.HandleFunc("/api/support", s.handleCreateTicket, http.MethodPost)
		r.HandleFunc("/api/support", s.handleListTickets, http.MethodGet)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{
		"status":         "OK",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

func (s *Service) userIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKeyUserID).(string)
	if !ok {
		return "", fmt.Errorf("user id not found in context")
	}
	return userID, nil
}
