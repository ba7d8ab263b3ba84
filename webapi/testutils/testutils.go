// Package testutils builds a fully wired HTTP app over the in-memory store.
package testutils

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	infracache "github.com/amirasaad/donation/infra/cache"
	infraeventbus "github.com/amirasaad/donation/infra/eventbus"
	"github.com/amirasaad/donation/internal/fixtures/memstore"
	"github.com/amirasaad/donation/pkg/app"
	"github.com/amirasaad/donation/pkg/config"
	"github.com/amirasaad/donation/pkg/domain/fund"
	"github.com/amirasaad/donation/pkg/dto"
	"github.com/amirasaad/donation/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

// TestPassword is the password of every user created by CreateTestUser.
const TestPassword = "password123"

// Suite provides a wired app backed by memstore for route tests.
type Suite struct {
	suite.Suite
	Store  *memstore.Store
	Bus    *infraeventbus.MemoryEventBus
	App    *app.App
	Fiber  *fiber.App
	Config *config.App
}

// TestConfig returns a configuration with rate limiting disabled.
func TestConfig() *config.App {
	return &config.App{
		Env:        "test",
		Auth:       &config.Auth{Strategy: "jwt", Jwt: &config.Jwt{Secret: "test-secret", Expiry: time.Hour}},
		RateLimit:  &config.RateLimit{},
		Settlement: &config.Settlement{PaymentMethod: "upi", DefaultPurpose: "General"},
		Cache:      &config.Cache{TTL: time.Minute},
		Reconcile:  &config.Reconcile{Tolerance: 0.005},
	}
}

func (s *Suite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Store = memstore.New()
	s.Bus = infraeventbus.NewWithMemory(logger)
	if s.Config == nil {
		s.Config = TestConfig()
	}
	s.App = app.New(&app.Deps{
		Uow:           s.Store.UoW(),
		EventBus:      s.Bus,
		ProgressCache: infracache.NewMemoryCache(),
		Logger:        logger,
	}, s.Config)
	s.Fiber = webapi.SetupApp(s.App)
}

// SeedActiveFund stores an active fund with the given target.
func (s *Suite) SeedActiveFund(target, current float64) *fund.Fund {
	f, err := fund.New("Test fund", "", target, time.Time{}, nil)
	s.Require().NoError(err)
	s.Require().NoError(f.Activate())
	f.CurrentAmount = current
	s.Store.SeedFund(f)
	return f
}

// CreateTestUser registers a user and returns it.
func (s *Suite) CreateTestUser() *dto.UserRead {
	name := "user" + strings.ReplaceAll(time.Now().Format("150405.000000"), ".", "")
	u, err := s.App.UserService.CreateUser(context.Background(), name, name+"@example.com", TestPassword)
	s.Require().NoError(err)
	read, err := s.App.UserService.GetUser(context.Background(), u.ID)
	s.Require().NoError(err)
	return read
}

// LoginUser returns a bearer token for u.
func (s *Suite) LoginUser(u *dto.UserRead) string {
	token, err := s.App.AuthService.GenerateToken(context.Background(), u)
	s.Require().NoError(err)
	return token
}

// MakeRequest sends a JSON request through the app.
func (s *Suite) MakeRequest(method, path, body, token string) *http.Response {
	return MakeRequestWithApp(s.T(), s.Fiber, method, path, body, token)
}

// MakeRequestWithApp sends a JSON request through app.
func MakeRequestWithApp(t testing.TB, app *fiber.App, method, path, body, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request %s %s: %v", method, path, err)
	}
	return resp
}
