package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/application/company"
	"github.com/baechuer/company-registry/internal/infrastructure/memory"
	"github.com/baechuer/company-registry/internal/infrastructure/security"
	"github.com/baechuer/company-registry/internal/transport/http/middleware"
	"github.com/baechuer/company-registry/internal/transport/http/validate"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 {
		t.Fatalf("decode envelope failed; body=%s", string(raw))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", string(raw), err)
	}
}

type errorBody struct {
	Error struct {
		Code      string            `json:"code"`
		Message   string            `json:"message"`
		Meta      map[string]string `json:"meta"`
		RequestID string            `json:"request_id"`
	} `json:"error"`
}

func mustReadError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &eb); err != nil {
		t.Fatalf("decode error body: %v; body=%s", err, rr.Body.String())
	}
	return eb
}

// withUserCtx injects the identity the Auth middleware would set.
func withUserCtx(req *http.Request, userID, email string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), userID, email))
}

// withURLParam injects chi URL param (e.g. /verify-email/{token}) into request context.
func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)

	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(ctx)
}

// capturePublisher records verification events so tests can read the secret.
type capturePublisher struct {
	mu     sync.Mutex
	emails []auth.VerifyEmailEvent
	mobile []auth.VerifyMobileEvent
}

func (p *capturePublisher) PublishVerifyEmail(_ context.Context, evt auth.VerifyEmailEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.emails = append(p.emails, evt)
	return nil
}

func (p *capturePublisher) PublishVerifyMobile(_ context.Context, evt auth.VerifyMobileEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mobile = append(p.mobile, evt)
	return nil
}

type testEnv struct {
	users   *memory.UserRepo
	signer  *security.JWTSigner
	pub     *capturePublisher
	media   *memory.MediaStore
	auth    *AuthHandler
	company *CompanyHandler
}

const testVerifyBaseURL = "http://app.test/verify-email/"

func newTestEnv(t *testing.T, maxUpload int64) *testEnv {
	t.Helper()

	val, err := validate.New(validate.Options{})
	if err != nil {
		t.Fatalf("validate.New: %v", err)
	}

	users := memory.NewUserRepo()
	signer := security.NewJWTSigner("test-secret", "company-registry")
	pub := &capturePublisher{}
	media := memory.NewMediaStore("http://media.test")

	authSvc := auth.NewService(users, security.NewBcryptHasher(4), signer, memory.NewOneTimeTokenStore(), pub, auth.Config{
		TokenTTL:           time.Hour,
		VerifyEmailBaseURL: testVerifyBaseURL,
	})
	companySvc := company.NewService(memory.NewCompanyRepo(), media, memory.NewNoopPublisher(), company.Config{
		MaxUploadSize: maxUpload,
	})

	return &testEnv{
		users:   users,
		signer:  signer,
		pub:     pub,
		media:   media,
		auth:    NewAuthHandler(authSvc, val),
		company: NewCompanyHandler(companySvc, val),
	}
}

func validRegisterBody() map[string]any {
	return map[string]any{
		"email":    "a@x.com",
		"password": "secret1",
		"fullName": "A B",
		"mobile":   "9876543210",
	}
}

// registerUser goes through the handler and returns the new user's id and token.
func (e *testEnv) registerUser(t *testing.T, body map[string]any) (string, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", mustJSONBody(t, body))
	rr := httptest.NewRecorder()
	e.auth.Register(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	var data struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	mustReadData(t, rr.Body, &data)
	return data.User.ID, data.Token
}
