package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
	appCtx "github.com/baechuer/company-registry/internal/pkg/context"
)

// ---- fakes ----

type fakeVerifier struct {
	claims auth.TokenClaims
	err    error
	calls  int
	gotTok string
}

func (f *fakeVerifier) VerifyAccessToken(token string) (auth.TokenClaims, error) {
	f.calls++
	f.gotTok = token
	return f.claims, f.err
}

type writeErrRecorder struct {
	calls int
	last  error
}

func (w *writeErrRecorder) fn(rw http.ResponseWriter, _ *http.Request, err error) {
	w.calls++
	w.last = err
	rw.WriteHeader(http.StatusUnauthorized)
}

// next handler checks context injection
type nextRecorder struct {
	calls    int
	gotUID   string
	gotEmail string
}

func (n *nextRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	n.calls++
	n.gotUID, _ = UserIDFromContext(r.Context())
	sub, _ := appCtx.SubjectFrom(r.Context())
	n.gotEmail = sub.Email
	w.WriteHeader(http.StatusOK)
}

func runAuthMW(t *testing.T, verifier TokenVerifier, req *http.Request) (*httptest.ResponseRecorder, *writeErrRecorder, *nextRecorder) {
	t.Helper()

	rr := httptest.NewRecorder()
	we := &writeErrRecorder{}
	nx := &nextRecorder{}

	Auth(verifier, we.fn)(nx).ServeHTTP(rr, req)
	return rr, we, nx
}

func requestWithAuth(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if value != "" {
		req.Header.Set("Authorization", value)
	}
	return req
}

// ---- tests ----

func TestAuth_MissingAuthorizationHeader_ReturnsTokenMissing(t *testing.T) {
	v := &fakeVerifier{}

	_, we, nx := runAuthMW(t, v, requestWithAuth(""))

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if we.calls != 1 || !domain.Is(we.last, "token_missing") {
		t.Fatalf("expected token_missing once, got calls=%d err=%v", we.calls, we.last)
	}
	if v.calls != 0 {
		t.Fatalf("verifier should not be called when header missing")
	}
}

func TestAuth_BadAuthorizationScheme_ReturnsTokenInvalid(t *testing.T) {
	v := &fakeVerifier{}

	_, we, nx := runAuthMW(t, v, requestWithAuth("Basic abc"))

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
	if v.calls != 0 {
		t.Fatalf("verifier should not be called for a non-bearer scheme")
	}
}

func TestAuth_EmptyBearer_ReturnsTokenMissing(t *testing.T) {
	v := &fakeVerifier{}

	_, we, nx := runAuthMW(t, v, requestWithAuth("Bearer    "))

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if !domain.Is(we.last, "token_missing") {
		t.Fatalf("expected token_missing, got %v", we.last)
	}
}

func TestAuth_VerifierError_IsPassedThrough(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code string
	}{
		{"expired", domain.ErrTokenExpired(), "token_expired"},
		{"tampered", domain.ErrTokenInvalid(), "token_invalid"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := &fakeVerifier{err: tc.err}

			_, we, nx := runAuthMW(t, v, requestWithAuth("Bearer abc.def.ghi"))

			if nx.calls != 0 {
				t.Fatalf("expected next not called")
			}
			if v.gotTok != "abc.def.ghi" {
				t.Fatalf("unexpected token passed to verifier: %q", v.gotTok)
			}
			if !domain.Is(we.last, tc.code) {
				t.Fatalf("expected %s, got %v", tc.code, we.last)
			}
		})
	}
}

func TestAuth_EmptyUserIDInClaims_ReturnsTokenInvalid(t *testing.T) {
	v := &fakeVerifier{claims: auth.TokenClaims{Email: "a@x.com"}}

	_, we, nx := runAuthMW(t, v, requestWithAuth("Bearer tok"))

	if nx.calls != 0 {
		t.Fatalf("expected next not called")
	}
	if !domain.Is(we.last, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", we.last)
	}
}

func TestAuth_Success_InjectsIdentity(t *testing.T) {
	v := &fakeVerifier{claims: auth.TokenClaims{UserID: "u1", Email: "a@x.com"}}

	rr, we, nx := runAuthMW(t, v, requestWithAuth("bearer tok"))

	if we.calls != 0 {
		t.Fatalf("unexpected writeErr: %v", we.last)
	}
	if nx.calls != 1 || nx.gotUID != "u1" || nx.gotEmail != "a@x.com" {
		t.Fatalf("unexpected identity: %+v", nx)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestAuth_Rejection_SetsChallengeHeader(t *testing.T) {
	rr, _, _ := runAuthMW(t, &fakeVerifier{}, requestWithAuth(""))
	if got := rr.Header().Get("WWW-Authenticate"); got != `Bearer realm="api"` {
		t.Fatalf("unexpected challenge header %q", got)
	}

	rr, _, _ = runAuthMW(t, &fakeVerifier{claims: auth.TokenClaims{UserID: "u1"}}, requestWithAuth("Bearer tok"))
	if got := rr.Header().Get("WWW-Authenticate"); got != "" {
		t.Fatalf("no challenge expected on success, got %q", got)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		token  string
		code   string
	}{
		{"", "", "token_missing"},
		{"Bearer", "", "token_invalid"},
		{"Token abc", "", "token_invalid"},
		{"Bearer   ", "", "token_missing"},
		{"BEARER abc", "abc", ""},
		{"Bearer  abc ", "abc", ""},
	}
	for _, tc := range cases {
		tok, err := bearerToken(tc.header)
		if tc.code != "" {
			if !domain.Is(err, tc.code) {
				t.Fatalf("%q: expected %s, got %v", tc.header, tc.code, err)
			}
			continue
		}
		if err != nil || tok != tc.token {
			t.Fatalf("%q: expected %q, got %q (%v)", tc.header, tc.token, tok, err)
		}
	}
}

func TestAuth_NonDomainVerifierError(t *testing.T) {
	boom := errors.New("boom")
	v := &fakeVerifier{err: boom}

	_, we, _ := runAuthMW(t, v, requestWithAuth("Bearer tok"))

	if !errors.Is(we.last, boom) {
		t.Fatalf("expected raw error forwarded, got %v", we.last)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	if _, ok := UserIDFromContext(req.Context()); ok {
		t.Fatalf("expected no user id")
	}
	if uid, ok := UserIDFromContext(WithUser(req.Context(), "u1", "")); !ok || uid != "u1" {
		t.Fatalf("expected u1 without an email, got %q", uid)
	}
}
