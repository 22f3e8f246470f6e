package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/company-registry/internal/domain"
)

func TestRegister_MissingFields(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*RegisterInput){
		"email":    func(in *RegisterInput) { in.Email = "  " },
		"password": func(in *RegisterInput) { in.Password = "" },
		"fullName": func(in *RegisterInput) { in.FullName = "" },
		"mobile":   func(in *RegisterInput) { in.Mobile = "" },
	}
	for field, blank := range cases {
		field, blank := field, blank
		t.Run(field, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)

			in := validRegisterInput()
			blank(&in)
			_, err := h.svc.Register(context.Background(), in)

			requireCode(t, err, "missing_field")
			de, _ := domain.As(err)
			assert.Equal(t, field, de.Meta["field"])
			assert.Zero(t, h.users.count())
		})
	}
}

func TestRegister_InvalidGender(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	in := validRegisterInput()
	in.Gender = domain.Gender("robot")
	_, err := h.svc.Register(context.Background(), in)

	requireCode(t, err, "invalid_field")
}

func TestRegister_HasherErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"plain error is wrapped", errors.New("boom"), "hash_failed"},
		{"domain error passes through", domain.ErrInvalidField("password", "must be at most 72 bytes"), "invalid_field"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			h.hasher.hash = func(string) (string, error) { return "", tc.err }

			_, err := h.svc.Register(context.Background(), validRegisterInput())

			requireCode(t, err, tc.want)
			assert.Zero(t, h.users.count())
		})
	}
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	res, err := h.svc.Register(context.Background(), RegisterInput{
		Email:    "  A@X.com ",
		Password: "secret1",
		FullName: "A B",
		Mobile:   "9876543210",
		Gender:   domain.GenderFemale,
	})
	require.NoError(t, err)

	require.NotEmpty(t, res.User.ID)
	assert.Equal(t, "a@x.com", res.User.Email)
	assert.Equal(t, "hash:secret1", res.User.PasswordHash)
	assert.Equal(t, "jwt("+res.User.ID+",a@x.com)", res.Token.Token)
	assert.Equal(t, "Bearer", res.Token.TokenType)
	assert.Equal(t, int64(time.Hour.Seconds()), res.Token.ExpiresIn)
	assert.Equal(t, time.Hour, h.signer.lastTTL)
	assert.Equal(t, res.User.ID, h.users.row(res.User.ID).ID)

	e := h.lastAudit(t, "user_registered")
	assert.Equal(t, res.User.ID, e.fields["user_id"])
}

func TestRegister_DuplicateIdentity_Conflict(t *testing.T) {
	t.Parallel()

	cases := map[string]func(*RegisterInput){
		"same email":  func(in *RegisterInput) { in.Mobile = "9999999999" },
		"same mobile": func(in *RegisterInput) { in.Email = "other@x.com" },
	}
	for name, vary := range cases {
		name, vary := name, vary
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			_, err := h.svc.Register(context.Background(), validRegisterInput())
			require.NoError(t, err)

			in := validRegisterInput()
			vary(&in)
			_, err = h.svc.Register(context.Background(), in)

			requireCode(t, err, "user_already_exists")
			assert.Equal(t, 1, h.users.count())
		})
	}
}

func TestRegister_StoreErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		op   string
		err  error
		want string
	}{
		// lookup saw nothing, but a concurrent insert won the race
		{"Create", domain.ErrUserAlreadyExists(), "user_already_exists"},
		{"GetByEmailOrMobile", domain.ErrDBUnavailable(errors.New("down")), "db_unavailable"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.op, func(t *testing.T) {
			t.Parallel()
			h := newHarness(t)
			h.users.fail[tc.op] = tc.err

			_, err := h.svc.Register(context.Background(), validRegisterInput())
			requireCode(t, err, tc.want)
		})
	}
}

func TestRegister_SignFailure(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.signer.err = errors.New("hsm down")

	_, err := h.svc.Register(context.Background(), validRegisterInput())
	requireCode(t, err, "token_sign_failed")
}

func TestLogin_EmptyFields(t *testing.T) {
	t.Parallel()
	h := newHarness(t)

	_, err := h.svc.Login(context.Background(), "", "")
	requireCode(t, err, "invalid_credentials")
}

func TestLogin_UnknownEmailAndBadPassword_Indistinguishable(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.users.seed(domain.User{ID: "u1", Email: "e@x.com", Mobile: "1", PasswordHash: "hash:pw"})

	_, errUnknown := h.svc.Login(context.Background(), "missing@x.com", "pw")
	assert.Equal(t, "unknown_email", h.lastAudit(t, "login_failed").fields["reason"])
	_, errBadPw := h.svc.Login(context.Background(), "e@x.com", "wrong")
	assert.Equal(t, "bad_password", h.lastAudit(t, "login_failed").fields["reason"])

	a, okA := domain.As(errUnknown)
	b, okB := domain.As(errBadPw)
	require.True(t, okA && okB, "%v / %v", errUnknown, errBadPw)
	assert.Equal(t, "invalid_credentials", a.Code)
	assert.Equal(t, a.Kind, b.Kind)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.Message, b.Message)
}

func TestLogin_CorruptStoredHash_IsNotInvalidCredentials(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.users.seed(domain.User{ID: "u1", Email: "e@x.com", Mobile: "1", PasswordHash: "garbage"})
	h.hasher.compare = func(string, string) error { return domain.ErrHashFailed(errors.New("bad digest")) }

	_, err := h.svc.Login(context.Background(), "e@x.com", "pw")

	requireCode(t, err, "hash_failed")
	assert.Empty(t, h.audits)
}

func TestLogin_StoreFailure_Propagates(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.users.fail["GetByEmail"] = domain.ErrDBUnavailable(errors.New("down"))

	_, err := h.svc.Login(context.Background(), "e@x.com", "pw")
	requireCode(t, err, "db_unavailable")
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.users.seed(domain.User{ID: "u1", Email: "e@x.com", Mobile: "1", PasswordHash: "hash:pw", IsEmailVerified: true})

	res, err := h.svc.Login(context.Background(), "  E@x.com  ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "u1", res.User.ID)
	assert.True(t, res.User.IsEmailVerified)
	assert.Equal(t, "jwt(u1,e@x.com)", res.Token.Token)
	h.lastAudit(t, "login_success")
}

func TestLogin_DoesNotMutateStore(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	u := domain.User{ID: "u1", Email: "e@x.com", Mobile: "1", PasswordHash: "hash:pw"}
	h.users.seed(u)

	for i := 0; i < 2; i++ {
		_, err := h.svc.Login(context.Background(), "e@x.com", "pw")
		require.NoError(t, err, "login %d", i)
	}
	assert.Equal(t, u, h.users.row("u1"))
}

func TestGetUserByID(t *testing.T) {
	t.Parallel()
	h := newHarness(t)
	h.users.seed(domain.User{ID: "u1", Email: "e@x.com", Mobile: "1"})

	u, err := h.svc.GetUserByID(context.Background(), " u1 ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = h.svc.GetUserByID(context.Background(), "nope")
	requireCode(t, err, "user_not_found")

	_, err = h.svc.GetUserByID(context.Background(), "  ")
	requireCode(t, err, "token_invalid")
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, "", codeOf(nil))
	assert.Equal(t, "non_domain_error", codeOf(errors.New("plain")))
	assert.Equal(t, "rate_limited", codeOf(domain.ErrRateLimited("x")))
}
