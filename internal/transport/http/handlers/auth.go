package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/company-registry/internal/application/auth"
	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
	"github.com/baechuer/company-registry/internal/transport/http/dto"
	"github.com/baechuer/company-registry/internal/transport/http/middleware"
	"github.com/baechuer/company-registry/internal/transport/http/response"
)

// Validator is the request pre-check run before any flow.
type Validator interface {
	Struct(v any) error
}

type AuthHandler struct {
	svc *auth.Service
	val Validator
}

func NewAuthHandler(svc *auth.Service, val Validator) *AuthHandler {
	return &AuthHandler{svc: svc, val: val}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.ObserveOutcome(middleware.FlowRegister, err)
		response.WriteError(w, r, err)
		return
	}

	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		middleware.ObserveOutcome(middleware.FlowRegister, err)
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), req.Input())
	middleware.ObserveOutcome(middleware.FlowRegister, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_registered")

	response.Created(w, dto.NewAuthData(res.User, res.Token))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		middleware.ObserveOutcome(middleware.FlowLogin, err)
		response.WriteError(w, r, err)
		return
	}

	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		middleware.ObserveOutcome(middleware.FlowLogin, err)
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	middleware.ObserveOutcome(middleware.FlowLogin, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.NewAuthData(res.User, res.Token))
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	u, err := h.svc.GetUserByID(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.OK(w, dto.MeData{User: dto.NewUserView(u.Public())})
}

// ---- Email verification ----

func (h *AuthHandler) VerifyEmailRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	sent, err := h.svc.VerifyEmailRequest(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if !sent {
		response.OK(w, dto.StatusData{Status: "already_verified"})
		return
	}
	response.Accepted(w, dto.StatusData{Status: "sent"})
}

// VerifyEmailConfirm handles GET /verify-email/{token}, the link sent by email.
func (h *AuthHandler) VerifyEmailConfirm(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		response.WriteError(w, r, domain.ErrMissingField("token"))
		return
	}

	err := h.svc.VerifyEmailConfirm(r.Context(), token)
	middleware.ObserveOutcome(middleware.FlowVerifyEmail, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatusData{Status: "verified"})
}

// ---- Mobile verification ----

func (h *AuthHandler) VerifyMobileRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	sent, err := h.svc.VerifyMobileRequest(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	if !sent {
		response.OK(w, dto.StatusData{Status: "already_verified"})
		return
	}
	response.Accepted(w, dto.StatusData{Status: "sent"})
}

func (h *AuthHandler) VerifyMobileConfirm(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	var req dto.VerifyMobileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	err := h.svc.VerifyMobileConfirm(r.Context(), uid, req.Code)
	middleware.ObserveOutcome(middleware.FlowVerifyMobile, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.StatusData{Status: "verified"})
}
