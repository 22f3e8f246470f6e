package http_handlers

import (
	"errors"
	"net/http"

	"github.com/baechuer/company-registry/internal/application/company"
	"github.com/baechuer/company-registry/internal/domain"
	"github.com/baechuer/company-registry/internal/logger"
	"github.com/baechuer/company-registry/internal/transport/http/dto"
	"github.com/baechuer/company-registry/internal/transport/http/middleware"
	"github.com/baechuer/company-registry/internal/transport/http/response"
)

const (
	// multipartOverhead is the allowance for boundaries and part headers on top of the file itself.
	multipartOverhead = 1 << 20
	// multipartMemory is how much of a form is buffered before spilling to disk.
	multipartMemory = 1 << 20
)

type CompanyHandler struct {
	svc *company.Service
	val Validator
}

func NewCompanyHandler(svc *company.Service, val Validator) *CompanyHandler {
	return &CompanyHandler{svc: svc, val: val}
}

func (h *CompanyHandler) Register(w http.ResponseWriter, r *http.Request) {
	uid, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Create(r.Context(), uid, req.Fields())
	middleware.ObserveOutcome(middleware.FlowCompanyRegister, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("owner_id", uid).
		Str("company_id", c.ID).
		Msg("company_created")

	response.Created(w, dto.CompanyData{Company: dto.NewCompanyView(c)})
}

func (h *CompanyHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return
	}

	c, err := h.svc.Get(r.Context(), uid)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.CompanyData{Company: dto.NewCompanyView(c)})
}

func (h *CompanyHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, req, ok := h.decode(w, r)
	if !ok {
		return
	}

	c, err := h.svc.Update(r.Context(), uid, req.Fields())
	middleware.ObserveOutcome(middleware.FlowCompanyUpdate, err)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}
	response.OK(w, dto.CompanyData{Company: dto.NewCompanyView(c)})
}

func (h *CompanyHandler) UploadLogo(w http.ResponseWriter, r *http.Request) {
	url, ok := h.upload(w, r, domain.MediaLogo)
	if !ok {
		return
	}
	response.OK(w, dto.LogoData{LogoURL: url})
}

func (h *CompanyHandler) UploadBanner(w http.ResponseWriter, r *http.Request) {
	url, ok := h.upload(w, r, domain.MediaBanner)
	if !ok {
		return
	}
	response.OK(w, dto.BannerData{BannerURL: url})
}

// decode reads and pre-checks a company body for the authenticated caller.
func (h *CompanyHandler) decode(w http.ResponseWriter, r *http.Request) (string, dto.CompanyRequest, bool) {
	var req dto.CompanyRequest

	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return "", req, false
	}

	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return "", req, false
	}
	req.Normalize()
	if err := h.val.Struct(req); err != nil {
		response.WriteError(w, r, err)
		return "", req, false
	}
	return uid, req, true
}

// upload reads the multipart field named after kind ("logo" / "banner").
func (h *CompanyHandler) upload(w http.ResponseWriter, r *http.Request, kind domain.MediaKind) (string, bool) {
	uid, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, domain.ErrTokenMissing())
		return "", false
	}

	limit := h.svc.MaxUploadSize()
	r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, r, domain.ErrFileTooLarge(limit))
			return "", false
		}
		response.WriteError(w, r, domain.ErrInvalidField(string(kind), "expected multipart/form-data"))
		return "", false
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, hdr, err := r.FormFile(string(kind))
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.WriteError(w, r, domain.ErrMissingField(string(kind)))
			return "", false
		}
		response.WriteError(w, r, domain.ErrInvalidField(string(kind), "unreadable upload"))
		return "", false
	}
	defer file.Close()

	url, err := h.svc.UploadMedia(r.Context(), uid, kind, company.Upload{
		Filename: hdr.Filename,
		Size:     hdr.Size,
		Body:     file,
	})
	middleware.ObserveOutcome(middleware.FlowMediaUpload, err)
	if err != nil {
		response.WriteError(w, r, err)
		return "", false
	}

	logger.WithCtx(r.Context()).Info().
		Str("owner_id", uid).
		Str("kind", string(kind)).
		Msg("company_media_uploaded")
	return url, true
}
