package company

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/baechuer/company-registry/internal/domain"
)

// sniffLen is how much of the body is inspected to detect the content type.
const sniffLen = 3072

// allowedImages maps accepted sniffed types to the object-key extension.
var allowedImages = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// Upload is an image received from a client.
// Size is the size the client declared; Body is never read past MaxUploadSize+1.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// UploadMedia stores a logo or banner for the caller's profile and records its URL.
func (s *Service) UploadMedia(ctx context.Context, ownerID string, kind domain.MediaKind, up Upload) (string, error) {
	if kind != domain.MediaLogo && kind != domain.MediaBanner {
		return "", domain.ErrInvalidField("kind", "must be logo or banner")
	}
	if up.Body == nil {
		return "", domain.ErrMissingField(string(kind))
	}
	if up.Size > s.maxUploadSize {
		return "", domain.ErrFileTooLarge(s.maxUploadSize)
	}

	if _, err := s.repo.GetByOwner(ctx, ownerID); err != nil {
		return "", err
	}

	// the declared size is not trusted; read at most limit+1 bytes
	data, err := io.ReadAll(io.LimitReader(up.Body, s.maxUploadSize+1))
	if err != nil {
		return "", domain.ErrInvalidField(string(kind), "unreadable upload")
	}
	if int64(len(data)) > s.maxUploadSize {
		return "", domain.ErrFileTooLarge(s.maxUploadSize)
	}
	if len(data) == 0 {
		return "", domain.ErrMissingField(string(kind))
	}

	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	mt := mimetype.Detect(head)
	ext, ok := allowedImages[mt.String()]
	if !ok {
		return "", domain.ErrUnsupportedMediaType(mt.String())
	}

	key := kind.Folder() + "/" + ownerID + "/" + uuid.NewString() + ext

	url, err := s.media.Put(ctx, key, bytes.NewReader(data), mt.String(), int64(len(data)))
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return "", err
		}
		return "", domain.ErrMediaUnavailable(err)
	}

	if _, err := s.repo.SetMediaURL(ctx, ownerID, kind, url); err != nil {
		return "", err
	}

	s.audit("company_media_uploaded", map[string]string{
		"owner_id": ownerID,
		"kind":     string(kind),
		"key":      key,
	})
	return url, nil
}
