package company

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/baechuer/company-registry/internal/domain"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func gifBody() []byte { return append([]byte("GIF89a"), make([]byte, 32)...) }

func seedProfile(t *testing.T, svc *Service) {
	t.Helper()
	if _, err := svc.Create(context.Background(), "u1", validFields()); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestUploadMedia_Logo_Success(t *testing.T) {
	t.Parallel()

	svc, repo, media, _, _ := newSvcForTest(t, 1024)
	seedProfile(t, svc)

	url, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{
		Filename: "logo.png",
		Size:     int64(len(pngHeader)),
		Body:     bytes.NewReader(pngHeader),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if len(media.calls) != 1 {
		t.Fatalf("expected 1 put, got %d", len(media.calls))
	}
	call := media.calls[0]
	if !strings.HasPrefix(call.key, "company_logos/u1/") || !strings.HasSuffix(call.key, ".png") {
		t.Fatalf("unexpected key %q", call.key)
	}
	if call.contentType != "image/png" || call.size != int64(len(pngHeader)) || !bytes.Equal(call.body, pngHeader) {
		t.Fatalf("unexpected put %+v", call)
	}
	if url != "https://cdn.test/"+call.key || repo.byOwner["u1"].LogoURL != url {
		t.Fatalf("url not recorded: %q / %+v", url, repo.byOwner["u1"])
	}
}

func TestUploadMedia_Banner_UsesBannerFolder(t *testing.T) {
	t.Parallel()

	svc, repo, media, _, _ := newSvcForTest(t, 1024)
	seedProfile(t, svc)

	body := gifBody()
	url, err := svc.UploadMedia(context.Background(), "u1", domain.MediaBanner, Upload{Size: int64(len(body)), Body: bytes.NewReader(body)})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(media.calls[0].key, "company_banners/u1/") || !strings.HasSuffix(media.calls[0].key, ".gif") {
		t.Fatalf("unexpected key %q", media.calls[0].key)
	}
	if repo.byOwner["u1"].BannerURL != url || repo.byOwner["u1"].LogoURL != "" {
		t.Fatalf("unexpected profile %+v", repo.byOwner["u1"])
	}
}

func TestUploadMedia_NoProfile_NotFound(t *testing.T) {
	t.Parallel()

	svc, _, media, _, _ := newSvcForTest(t, 1024)

	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Size: 10, Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, "company_not_found")
	if len(media.calls) != 0 {
		t.Fatalf("expected no upload")
	}
}

func TestUploadMedia_MissingFile(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t, 1024)
	seedProfile(t, svc)

	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{})
	requireCode(t, err, "missing_field")

	_, err = svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Body: bytes.NewReader(nil)})
	requireCode(t, err, "missing_field")
}

func TestUploadMedia_DeclaredTooLarge(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t, 16)
	seedProfile(t, svc)

	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Size: 17, Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, "file_too_large")
}

func TestUploadMedia_ActualBodyTooLarge(t *testing.T) {
	t.Parallel()

	svc, _, media, _, _ := newSvcForTest(t, 16)
	seedProfile(t, svc)

	// declared size lies
	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Size: 8, Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, "file_too_large")
	if len(media.calls) != 0 {
		t.Fatalf("expected no upload")
	}
}

func TestUploadMedia_UnsupportedType(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t, 1024)
	seedProfile(t, svc)

	body := []byte("just some plain text, definitely not an image")
	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Size: int64(len(body)), Body: bytes.NewReader(body)})
	requireCode(t, err, "unsupported_media_type")
}

func TestUploadMedia_StoreFailure_MediaUnavailable(t *testing.T) {
	t.Parallel()

	svc, repo, media, _, _ := newSvcForTest(t, 1024)
	seedProfile(t, svc)
	media.err = errors.New("s3 down")

	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaLogo, Upload{Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, "media_unavailable")
	if repo.byOwner["u1"].LogoURL != "" {
		t.Fatalf("url must not be recorded on failure")
	}
}

func TestUploadMedia_InvalidKind(t *testing.T) {
	t.Parallel()

	svc, _, _, _, _ := newSvcForTest(t, 1024)
	_, err := svc.UploadMedia(context.Background(), "u1", domain.MediaKind("avatar"), Upload{Body: bytes.NewReader(pngHeader)})
	requireCode(t, err, "invalid_field")
}
