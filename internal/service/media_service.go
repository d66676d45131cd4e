package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"
)

// MaxImageBytes caps avatar and cover uploads at 5 MB.
const MaxImageBytes = 5 << 20

// ImageKind names the profile slot an upload is destined for.
type ImageKind string

const (
	ImageKindAvatar ImageKind = "avatar"
	ImageKindCover  ImageKind = "cover"
)

// ImageUpload is an uploaded file as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
}

var (
	imageFormatsByExt = map[string]string{
		".jpg":  "jpeg",
		".jpeg": "jpeg",
		".png":  "png",
		".gif":  "gif",
		".webp": "webp",
	}
	imageFormatsByMIME = map[string]string{
		"image/jpeg": "jpeg",
		"image/jpg":  "jpeg",
		"image/png":  "png",
		"image/gif":  "gif",
		"image/webp": "webp",
	}
)

// MediaService 负责校验并保存上传的图片
type MediaService struct {
	dir      string
	urlPath  string
	maxBytes int64
	now      func() time.Time
}

// NewMediaService stores files under dir and publishes them below urlPath.
func NewMediaService(dir, urlPath string) *MediaService {
	urlPath = "/" + strings.Trim(strings.TrimSpace(urlPath), "/")
	return &MediaService{dir: dir, urlPath: urlPath, maxBytes: MaxImageBytes, now: time.Now}
}

// SaveImage validates the upload by extension, declared content type and
// decoded content, writes it to disk and returns its public URL.
func (s *MediaService) SaveImage(kind ImageKind, upload ImageUpload) (string, error) {
	if upload.Content == nil {
		return "", fmt.Errorf("%w: image file is required", ErrValidation)
	}
	if upload.Size > s.maxBytes {
		return "", fmt.Errorf("%w: image must not exceed 5 MB", ErrValidation)
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	extFormat, ok := imageFormatsByExt[ext]
	if !ok {
		return "", fmt.Errorf("%w: only jpeg, png, gif and webp images are accepted", ErrValidation)
	}

	mediaType, _, err := mime.ParseMediaType(upload.ContentType)
	if err != nil {
		return "", fmt.Errorf("%w: image content type is invalid", ErrValidation)
	}
	mimeFormat, ok := imageFormatsByMIME[strings.ToLower(mediaType)]
	if !ok {
		return "", fmt.Errorf("%w: only jpeg, png, gif and webp images are accepted", ErrValidation)
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("%w: image must not exceed 5 MB", ErrValidation)
	}

	_, decodedFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || decodedFormat != mimeFormat {
		return "", fmt.Errorf("%w: file content is not a valid %s image", ErrValidation, mimeFormat)
	}
	if extFormat != mimeFormat {
		return "", fmt.Errorf("%w: file extension does not match its content type", ErrValidation)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := fmt.Sprintf("%s-%s-%s%s", kind, s.now().Format("20060102"), uuid.NewString(), ext)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("save upload: %w", err)
	}

	return path.Join(s.urlPath, name), nil
}
