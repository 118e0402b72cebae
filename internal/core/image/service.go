package image

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"
	"strings"
	"time"

	_ "image/gif" // GIF support
	_ "image/png" // PNG support

	_ "golang.org/x/image/webp" // WebP support
)

// Service normalizes generated illustrations. Whatever the model answered
// with, a remote URL or a base64 data URL, the caller gets back a bounded
// JPEG data URL ready to store.
type Service struct {
	maxSizeBytes int64
	httpClient   *http.Client
}

// NewService creates an illustration processing service.
func NewService(maxSizeBytes int64) *Service {
	return &Service{
		maxSizeBytes: maxSizeBytes,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Process fetches (when needed), validates and re-encodes an illustration
// reference to a JPEG data URL.
func (s *Service) Process(ref string) (string, error) {
	if ref == "" {
		return "", fmt.Errorf("image reference is empty")
	}

	var raw []byte

	switch {
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		downloaded, err := s.download(ref)
		if err != nil {
			return "", err
		}
		raw = downloaded
	case strings.HasPrefix(ref, "data:image/"):
		idx := strings.Index(ref, "base64,")
		if idx < 0 {
			return "", fmt.Errorf("unsupported data URL encoding")
		}
		decoded, err := base64.StdEncoding.DecodeString(ref[idx+len("base64,"):])
		if err != nil {
			return "", fmt.Errorf("failed to decode base64 image data: %w", err)
		}
		raw = decoded
	default:
		decoded, err := base64.StdEncoding.DecodeString(ref)
		if err != nil {
			return "", fmt.Errorf("unrecognized image reference")
		}
		raw = decoded
	}

	if int64(len(raw)) > s.maxSizeBytes {
		return "", fmt.Errorf("image size exceeds maximum limit of %d bytes", s.maxSizeBytes)
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}
	if !isSupportedFormat(format) {
		return "", fmt.Errorf("unsupported image format: %s", format)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode image as JPEG: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	return fmt.Sprintf("data:image/jpeg;base64,%s", encoded), nil
}

func (s *Service) download(url string) ([]byte, error) {
	resp, err := s.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download image: status code %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image data: %w", err)
	}

	return raw, nil
}

func isSupportedFormat(format string) bool {
	switch format {
	case "jpeg", "png", "gif", "webp":
		return true
	}
	return false
}
