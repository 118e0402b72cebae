package image

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProcess_DataURL(t *testing.T) {
	s := NewService(1 << 20)
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes(t))

	out, err := s.Process(ref)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Errorf("Expected a JPEG data URL, got prefix %q", out[:30])
	}
}

func TestProcess_BareBase64(t *testing.T) {
	s := NewService(1 << 20)
	ref := base64.StdEncoding.EncodeToString(pngBytes(t))

	out, err := s.Process(ref)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Error("Expected a JPEG data URL")
	}
}

func TestProcess_RemoteURL(t *testing.T) {
	payload := pngBytes(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer ts.Close()

	s := NewService(1 << 20)
	out, err := s.Process(ts.URL)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if !strings.HasPrefix(out, "data:image/jpeg;base64,") {
		t.Error("Expected a JPEG data URL")
	}
}

func TestProcess_Failures(t *testing.T) {
	s := NewService(64)

	tests := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"garbage", "!!not-base64!!"},
		{"non-image base64", base64.StdEncoding.EncodeToString([]byte("hello"))},
		{"unsupported data URL", "data:image/png;hex,0011"},
	}

	for _, tt := range tests {
		if _, err := s.Process(tt.ref); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
}

func TestProcess_SizeLimit(t *testing.T) {
	payload := pngBytes(t)
	s := NewService(int64(len(payload)) - 1)

	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)
	if _, err := s.Process(ref); err == nil {
		t.Error("Expected the size limit to reject the image")
	}
}
