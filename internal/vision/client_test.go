package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	apperrors "promptforge/internal/errors"
)

const tinyImage = "data:image/png;base64,iVBORw0KGgo="

func TestDescribeSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing auth header, got %q", r.Header.Get("Authorization"))
		}
		var req describeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Language != "ru" {
			t.Errorf("language = %q, want ru", req.Language)
		}
		json.NewEncoder(w).Encode(describeResponse{Description: "a red square"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "secret")
	desc, err := c.Describe(context.Background(), tinyImage, "ru")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc != "a red square" {
		t.Errorf("description = %q", desc)
	}
}

func TestDescribeServiceError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(describeResponse{Error: "model unavailable"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	_, err := c.Describe(context.Background(), tinyImage, "")
	if err == nil {
		t.Fatal("expected an error from the service body")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("error does not carry the service message: %v", err)
	}
}

func TestDescribeRetriesServerFailures(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(describeResponse{Description: "eventually fine"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	desc, err := c.Describe(context.Background(), tinyImage, "")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if desc != "eventually fine" {
		t.Errorf("description = %q", desc)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected one retry, server saw %d calls", calls)
	}
}

func TestDescribeDoesNotRetryRejections(t *testing.T) {
	var calls int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "unsupported image", http.StatusUnprocessableEntity)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "")
	_, err := c.Describe(context.Background(), tinyImage, "")
	if err == nil {
		t.Fatal("expected an error")
	}
	app := apperrors.GetAppError(err)
	if app.Code != apperrors.ErrCodeValidation {
		t.Errorf("expected a validation error, got %v", app.Code)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("rejections must not be retried, server saw %d calls", calls)
	}
}

func TestDescribeRejectsNonImagePayload(t *testing.T) {
	c := NewClient("http://unused.invalid", "")
	for _, payload := range []string{
		"data:text/plain;base64,aGVsbG8=",
		"not a data url",
		"data:image/png,raw-not-base64",
	} {
		if _, err := c.Describe(context.Background(), payload, ""); err == nil {
			t.Errorf("payload %q should be rejected before any request", payload)
		}
	}
}

func TestDescribeRejectsOversizePayload(t *testing.T) {
	c := NewClient("http://unused.invalid", "")
	big := "data:image/png;base64," + strings.Repeat("A", (MaxImageBytes/3+2)*4)
	if _, err := c.Describe(context.Background(), big, ""); err == nil {
		t.Error("oversize payload should be rejected")
	}
}

func TestDescribeWithoutEndpoint(t *testing.T) {
	c := NewClient("", "")
	if _, err := c.Describe(context.Background(), tinyImage, ""); err == nil {
		t.Error("expected a configuration error")
	}
}

func TestEncodeImageFile(t *testing.T) {
	// Minimal valid PNG header so content sniffing sees an image.
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	path := filepath.Join(t.TempDir(), "img.png")
	if err := os.WriteFile(path, png, 0644); err != nil {
		t.Fatal(err)
	}

	dataURL, err := EncodeImageFile(path)
	if err != nil {
		t.Fatalf("EncodeImageFile failed: %v", err)
	}
	if !strings.HasPrefix(dataURL, "data:image/png;base64,") {
		t.Errorf("unexpected data URL prefix: %q", dataURL)
	}
	encoded := strings.TrimPrefix(dataURL, "data:image/png;base64,")
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || string(decoded) != string(png) {
		t.Errorf("payload did not round-trip: %v", err)
	}
}

func TestEncodeImageFileRejectsNonImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text, definitely not an image"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := EncodeImageFile(path); err == nil {
		t.Error("text file should be rejected")
	}
}
