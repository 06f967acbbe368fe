package moderation_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reclaim/internal/services/moderation"
)

// pngHeader is enough bytes for content-type sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func newGateServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *moderation.Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := moderation.NewClient(server.URL, time.Second, moderation.WithHTTPClient(server.Client()))
	return server, client
}

func TestCheckImageSafe(t *testing.T) {
	var gotImage string
	_, client := newGateServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/moderate-image" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Image string `json:"image"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotImage = req.Image
		_ = json.NewEncoder(w).Encode(map[string]bool{"isSafe": true})
	})

	verdict, err := client.CheckImage(context.Background(), pngHeader)
	if err != nil {
		t.Fatalf("CheckImage failed: %v", err)
	}
	if verdict != moderation.Safe {
		t.Fatalf("verdict %v, want safe", verdict)
	}
	if !strings.HasPrefix(gotImage, "data:image/png;base64,") {
		t.Fatalf("image should be sent as a png data URI, got prefix %q", gotImage[:min(40, len(gotImage))])
	}
}

func TestCheckImageUnsafe(t *testing.T) {
	_, client := newGateServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"isSafe": false})
	})

	verdict, err := client.CheckImage(context.Background(), pngHeader)
	if err != nil {
		t.Fatalf("CheckImage failed: %v", err)
	}
	if verdict != moderation.Unsafe {
		t.Fatalf("verdict %v, want unsafe", verdict)
	}
}

func TestCheckImageMissingFieldIsIndeterminate(t *testing.T) {
	_, client := newGateServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"note": "no verdict"})
	})

	verdict, err := client.CheckImage(context.Background(), pngHeader)
	if err != nil {
		t.Fatalf("missing isSafe must not be an error: %v", err)
	}
	if verdict != moderation.Indeterminate {
		t.Fatalf("verdict %v, want indeterminate", verdict)
	}
}

func TestCheckImageServerErrorIsIndeterminate(t *testing.T) {
	_, client := newGateServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	})

	verdict, err := client.CheckImage(context.Background(), pngHeader)
	if err != nil {
		t.Fatalf("non-2xx must not be an error: %v", err)
	}
	if verdict != moderation.Indeterminate {
		t.Fatalf("verdict %v, want indeterminate", verdict)
	}
}

func TestCheckImageTransportFailure(t *testing.T) {
	client := moderation.NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	verdict, err := client.CheckImage(context.Background(), pngHeader)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if verdict != moderation.Indeterminate {
		t.Fatalf("verdict %v, want indeterminate", verdict)
	}
}

func TestCheckImageRejectsEmptyPayload(t *testing.T) {
	_, client := newGateServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for empty payload")
	})

	if _, err := client.CheckImage(context.Background(), nil); err == nil {
		t.Fatal("expected validation error")
	}
}
