package mailer_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reclaim/internal/services"
	"reclaim/internal/services/mailer"
)

func TestSendPostsMessage(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	client := mailer.NewClient(server.URL, "no-reply@campus.example", time.Second, mailer.WithHTTPClient(server.Client()))
	err := client.Send(context.Background(), "owner@campus.example", "Lost & Found", "<b>hello</b>")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if gotPath != "/send-email" {
		t.Fatalf("path %q, want /send-email", gotPath)
	}
	if gotBody["from"] != "no-reply@campus.example" || gotBody["to"] != "owner@campus.example" {
		t.Fatalf("addresses wrong: %v", gotBody)
	}
	if gotBody["subject"] != "Lost & Found" || gotBody["html"] != "<b>hello</b>" {
		t.Fatalf("content wrong: %v", gotBody)
	}
}

func TestSendNon2xxIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rejected", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := mailer.NewClient(server.URL, "no-reply@campus.example", time.Second, mailer.WithHTTPClient(server.Client()))
	err := client.Send(context.Background(), "owner@campus.example", "subject", "body")
	if !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestSendRejectsEmptyRecipient(t *testing.T) {
	client := mailer.NewClient("http://127.0.0.1:1", "no-reply@campus.example", time.Second)
	err := client.Send(context.Background(), "  ", "subject", "body")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNoopDiscards(t *testing.T) {
	if err := (mailer.Noop{}).Send(context.Background(), "anyone", "s", "b"); err != nil {
		t.Fatalf("noop send failed: %v", err)
	}
}
