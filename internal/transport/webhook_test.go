package transport

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWebhookPush(t *testing.T) {
	type received struct {
		body    []byte
		headers http.Header
	}
	got := make(chan received, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{body: body, headers: r.Header.Clone()}
	}))
	defer ts.Close()

	w := NewWebhook(stubCodec{}, ts.URL, "hook-secret", 0, zap.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	payload := []byte(`{"type":"message"}`)
	w.Deliver(payload)

	var rec received
	select {
	case rec = <-got:
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never delivered")
	}

	if string(rec.body) != string(payload) {
		t.Errorf("body = %s", rec.body)
	}
	if rec.headers.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", rec.headers.Get("Content-Type"))
	}
	if rec.headers.Get("User-Agent") != "crossgate" {
		t.Errorf("User-Agent = %q", rec.headers.Get("User-Agent"))
	}
	if rec.headers.Get("X-Request-Id") == "" {
		t.Error("X-Request-Id missing")
	}
	if rec.headers.Get("X-Stub-Version") != "0" {
		t.Error("codec webhook headers not applied")
	}

	mac := hmac.New(sha256.New, []byte("hook-secret"))
	mac.Write(payload)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if sig := rec.headers.Get("X-Signature"); sig != want {
		t.Errorf("X-Signature = %q, want %q", sig, want)
	}
}

func TestWebhookNoSecretNoSignature(t *testing.T) {
	got := make(chan http.Header, 1)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Clone()
	}))
	defer ts.Close()

	w := NewWebhook(stubCodec{}, ts.URL, "", 0, zap.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	w.Deliver([]byte(`{}`))

	select {
	case h := <-got:
		if h.Get("X-Signature") != "" {
			t.Error("signature sent without a configured secret")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("webhook never delivered")
	}
}

func TestWebhookFailedPushDoesNotBlock(t *testing.T) {
	// Nothing listens on this address; every push fails. Deliver must
	// stay non-blocking regardless.
	w := NewWebhook(stubCodec{}, "http://127.0.0.1:1/hook", "", time.Second, zap.NewNop())
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	done := make(chan struct{})
	go func() {
		for i := 0; i < sendQueueSize*2; i++ {
			w.Deliver([]byte(`{}`))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Deliver blocked on failing sink")
	}
	w.Stop()
}
