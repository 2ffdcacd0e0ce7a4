//go:build !integration

package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"smallbiz-billing/internal/domain"
)

func TestPaystackGateway_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("sends minor units and metadata, returns the checkout URL", func(t *testing.T) {
		var gotAuth string
		var gotBody map[string]interface{}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/transaction/initialize" {
				t.Errorf("path = %s", r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			json.NewDecoder(r.Body).Decode(&gotBody)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":true,"message":"Authorization URL created","data":{"authorization_url":"https://checkout.paystack.com/abc","access_code":"abc","reference":"pro-acct123-1700000000000"}}`))
		}))
		defer srv.Close()

		g := NewPaystackDirectGateway("sk_test_x", srv.URL)
		url, err := g.Initialize(ctx, "owner@example.com", 2999, "NGN", "pro-acct123-1700000000000", "https://app.example/verify", "acct123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if url != "https://checkout.paystack.com/abc" {
			t.Errorf("url = %s", url)
		}
		if gotAuth != "Bearer sk_test_x" {
			t.Errorf("auth header = %q", gotAuth)
		}
		// 2999 major units cross the wire as 299900
		if amt, ok := gotBody["amount"].(float64); !ok || int64(amt) != 299900 {
			t.Errorf("amount = %v, want 299900", gotBody["amount"])
		}
		meta, _ := gotBody["metadata"].(map[string]interface{})
		if meta["user_id"] != "acct123" {
			t.Errorf("metadata.user_id = %v", meta["user_id"])
		}
	})

	t.Run("empty email is rejected before any network call", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request expected")
		}))
		defer srv.Close()

		g := NewPaystackDirectGateway("sk_test_x", srv.URL)
		_, err := g.Initialize(ctx, "", 2999, "NGN", "ref", "cb", "acct123")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Fatalf("expected ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("provider refusal is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
		}))
		defer srv.Close()

		g := NewPaystackDirectGateway("sk_bad", srv.URL)
		_, err := g.Initialize(ctx, "owner@example.com", 2999, "NGN", "ref", "cb", "acct123")
		if err == nil || !strings.Contains(err.Error(), "Invalid key") {
			t.Fatalf("expected provider error, got %v", err)
		}
	})
}

func TestPaystackGateway_Verify(t *testing.T) {
	ctx := context.Background()

	t.Run("successful charge", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/transaction/verify/pro-acct123-1700000000000" {
				t.Errorf("path = %s", r.URL.Path)
			}
			w.Write([]byte(`{"status":true,"data":{"status":"success","reference":"pro-acct123-1700000000000","amount":299900,"currency":"NGN","metadata":{"user_id":"acct123"}}}`))
		}))
		defer srv.Close()

		g := NewPaystackDirectGateway("sk_test_x", srv.URL)
		res, err := g.Verify(ctx, "pro-acct123-1700000000000")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !res.Succeeded {
			t.Error("expected Succeeded")
		}
		if res.AmountMinor != 299900 || res.Currency != "NGN" || res.UserID != "acct123" {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("abandoned charge reports not-succeeded without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":true,"data":{"status":"abandoned","reference":"ref-1","amount":0,"currency":"NGN","metadata":{}}}`))
		}))
		defer srv.Close()

		g := NewPaystackDirectGateway("sk_test_x", srv.URL)
		res, err := g.Verify(ctx, "ref-1")
		if err != nil {
			t.Fatalf("business failure must not be a transport error, got %v", err)
		}
		if res.Succeeded {
			t.Error("abandoned charge must not be Succeeded")
		}
	})

	t.Run("unreachable gateway is a transport error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		srv.Close() // refuse connections

		g := NewPaystackDirectGateway("sk_test_x", srv.URL)
		if _, err := g.Verify(ctx, "ref-1"); err == nil {
			t.Fatal("expected a transport error")
		}
	})
}
