package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestCreatePayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/payments" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var p PaymentRequest
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if p.TxRef != "order-7-1714564800" {
			t.Errorf("tx_ref = %s", p.TxRef)
		}
		if !p.Amount.Equal(decimal.RequireFromString("250.00")) {
			t.Errorf("amount = %s", p.Amount)
		}
		if p.Meta.OrderID != 7 {
			t.Errorf("meta order id = %d", p.Meta.OrderID)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Hosted Link",
			"data":    map[string]string{"link": "https://checkout.example.com/pay/abc"},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	link, err := c.CreatePayment(context.Background(), PaymentRequest{
		TxRef:    "order-7-1714564800",
		Amount:   decimal.RequireFromString("250.00"),
		Currency: "NGN",
		Customer: Customer{Email: "customer@example.com"},
		Meta:     Meta{OrderID: 7},
	})
	if err != nil {
		t.Fatalf("CreatePayment error: %v", err)
	}
	if link != "https://checkout.example.com/pay/abc" {
		t.Fatalf("link = %s", link)
	}
}

func TestCreatePayment_GatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "error", "message": "Invalid currency"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	if _, err := c.CreatePayment(context.Background(), PaymentRequest{}); err == nil {
		t.Fatalf("expected error on gateway rejection")
	}
}

func TestVerifyTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transactions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("tx_ref"); got != "order-7-1714564800" {
			t.Errorf("tx_ref = %s", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   []map[string]string{{"status": "successful"}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	status, err := c.VerifyTransaction(context.Background(), "order-7-1714564800")
	if err != nil {
		t.Fatalf("VerifyTransaction error: %v", err)
	}
	if status != StatusSuccessful {
		t.Fatalf("status = %s, want successful", status)
	}
}

func TestVerifyTransaction_UnknownReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success",
			"data":   []map[string]string{},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "sk-test")
	status, err := c.VerifyTransaction(context.Background(), "order-999-1")
	if err != nil {
		t.Fatalf("VerifyTransaction error: %v", err)
	}
	if status != StatusPending {
		t.Fatalf("status = %s, want pending", status)
	}
}
