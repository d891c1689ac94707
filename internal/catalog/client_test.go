package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return New(server.URL, 2*time.Second)
}

func TestListProvincesDecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/locations/provinces" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":[{"code":"79","name":"Ho Chi Minh"}]}`))
	})

	options, err := c.ListProvinces(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(options) != 1 || options[0].Code != "79" {
		t.Fatalf("unexpected options: %+v", options)
	}
}

func TestRegisterShopAccountRejection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"email already taken"}`))
	})

	err := c.RegisterShopAccount(context.Background(), AccountRegistration{Email: "owner@example.com"})
	if err == nil {
		t.Fatal("expected rejection error")
	}
	if !IsRejection(err) {
		t.Fatalf("expected RejectionError, got %T: %v", err, err)
	}
	if err.Error() != "email already taken" {
		t.Fatalf("expected backend message, got %q", err.Error())
	}
}

func TestRegisterShopAccountTransportFailureIsNotRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close() // connection refused from here on
	c := New(server.URL, time.Second)

	err := c.RegisterShopAccount(context.Background(), AccountRegistration{})
	if err == nil {
		t.Fatal("expected transport error")
	}
	if IsRejection(err) {
		t.Fatalf("transport failure must not look like a rejection: %v", err)
	}
}

func TestCreateCategoryReturnsCreatedID(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":{"id":"cat-123"}}`))
	})

	id, err := c.CreateCategory(context.Background(), "food", []string{"pho"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "cat-123" {
		t.Fatalf("expected cat-123, got %q", id)
	}
}

func TestSuggestTagsSendsKeyword(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("keyword"); got != "ph" {
			t.Errorf("expected keyword=ph, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"data":["pho","pho bo"]}`))
	})

	tags, err := c.SuggestTags(context.Background(), "food", "ph")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("unexpected tags: %v", tags)
	}
}
