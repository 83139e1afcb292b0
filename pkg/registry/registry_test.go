package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRegister_Success(t *testing.T) {
	var gotBody Registration
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Path != "/v1/agent/service/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Register(context.Background(), Registration{
		ID:      "order-svc-1",
		Name:    "order-svc",
		Address: "127.0.0.1",
		Port:    3002,
		Check: HealthCheck{
			HTTP:                           "http://127.0.0.1:3002/health_check",
			Interval:                       "20s",
			DeregisterCriticalServiceAfter: "30m",
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if gotBody.ID != "order-svc-1" {
		t.Errorf("expected registration body to round-trip, got %+v", gotBody)
	}
}

func TestDeregister_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	if err := c.Deregister(context.Background(), "order-svc-1"); err != nil {
		t.Fatalf("deregister failed: %v", err)
	}
	if gotPath != "/v1/agent/service/deregister/order-svc-1" {
		t.Errorf("unexpected path %s", gotPath)
	}
}

func TestListServices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Services{
			"inventory-svc": {ID: "inventory-svc", Service: "inventory-svc", Address: "127.0.0.1", Port: 3001},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	svcs, err := c.ListServices(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(svcs) != 1 {
		t.Fatalf("expected 1 service, got %d", len(svcs))
	}
}

func TestResolve_ByID_Found(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Services{
			"inventory-svc": {ID: "inventory-svc", Service: "inventory-svc", Address: "127.0.0.1", Port: 3001},
			"order-svc":     {ID: "order-svc", Service: "order-svc", Address: "127.0.0.1", Port: 3002},
		})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	svc, err := c.Resolve(context.Background(), FilterByID, "inventory-svc")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if svc == nil || svc.Port != 3001 {
		t.Errorf("expected inventory-svc on port 3001, got %+v", svc)
	}
}

func TestResolve_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Services{})
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	svc, err := c.Resolve(context.Background(), FilterByName, "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc != nil {
		t.Errorf("expected nil service, got %+v", svc)
	}
}

func TestRegister_AgentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second)
	err := c.Register(context.Background(), Registration{ID: "x", Name: "x"})
	if err == nil {
		t.Error("expected error for non-2xx agent response")
	}
}
