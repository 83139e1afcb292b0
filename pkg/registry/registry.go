// Package registry implements the registry client (C2): a thin HTTP
// wrapper around a Consul-style discovery agent's local agent API.
package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrDiscovery is the generic failure reported for any agent-side error —
// the client does not distinguish network failures from non-2xx
// responses, matching the original's thin-wrapper shape.
var ErrDiscovery = errors.New("registry: discovery error")

// HealthCheck describes how the agent should probe a registered instance.
type HealthCheck struct {
	HTTP                           string `json:"HTTP"`
	Interval                       string `json:"Interval"`
	DeregisterCriticalServiceAfter string `json:"DeregisterCriticalServiceAfter"`
}

// Registration is the PUT body for agent/service/register.
type Registration struct {
	ID      string      `json:"ID"`
	Name    string      `json:"Name"`
	Tags    []string    `json:"Tags"`
	Address string      `json:"Address"`
	Port    int         `json:"Port"`
	Check   HealthCheck `json:"Check"`
}

// Service is one entry of the agent/services response.
type Service struct {
	ID         string   `json:"ID"`
	Service    string   `json:"Service"`
	Tags       []string `json:"Tags"`
	Address    string   `json:"Address"`
	Port       int      `json:"Port"`
	Datacenter string   `json:"Datacenter"`
}

// Services maps service id -> Service, the shape of agent/services.
type Services map[string]Service

// Client is a minimal Consul agent API client. Every call uses a
// one-second timeout per spec §4.2; it is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a Client against agentAddress (e.g. "http://127.0.0.1:8500"),
// with the given per-call timeout.
func New(agentAddress string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &Client{
		baseURL: agentAddress,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) url(apiName string) string {
	return fmt.Sprintf("%s/v1/agent/%s", c.baseURL, apiName)
}

// Register PUTs a registration, called once at process startup.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	return c.put(ctx, c.url("service/register"), body)
}

// Deregister PUTs a deregistration for serviceID.
func (c *Client) Deregister(ctx context.Context, serviceID string) error {
	return c.put(ctx, c.url("service/deregister/"+serviceID), nil)
}

func (c *Client) put(ctx context.Context, url string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("%w: agent returned status %d", ErrDiscovery, resp.StatusCode)
	}
	return nil
}

// ListServices fetches every service currently known to the agent.
func (c *Client) ListServices(ctx context.Context) (Services, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("services"), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: agent returned status %d", ErrDiscovery, resp.StatusCode)
	}

	var svcs Services
	if err := json.NewDecoder(resp.Body).Decode(&svcs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscovery, err)
	}
	return svcs, nil
}

// FilterKind selects which Service field Resolve matches against.
type FilterKind int

const (
	// FilterByID matches Service.ID.
	FilterByID FilterKind = iota
	// FilterByName matches Service.Service.
	FilterByName
)

// Resolve lists every known service and linearly returns the first match.
// No caching, no ranking, no sticky routing: each call is a fresh GET.
func (c *Client) Resolve(ctx context.Context, kind FilterKind, value string) (*Service, error) {
	svcs, err := c.ListServices(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range svcs {
		match := false
		switch kind {
		case FilterByID:
			match = s.ID == value
		case FilterByName:
			match = s.Service == value
		}
		if match {
			svc := s
			return &svc, nil
		}
	}
	return nil, nil
}
