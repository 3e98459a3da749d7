// Package sdk is a small Go client for the flowlytics dashboard API.
package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ClientConfig defines SDK client options.
type ClientConfig struct {
	BaseURL string        // e.g. http://localhost:8888
	Timeout time.Duration // zero means 30s
	// HTTPClient overrides the underlying client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks to a flowlytics dashboard instance.
type Client struct {
	base string
	hc   *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{base: strings.TrimRight(cfg.BaseURL, "/"), hc: hc}
}

// FlowQuery scopes a flow metrics request. From/To accept RFC3339 or plain
// dates; leave both empty for the server's default trailing window.
type FlowQuery struct {
	ProjectID string
	From      string
	To        string
	Timezone  string
}

func (q FlowQuery) values() url.Values {
	v := url.Values{}
	v.Set("project_id", q.ProjectID)
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.Timezone != "" {
		v.Set("timezone", q.Timezone)
	}
	return v
}

type TopEvent struct {
	Event      string  `json:"event"`
	Count      uint64  `json:"count"`
	Percentage float64 `json:"percentage"`
}

type RegistrationFlow struct {
	TotalUsers     uint64     `json:"totalUsers"`
	ConversionRate float64    `json:"conversionRate"`
	DropOffRate    float64    `json:"dropOffRate"`
	AverageTime    float64    `json:"averageTime"`
	TopEvents      []TopEvent `json:"topEvents"`
}

type FunnelStep struct {
	Step           string  `json:"step"`
	Users          uint64  `json:"users"`
	ConversionRate float64 `json:"conversionRate"`
	DropOffRate    float64 `json:"dropOffRate"`
	AverageTime    float64 `json:"averageTime"`
}

type Funnel struct {
	Steps []FunnelStep `json:"steps"`
}

type FailureReason struct {
	Reason string `json:"reason"`
	Count  uint64 `json:"count"`
}

type PaymentStatus struct {
	Status         string          `json:"status"`
	Count          uint64          `json:"count"`
	Percentage     float64         `json:"percentage"`
	FailureReasons []FailureReason `json:"failureReasons,omitempty"`
}

type PaymentFlow struct {
	Statuses []PaymentStatus `json:"statuses"`
}

type ActivationCohort struct {
	Cohort string  `json:"cohort"`
	Day1   float64 `json:"day1"`
	Day3   float64 `json:"day3"`
	Day7   float64 `json:"day7"`
	Day14  float64 `json:"day14"`
	Day30  float64 `json:"day30"`
}

type ActivationFlow struct {
	Cohorts []ActivationCohort `json:"cohorts"`
}

type Overview struct {
	Registration RegistrationFlow   `json:"registration"`
	Payment      []PaymentStatus    `json:"payment"`
	Activation   []ActivationCohort `json:"activation"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Timezone  string `json:"timezone"`
	CreatedAt string `json:"created_at"`
}

type projectList struct {
	Projects []Project `json:"projects"`
}

// APIError carries the HTTP status and server message of a failed call.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashboard api: %d %s", e.Status, e.Message)
}

func (c *Client) RegistrationFlow(ctx context.Context, q FlowQuery) (*RegistrationFlow, error) {
	var out RegistrationFlow
	if err := c.get(ctx, "/api/v1/flows/registration", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RegistrationFunnel(ctx context.Context, q FlowQuery) (*Funnel, error) {
	var out Funnel
	if err := c.get(ctx, "/api/v1/flows/registration/funnel", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) PaymentFlow(ctx context.Context, q FlowQuery) (*PaymentFlow, error) {
	var out PaymentFlow
	if err := c.get(ctx, "/api/v1/flows/payment", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ActivationFlow(ctx context.Context, q FlowQuery) (*ActivationFlow, error) {
	var out ActivationFlow
	if err := c.get(ctx, "/api/v1/flows/activation", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Overview(ctx context.Context, q FlowQuery) (*Overview, error) {
	var out Overview
	if err := c.get(ctx, "/api/v1/flows/overview", q.values(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateProject(ctx context.Context, name, timezone string) (*Project, error) {
	body, _ := json.Marshal(map[string]string{"name": name, "timezone": timezone})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/api/v1/projects", strings.NewReader(string(body)))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out Project
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	var out projectList
	if err := c.get(ctx, "/api/v1/projects", nil, &out); err != nil {
		return nil, err
	}
	return out.Projects, nil
}

func (c *Client) Project(ctx context.Context, id string) (*Project, error) {
	var out Project
	if err := c.get(ctx, "/api/v1/projects/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Healthz(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode}
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = json.Unmarshal(b, &apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Message}
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
