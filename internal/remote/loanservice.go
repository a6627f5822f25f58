// internal/remote/loanservice.go
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"loan-workflow/internal/common/config"
	"loan-workflow/internal/common/errors"
	"loan-workflow/internal/common/httpclient"
	"loan-workflow/internal/common/logger"
)

// LoanService mirrors workflow decisions to the upstream loan processing
// system, correlated by process instance ID. Every call is bounded by the
// configured timeout; any failure surfaces as a REMOTE_REJECTED error so
// the engine refuses the local commit.
type LoanService interface {
	// SubmitProcess advances the remote process instance one step.
	SubmitProcess(ctx context.Context, piid string) error

	// Reject marks the remote process instance rejected.
	Reject(ctx context.Context, piid string) error

	// Terminate cancels the remote process instance.
	Terminate(ctx context.Context, piid string) error
}

// Client is the HTTP implementation of LoanService.
type Client struct {
	baseURL  string
	username string
	password string
	timeout  time.Duration
	http     *httpclient.Client
	logger   logger.Logger
}

// NewClient builds a loan service client from configuration.
func NewClient(cfg config.LoanServiceConfig, log logger.Logger) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		timeout:  timeout,
		http:     httpclient.NewClient(timeout),
		logger:   log,
	}
}

type processRequest struct {
	PIID string `json:"piid"`
}

type processResponse struct {
	Result  string `json:"result,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *Client) SubmitProcess(ctx context.Context, piid string) error {
	return c.call(ctx, "submit-process", piid)
}

func (c *Client) Reject(ctx context.Context, piid string) error {
	return c.call(ctx, "reject", piid)
}

func (c *Client) Terminate(ctx context.Context, piid string) error {
	return c.call(ctx, "terminate", piid)
}

func (c *Client) call(ctx context.Context, operation, piid string) error {
	body, err := json.Marshal(processRequest{PIID: piid})
	if err != nil {
		return errors.NewRemoteRejectedError(fmt.Sprintf("failed to encode request: %v", err))
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/loan/%s", c.baseURL, operation)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.NewRemoteRejectedError(fmt.Sprintf("failed to build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("loan service call failed", map[string]interface{}{
			"operation": operation,
			"piid":      piid,
		})
		return errors.NewRemoteRejectedError("")
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var pr processResponse
		_ = json.Unmarshal(raw, &pr)
		detail := pr.Message
		if detail == "" {
			detail = pr.Result
		}
		c.logger.Error("loan service returned error status", map[string]interface{}{
			"operation": operation,
			"piid":      piid,
			"status":    resp.StatusCode,
		})
		return errors.NewRemoteRejectedError(detail)
	}

	c.logger.Debug("loan service call succeeded", map[string]interface{}{
		"operation": operation,
		"piid":      piid,
	})
	return nil
}
