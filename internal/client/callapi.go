package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// CallAPIClient talks to the external call-placement service.
type CallAPIClient struct {
	baseURL string
	client  *http.Client
}

func NewCallAPIClient(baseURL string, timeout time.Duration) *CallAPIClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &CallAPIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Call is the collaborator's record of one placed call. Duration and the
// collaborator timestamps only appear once the call has progressed.
type Call struct {
	ID        string  `json:"id"`
	Status    string  `json:"status"`
	Duration  *int    `json:"duration,omitempty"`
	CreatedAt *string `json:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

type placeRequest struct {
	PhoneNumber string `json:"phone_number"`
}

type callResponse struct {
	Call Call `json:"call"`
}

// PlaceCall asks the collaborator to initiate a call. Anything other than a
// 201 with a well-formed call body is an error.
func (c *CallAPIClient) PlaceCall(ctx context.Context, phoneNumber string) (Call, error) {
	reqBody, err := json.Marshal(placeRequest{PhoneNumber: phoneNumber})
	if err != nil {
		return Call{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/call", bytes.NewReader(reqBody))
	if err != nil {
		return Call{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Call{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusCreated {
		return Call{}, fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var cr callResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Call{}, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}
	if cr.Call.ID == "" {
		return Call{}, fmt.Errorf("missing call id in response body=%q", string(body))
	}

	return cr.Call, nil
}

// GetCall fetches the collaborator's current record for a previously placed
// call, used for read-time status reconciliation.
func (c *CallAPIClient) GetCall(ctx context.Context, callID string) (Call, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/call/"+url.PathEscape(callID), nil)
	if err != nil {
		return Call{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Call{}, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return Call{}, fmt.Errorf("unexpected status code: %d body=%q", resp.StatusCode, string(body))
	}

	var cr callResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return Call{}, fmt.Errorf("failed to decode json: %w body=%q", err, string(body))
	}
	if cr.Call.ID == "" {
		return Call{}, fmt.Errorf("missing call id in response body=%q", string(body))
	}

	return cr.Call, nil
}
