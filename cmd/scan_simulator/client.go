package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type keyEvent struct {
	Key string    `json:"key"`
	At  time.Time `json:"at"`
}

type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

// call sends body as JSON and decodes the envelope's data into out when the
// server reports success.
func (c *apiClient) call(method, path string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%s %s: unexpected response %q", method, path, raw)
	}
	if !env.Success {
		return fmt.Errorf("%s %s failed (%d): %s", method, path, resp.StatusCode, env.Message)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

// typed renders token as scanner key events starting at start.
func typed(token, terminator string, start time.Time, gap time.Duration) []keyEvent {
	events := make([]keyEvent, 0, len(token)+1)
	at := start
	for _, r := range token {
		events = append(events, keyEvent{Key: string(r), At: at})
		at = at.Add(gap)
	}
	return append(events, keyEvent{Key: terminator, At: at})
}
