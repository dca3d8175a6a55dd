// Package api is the demo CLI's HTTP client for the three endpoints of
// spec.md §6.
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{}}
}

func (c *Client) post(path string, req, resp any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	httpResp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode >= 300 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(httpResp.Body).Decode(&errBody)
		return fmt.Errorf("server returned %d: %s", httpResp.StatusCode, errBody.Error)
	}

	if resp == nil {
		return nil
	}
	return json.NewDecoder(httpResp.Body).Decode(resp)
}

func (c *Client) Register(username, publicKeyYHex, salt string) error {
	req := struct {
		Username   string `json:"username"`
		PublicKeyY string `json:"publicKeyY"`
		Salt       string `json:"salt"`
	}{username, publicKeyYHex, salt}
	return c.post("/api/v1/auth/register", req, nil)
}

type ChallengeResponse struct {
	ChallengeID string `json:"challengeId"`
	C           string `json:"c"`
	P           string `json:"p"`
	Q           string `json:"q"`
	G           string `json:"g"`
}

func (c *Client) Challenge(username, clientRHex string) (*ChallengeResponse, error) {
	req := struct {
		Username string `json:"username"`
		ClientR  string `json:"clientR"`
	}{username, clientRHex}
	var resp ChallengeResponse
	if err := c.post("/api/v1/auth/challenge", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type VerifyResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	Username  string `json:"username"`
	ExpiresIn int64  `json:"expiresIn"`
}

func (c *Client) Verify(challengeID, sHex, clientRHex, username string) (*VerifyResponse, error) {
	req := struct {
		ChallengeID string `json:"challengeId"`
		S           string `json:"s"`
		ClientR     string `json:"clientR"`
		Username    string `json:"username"`
	}{challengeID, sHex, clientRHex, username}
	var resp VerifyResponse
	if err := c.post("/api/v1/auth/verify", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
