package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/mrlokans/mylib/internal/entities"
)

const (
	pathAuthenticate = "/api/v1/auth/authenticate"
	pathSignUp       = "/api/v1/auth/add-user"
)

// ErrEmptyToken means the backend accepted the credentials but sent no token.
var ErrEmptyToken = errors.New("authentication response carried no token")

// Authenticate exchanges credentials for a bearer token and stores it in the
// client's session. Rejected credentials (403) are an expected outcome: the
// status is returned with a nil error and the session is left as it was.
func (c *Client) Authenticate(ctx context.Context, username, password string) (int, error) {
	resp, err := c.send(ctx, http.MethodPost, pathAuthenticate, "", entities.AuthRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		if code := StatusCode(err); code == http.StatusForbidden {
			return code, nil
		}
		return StatusCode(err), err
	}
	defer resp.Body.Close()

	token, err := readToken(resp.Body)
	if err != nil {
		return resp.StatusCode, c.handleAPIError(err)
	}

	if c.session != nil {
		c.session.Login(username, token)
	}
	return resp.StatusCode, nil
}

// SignUp creates an account. A taken username (409) is returned as a status
// with a nil error.
func (c *Client) SignUp(ctx context.Context, username, password string) (int, error) {
	resp, err := c.send(ctx, http.MethodPost, pathSignUp, "", entities.AuthRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		if code := StatusCode(err); code == http.StatusConflict {
			return code, nil
		}
		return StatusCode(err), err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return resp.StatusCode, nil
}

// readToken accepts the token as raw text, as a JSON string literal or inside
// a {"data": "..."} envelope.
func readToken(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0:
		return "", ErrEmptyToken
	case data[0] == '"':
		var token string
		if err := json.Unmarshal(data, &token); err != nil {
			return "", fmt.Errorf("failed to decode token: %w", err)
		}
		if token == "" {
			return "", ErrEmptyToken
		}
		return token, nil
	case data[0] == '{':
		var envelope struct {
			Data string `json:"data"`
		}
		if err := json.Unmarshal(data, &envelope); err != nil {
			return "", fmt.Errorf("failed to decode token: %w", err)
		}
		if envelope.Data == "" {
			return "", ErrEmptyToken
		}
		return envelope.Data, nil
	}

	return string(data), nil
}
