package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrMissingToken = errors.New("no authentication token found")
	ErrUnauthorized = errors.New("session expired, please sign in again")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("unable to reach server")
	ErrBadResponse  = errors.New("unexpected response from server")
)

// ServerError is a non-2xx response other than 401 and 404.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// serverMessage extracts the message a backend error body carries, if any.
func serverMessage(status int, body []byte) string {
	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Message != "" {
			return resp.Message
		}
		if resp.Error != "" {
			return resp.Error
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return fmt.Sprintf("request failed (%s)", http.StatusText(status))
}

// Expected reports whether err is part of normal client flow rather than a fault worth reporting.
func Expected(err error) bool {
	return errors.Is(err, ErrMissingToken) || errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNotFound)
}
