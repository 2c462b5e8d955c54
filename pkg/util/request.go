package util

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

const maxBodySize = 1 << 20

var ErrInvalidForm = errors.New("invalid form")

func HttpBody(r *http.Request) []byte {
	body := r.Body
	defer body.Close()

	bodyb, err := io.ReadAll(io.LimitReader(body, maxBodySize))
	if err != nil {
		return nil
	}

	return bodyb
}

// DecodeForm reads a JSON request body into form.
func DecodeForm(r *http.Request, form any) error {
	body := HttpBody(r)
	if len(body) == 0 {
		return ErrInvalidForm
	}
	if err := json.Unmarshal(body, form); err != nil {
		return ErrInvalidForm
	}
	return nil
}
