package util

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

var webhookClient = http.Client{
	Timeout: time.Duration(10) * time.Second,
}

// Log message to the logging webhook and sentry
func LogMessage(content string) {
	if Config.LoggingWebhook != nil {
		body, _ := json.Marshal(map[string]string{"content": content})
		resp, err := webhookClient.Post(*Config.LoggingWebhook, "application/json", bytes.NewBuffer(body))
		if err != nil {
			sentry.CaptureException(err)
		} else {
			resp.Body.Close()
			if resp.StatusCode >= 300 {
				sentry.CaptureException(errors.New("failed to post to logging webhook"))
			}
		}
	}

	sentry.CaptureMessage(content)
}
