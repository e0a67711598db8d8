package utils

import (
	"errors"
	"time"

	"github.com/go-resty/resty/v2"
)

type SlackRequestBody struct {
	Text string `json:"text"`
}

// SendSlackNotification posts msg to an incoming webhook. An empty url disables alerts.
func SendSlackNotification(webhookURL string, msg string) error {
	if webhookURL == "" {
		return nil
	}

	resp, err := resty.New().
		SetTimeout(10 * time.Second).
		R().
		SetHeader("Content-Type", "application/json").
		SetBody(SlackRequestBody{Text: msg}).
		Post(webhookURL)
	if err != nil {
		return err
	}
	if resp.String() != "ok" {
		return errors.New("Non-ok response returned from Slack")
	}
	return nil
}
