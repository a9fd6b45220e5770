package sms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/farmflow/internal/config"
)

const (
	africasTalkingLiveURL    = "https://api.africastalking.com"
	africasTalkingSandboxURL = "https://api.sandbox.africastalking.com"
)

// AfricasTalkingClient talks to the Africa's Talking messaging API.
type AfricasTalkingClient struct {
	httpClient *resty.Client
	username   string
	senderID   string
}

// NewAfricasTalkingClient uses the sandbox host for the "sandbox" username
// unless SMS_BASE_URL overrides it.
func NewAfricasTalkingClient(cfg config.SMSConfig) *AfricasTalkingClient {
	base := cfg.BaseURL
	if base == "" {
		base = africasTalkingLiveURL
		if cfg.Username == "sandbox" {
			base = africasTalkingSandboxURL
		}
	}

	client := newResty(strings.TrimSuffix(base, "/")).SetHeader("apiKey", cfg.APIKey)
	return &AfricasTalkingClient{httpClient: client, username: cfg.Username, senderID: cfg.SenderID}
}

func (c *AfricasTalkingClient) Name() string { return config.ProviderAfricasTalking }

type africasTalkingResponse struct {
	SMSMessageData struct {
		Message    string `json:"Message"`
		Recipients []struct {
			StatusCode int    `json:"statusCode"`
			Number     string `json:"number"`
			Status     string `json:"status"`
			Cost       string `json:"cost"`
			MessageID  string `json:"messageId"`
		} `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// Send posts one message. Recipient status codes 100-102 mean the gateway queued it.
func (c *AfricasTalkingClient) Send(ctx context.Context, to, message string) (string, error) {
	form := map[string]string{
		"username": c.username,
		"to":       to,
		"message":  message,
	}
	if c.senderID != "" {
		form["from"] = c.senderID
	}

	result := new(africasTalkingResponse)
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(form).
		SetResult(result).
		Post("/version1/messaging")
	if err != nil {
		return "", fmt.Errorf("send africas talking sms: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", statusError(c.Name(), resp, strings.TrimSpace(resp.String()))
	}

	recipients := result.SMSMessageData.Recipients
	if len(recipients) == 0 {
		return "", fmt.Errorf("%w: %s", ErrRejected, result.SMSMessageData.Message)
	}
	r := recipients[0]
	if r.StatusCode < 100 || r.StatusCode > 102 {
		return "", fmt.Errorf("%w: %s (status %d)", ErrRejected, r.Status, r.StatusCode)
	}
	return r.MessageID, nil
}
