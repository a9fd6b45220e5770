package sms

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/farmflow/internal/config"
)

const twilioURL = "https://api.twilio.com"

// TwilioClient sends messages through the Twilio Messages resource.
type TwilioClient struct {
	httpClient *resty.Client
	accountSID string
	from       string
}

// NewTwilioClient authenticates with the account SID and auth token.
func NewTwilioClient(cfg config.SMSConfig) *TwilioClient {
	base := cfg.BaseURL
	if base == "" {
		base = twilioURL
	}
	client := newResty(strings.TrimSuffix(base, "/")).SetBasicAuth(cfg.AccountSID, cfg.AuthToken)
	return &TwilioClient{httpClient: client, accountSID: cfg.AccountSID, from: cfg.SenderID}
}

func (c *TwilioClient) Name() string { return config.ProviderTwilio }

type twilioMessage struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Send creates a Message resource and returns its SID.
func (c *TwilioClient) Send(ctx context.Context, to, message string) (string, error) {
	result := new(twilioMessage)
	apiErr := new(twilioError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{"To": to, "From": c.from, "Body": message}).
		SetResult(result).
		SetError(apiErr).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return "", fmt.Errorf("send twilio sms: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		detail := apiErr.Message
		if apiErr.Code != 0 {
			detail = fmt.Sprintf("%s (twilio code %d)", apiErr.Message, apiErr.Code)
		}
		return "", statusError(c.Name(), resp, detail)
	}
	if result.Status == "failed" || result.Status == "undelivered" {
		return "", fmt.Errorf("%w: status %s", ErrRejected, result.Status)
	}
	return result.SID, nil
}
