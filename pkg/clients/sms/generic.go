package sms

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/farmflow/internal/config"
)

// GenericClient posts JSON to a self-hosted or third-party SMS gateway.
type GenericClient struct {
	httpClient *resty.Client
	senderID   string
}

func NewGenericClient(cfg config.SMSConfig) *GenericClient {
	client := newResty(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")
	return &GenericClient{httpClient: client, senderID: cfg.SenderID}
}

func (c *GenericClient) Name() string { return config.ProviderGeneric }

type genericRequest struct {
	To       string `json:"to"`
	Message  string `json:"message"`
	SenderID string `json:"sender_id,omitempty"`
}

type genericResponse struct {
	MessageID string `json:"message_id"`
	Error     string `json:"error"`
}

func (c *GenericClient) Send(ctx context.Context, to, message string) (string, error) {
	result := new(genericResponse)
	apiErr := new(genericResponse)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(genericRequest{To: to, Message: message, SenderID: c.senderID}).
		SetResult(result).
		SetError(apiErr).
		Post("")
	if err != nil {
		return "", fmt.Errorf("send generic sms: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return "", statusError(c.Name(), resp, apiErr.Error)
	}
	if result.Error != "" {
		return "", fmt.Errorf("%w: %s", ErrRejected, result.Error)
	}
	return result.MessageID, nil
}
