// Package sms holds resty-backed clients for the supported SMS gateways.
package sms

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/farmflow/internal/config"
)

const defaultTimeout = 15 * time.Second

// ErrRejected is returned when a gateway accepted the request but refused the message.
var ErrRejected = errors.New("message rejected by gateway")

// Client sends a single text message and returns the gateway message id.
type Client interface {
	Send(ctx context.Context, to, message string) (string, error)
	Name() string
}

// NewClient builds the client for the configured provider.
func NewClient(cfg config.SMSConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderAfricasTalking:
		return NewAfricasTalkingClient(cfg), nil
	case config.ProviderTwilio:
		return NewTwilioClient(cfg), nil
	case config.ProviderGeneric:
		return NewGenericClient(cfg), nil
	default:
		return nil, fmt.Errorf("sms provider %q has no sms client", cfg.Provider)
	}
}

func newResty(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetTimeout(defaultTimeout)
}

func statusError(provider string, resp *resty.Response, detail string) error {
	if detail == "" {
		detail = resp.Status()
	}
	return fmt.Errorf("%s api error: code=%d, message=%s", provider, resp.StatusCode(), detail)
}
