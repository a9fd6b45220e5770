package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/config"
)

func jsonReply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestAfricasTalkingClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/version1/messaging", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apiKey"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "farmflow", r.PostForm.Get("username"))
		assert.Equal(t, "+254711000111", r.PostForm.Get("to"))
		assert.Equal(t, "FARMFLOW", r.PostForm.Get("from"))

		jsonReply(w, http.StatusCreated, map[string]any{
			"SMSMessageData": map[string]any{
				"Message": "Sent to 1/1 Total Cost: KES 0.8000",
				"Recipients": []map[string]any{
					{"statusCode": 101, "number": "+254711000111", "status": "Success", "cost": "KES 0.8000", "messageId": "ATPid_1"},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewAfricasTalkingClient(config.SMSConfig{Username: "farmflow", APIKey: "secret", SenderID: "FARMFLOW", BaseURL: srv.URL})

	id, err := client.Send(context.Background(), "+254711000111", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ATPid_1", id)
}

func TestAfricasTalkingClient_RecipientRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusCreated, map[string]any{
			"SMSMessageData": map[string]any{
				"Recipients": []map[string]any{{"statusCode": 403, "status": "InvalidPhoneNumber"}},
			},
		})
	}))
	defer srv.Close()

	client := NewAfricasTalkingClient(config.SMSConfig{Username: "farmflow", APIKey: "secret", BaseURL: srv.URL})

	_, err := client.Send(context.Background(), "123", "hello")
	assert.ErrorIs(t, err, ErrRejected)
}

func TestTwilioClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "token", pass)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "+15005550006", r.PostForm.Get("From"))

		jsonReply(w, http.StatusCreated, map[string]any{"sid": "SM42", "status": "queued"})
	}))
	defer srv.Close()

	client := NewTwilioClient(config.SMSConfig{AccountSID: "AC123", AuthToken: "token", SenderID: "+15005550006", BaseURL: srv.URL})

	id, err := client.Send(context.Background(), "+254711000111", "hello")
	require.NoError(t, err)
	assert.Equal(t, "SM42", id)
}

func TestTwilioClient_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusBadRequest, map[string]any{"code": 21211, "message": "The 'To' number is not valid.", "status": 400})
	}))
	defer srv.Close()

	client := NewTwilioClient(config.SMSConfig{AccountSID: "AC123", AuthToken: "token", BaseURL: srv.URL})

	_, err := client.Send(context.Background(), "bogus", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "21211")
}

func TestGenericClient_Send(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		var body genericRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "+254711000111", body.To)
		assert.Equal(t, "Payment reminder", body.Message)

		jsonReply(w, http.StatusOK, map[string]any{"message_id": "GEN_7"})
	}))
	defer srv.Close()

	client := NewGenericClient(config.SMSConfig{APIKey: "key", BaseURL: srv.URL})

	id, err := client.Send(context.Background(), "+254711000111", "Payment reminder")
	require.NoError(t, err)
	assert.Equal(t, "GEN_7", id)
}

func TestGenericClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		jsonReply(w, http.StatusServiceUnavailable, map[string]any{"error": "gateway down"})
	}))
	defer srv.Close()

	client := NewGenericClient(config.SMSConfig{APIKey: "key", BaseURL: srv.URL})

	_, err := client.Send(context.Background(), "+254711000111", "hi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gateway down")
}

func TestNewClient_Providers(t *testing.T) {
	for _, provider := range []string{config.ProviderAfricasTalking, config.ProviderTwilio, config.ProviderGeneric} {
		client, err := NewClient(config.SMSConfig{Provider: provider, BaseURL: "http://localhost"})
		require.NoError(t, err)
		assert.Equal(t, provider, client.Name())
	}

	_, err := NewClient(config.SMSConfig{Provider: config.ProviderWhatsApp})
	assert.Error(t, err)
}
