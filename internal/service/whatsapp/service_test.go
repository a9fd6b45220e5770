package whatsapp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
	"github.com/mamadbah2/farmflow/internal/service/commands"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
	"github.com/mamadbah2/farmflow/internal/service/notification"
)

type sentReply struct {
	kind notification.MessageType
	to   string
	body string
}

type recordingReplier struct {
	sent []sentReply
	fail bool
}

func (r *recordingReplier) SendTyped(_ context.Context, kind notification.MessageType, to, body string) (models.Outcome, error) {
	r.sent = append(r.sent, sentReply{kind: kind, to: to, body: body})
	if r.fail {
		return models.Outcome{Success: false, Error: "provider down"}, nil
	}
	return models.Outcome{Success: true, MessageID: "wamid.1"}, nil
}

type failingHandler struct{}

func (failingHandler) HandleCommand(context.Context, models.Command, string) (string, error) {
	return "", errors.New("database unavailable")
}

func textPayload(from string, bodies ...string) models.WebhookPayload {
	var msgs []models.InboundMessage
	for i, body := range bodies {
		msgs = append(msgs, models.InboundMessage{
			From: from,
			ID:   "wamid." + string(rune('a'+i)),
			Type: "text",
			Text: &models.TextContent{Body: body},
		})
	}
	return models.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []models.WebhookEntry{{
			Changes: []models.WebhookChange{{Field: "messages", Value: models.WebhookValue{Messages: msgs}}},
		}},
	}
}

func newService(t *testing.T) (*MetaWhatsAppService, *recordingReplier, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	handler := commands.NewService(ledgersvc.NewService(store, store, nil), nil)
	replier := &recordingReplier{}
	return NewMetaWhatsAppService("secret", handler, replier, nil), replier, store
}

func TestVerifyWebhookToken(t *testing.T) {
	svc, _, _ := newService(t)

	challenge, err := svc.VerifyWebhookToken("subscribe", "secret", "12345")
	require.NoError(t, err)
	assert.Equal(t, "12345", challenge)

	_, err = svc.VerifyWebhookToken("subscribe", "wrong", "12345")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("unsubscribe", "secret", "12345")
	assert.Error(t, err)
	_, err = svc.VerifyWebhookToken("", "", "")
	assert.Error(t, err)
}

func TestHandleWebhook_RecordsAndReplies(t *testing.T) {
	svc, replier, store := newService(t)
	ctx := context.Background()

	err := svc.HandleWebhook(ctx, textPayload("254700000001", "/sale beans 400", "/owed beans"))
	require.NoError(t, err)

	events, err := store.ListEvents(ctx, "beans")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, models.KindSale, events[0].Kind)

	require.Len(t, replier.sent, 2)
	for _, r := range replier.sent {
		assert.Equal(t, notification.TypeCommandReply, r.kind)
		assert.Equal(t, "254700000001", r.to)
	}
	assert.Contains(t, replier.sent[0].body, "Sale recorded for beans")
	assert.Equal(t, "Crop beans: no client owes money. Pending overall KSH 400.00.", replier.sent[1].body)
}

func TestHandleWebhook_UserErrorsBecomeReplies(t *testing.T) {
	svc, replier, store := newService(t)
	ctx := context.Background()

	err := svc.HandleWebhook(ctx, textPayload("254700000002", "hello", "/harvest beans", "/sale beans -3"))
	require.NoError(t, err)

	require.Len(t, replier.sent, 3)
	assert.Contains(t, replier.sent[0].body, "Supported commands:")
	assert.Equal(t, "Usage: "+commands.Usage[models.CommandHarvest], replier.sent[1].body)
	assert.Contains(t, replier.sent[2].body, "Not recorded: validation failed")

	events, err := store.ListAllEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestHandleWebhook_InteractiveAndStatuses(t *testing.T) {
	svc, replier, _ := newService(t)

	payload := models.WebhookPayload{Entry: []models.WebhookEntry{{Changes: []models.WebhookChange{
		{Value: models.WebhookValue{Statuses: []models.MessageStatus{{ID: "wamid.x", Status: "delivered"}}}},
		{Value: models.WebhookValue{Messages: []models.InboundMessage{
			{From: "254700000003", Type: "interactive", Interactive: &models.InteractiveContent{
				Type:        "button_reply",
				ButtonReply: &models.ReplyOption{ID: "/summary maize", Title: "Summary"},
			}},
			{From: "254700000003", Type: "image"},
		}}},
	}}}}

	require.NoError(t, svc.HandleWebhook(context.Background(), payload))
	require.Len(t, replier.sent, 1)
	assert.Equal(t, "Crop maize: no events recorded yet.", replier.sent[0].body)
}

func TestHandleWebhook_Failures(t *testing.T) {
	replier := &recordingReplier{}
	svc := NewMetaWhatsAppService("secret", failingHandler{}, replier, nil)

	err := svc.HandleWebhook(context.Background(), textPayload("254700000004", "/summary maize"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	assert.Empty(t, replier.sent)

	svc, replier, store := newService(t)
	replier.fail = true
	err = svc.HandleWebhook(context.Background(), textPayload("254700000004", "/sale maize 10"))
	require.NoError(t, err)
	require.Len(t, replier.sent, 1)

	events, err := store.ListEvents(context.Background(), "maize")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestHandleWebhook_RejectsOtherProducts(t *testing.T) {
	svc, replier, _ := newService(t)

	payload := textPayload("254700000006", "/sale maize 10")
	payload.Object = "page"

	err := svc.HandleWebhook(context.Background(), payload)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "object", verr.Field)
	assert.Empty(t, replier.sent)
}
