package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/service/commands"
	"github.com/mamadbah2/farmflow/internal/service/notification"
)

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
}

// CommandHandler executes a parsed chat command and returns the reply text.
type CommandHandler interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Replier delivers reply text back to the sender.
type Replier interface {
	SendTyped(ctx context.Context, kind notification.MessageType, recipient, message string) (models.Outcome, error)
}

// MetaWhatsAppService turns inbound WhatsApp messages into ledger commands.
type MetaWhatsAppService struct {
	verifyToken string
	commands    CommandHandler
	replier     Replier
	logger      *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(verifyToken string, handler CommandHandler, replier Replier, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		verifyToken: verifyToken,
		commands:    handler,
		replier:     replier,
		logger:      logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

const businessAccountObject = "whatsapp_business_account"

var helpText = "Supported commands:\n" + strings.Join([]string{
	commands.Usage[models.CommandCost],
	commands.Usage[models.CommandHarvest],
	commands.Usage[models.CommandSale],
	commands.Usage[models.CommandPaid],
	commands.Usage[models.CommandSummary],
	commands.Usage[models.CommandOwed],
}, "\n")

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.verifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook processes inbound webhook payloads. Delivery status callbacks
// carry no messages and are ignored. Only ledger failures are returned;
// undeliverable replies are logged.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	if payload.Object != "" && payload.Object != businessAccountObject {
		return models.NewValidationError("object", "must be "+businessAccountObject)
	}
	if len(payload.Entry) == 0 {
		return nil
	}

	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			if len(change.Value.Messages) == 0 {
				continue
			}

			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("skipping message without text", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	cmd := models.ParseCommand(text)

	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Any("args", cmd.Args))

	reply, err := s.reply(ctx, cmd, msg.From)
	if err != nil {
		return err
	}

	outcome, err := s.replier.SendTyped(ctx, notification.TypeCommandReply, msg.From, reply)
	if err != nil {
		s.logger.Warn("reply rejected", zap.String("to", msg.From), zap.Error(err))
		return nil
	}
	if !outcome.Success {
		s.logger.Warn("reply not delivered", zap.String("to", msg.From), zap.String("error", outcome.Error))
	}
	return nil
}

// reply runs the command. Rejected input becomes a reply to the sender;
// only storage failures are returned.
func (s *MetaWhatsAppService) reply(ctx context.Context, cmd models.Command, sender string) (string, error) {
	if cmd.Type == models.CommandUnknown {
		return helpText, nil
	}

	out, err := s.commands.HandleCommand(ctx, cmd, sender)
	var verr *models.ValidationError
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, commands.ErrInvalidArguments):
		return "Usage: " + commands.Usage[cmd.Type], nil
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return helpText, nil
	case errors.As(err, &verr):
		return "Not recorded: " + verr.Error(), nil
	default:
		return "", err
	}
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
