package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const (
	dateFormat = "2006-01-02"
	currency   = "KSH"
)

// Usage lists the accepted syntax for each command.
var Usage = map[models.CommandType]string{
	models.CommandCost:    "/cost <crop> <planting|fertilizing|watering|pest_control> <amount> [worker]",
	models.CommandHarvest: "/harvest <crop> <quantity> [unit]",
	models.CommandSale:    "/sale <crop> <amount> [client-id]",
	models.CommandPaid:    "/paid <crop> <amount> [client-id]",
	models.CommandSummary: "/summary <crop>",
	models.CommandOwed:    "/owed <crop>",
}

// Ledger is the subset of the ledger service the dispatcher drives.
type Ledger interface {
	RecordEvent(ctx context.Context, cropID string, in ledgersvc.EventInput) (models.Event, error)
	Summary(ctx context.Context, cropID string) (ledgersvc.Summary, error)
	Reconcile(ctx context.Context, cropID string) (ledgersvc.ReconciliationView, error)
}

// Service turns parsed chat commands into ledger operations.
type Service struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a command dispatcher.
func NewService(ledger Ledger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// HandleCommand executes cmd and returns the reply for the sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	today := models.DateOnly(s.now())

	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandCost, models.CommandHarvest, models.CommandSale, models.CommandPaid:
		cropID, in, err := s.buildEvent(cmd, today, sender)
		if err != nil {
			return "", err
		}
		ev, err := s.ledger.RecordEvent(ctx, cropID, in)
		if err != nil {
			return "", err
		}
		message := fmt.Sprintf("%s recorded for %s on %s.", in.Title, cropID, ev.Date.Format(dateFormat))
		if summary := s.safeSummary(ctx, cropID); summary != "" {
			message += "\n" + summary
		}
		return message, nil
	case models.CommandSummary:
		cropID, err := cropArg(cmd)
		if err != nil {
			return "", err
		}
		summary, err := s.ledger.Summary(ctx, cropID)
		if err != nil {
			return "", err
		}
		return formatSummary(summary), nil
	case models.CommandOwed:
		cropID, err := cropArg(cmd)
		if err != nil {
			return "", err
		}
		view, err := s.ledger.Reconcile(ctx, cropID)
		if err != nil {
			return "", err
		}
		return formatOwed(view), nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) buildEvent(cmd models.Command, today time.Time, sender string) (string, ledgersvc.EventInput, error) {
	if len(cmd.Args) < 2 {
		return "", ledgersvc.EventInput{}, ErrInvalidArguments
	}
	cropID := cmd.Args[0]
	in := ledgersvc.EventInput{Date: today, Fields: models.EventFields{Description: "via chat from " + sender}}

	switch cmd.Type {
	case models.CommandCost:
		if len(cmd.Args) < 3 {
			return "", ledgersvc.EventInput{}, ErrInvalidArguments
		}
		kind := models.EventKind(cmd.Args[1])
		if !kind.IsActivity() {
			return "", ledgersvc.EventInput{}, ErrInvalidArguments
		}
		cost, err := parseAmount(cmd.Args[2])
		if err != nil {
			return "", ledgersvc.EventInput{}, err
		}
		in.Kind = kind
		in.Title = titleCase(strings.ReplaceAll(string(kind), "_", " "))
		in.Fields.Cost = &cost
		if len(cmd.Args) > 3 {
			in.Fields.Worker = strings.Join(cmd.Args[3:], " ")
		}
	case models.CommandHarvest:
		qty, err := parseAmount(cmd.Args[1])
		if err != nil {
			return "", ledgersvc.EventInput{}, err
		}
		in.Kind = models.KindHarvesting
		in.Title = "Harvest"
		in.Fields.Quantity = &qty
		if len(cmd.Args) > 2 {
			in.Fields.Unit = cmd.Args[2]
		}
	case models.CommandSale, models.CommandPaid:
		revenue, err := parseAmount(cmd.Args[1])
		if err != nil {
			return "", ledgersvc.EventInput{}, err
		}
		in.Kind = models.KindSale
		in.Title = "Sale"
		if cmd.Type == models.CommandPaid {
			in.Kind = models.KindPayment
			in.Title = "Payment"
		}
		in.Fields.Revenue = &revenue
		if len(cmd.Args) > 2 {
			in.Fields.ClientID = cmd.Args[2]
		}
	}

	return cropID, in, nil
}

// safeSummary appends running totals to a confirmation; failures only cost the extra line.
func (s *Service) safeSummary(ctx context.Context, cropID string) string {
	summary, err := s.ledger.Summary(ctx, cropID)
	if err != nil {
		s.logger.Debug("summary after command failed", zap.Error(err))
		return ""
	}
	return formatSummary(summary)
}

func formatSummary(sum ledgersvc.Summary) string {
	if sum.EventCount == 0 {
		return fmt.Sprintf("Crop %s: no events recorded yet.", sum.CropID)
	}
	return fmt.Sprintf("Crop %s: cost %s, revenue %s, profit %s, pending %s.",
		sum.CropID, money(sum.Totals.TotalCost), money(sum.Totals.TotalRevenue), money(sum.Totals.Profit), money(sum.PendingReceivables))
}

func formatOwed(view ledgersvc.ReconciliationView) string {
	var lines []string
	for _, bal := range view.Clients {
		if !bal.Outstanding.IsPositive() {
			continue
		}
		name := bal.Client
		if name == "" {
			name = bal.ClientID
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", name, money(bal.Outstanding)))
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Crop %s: no client owes money. Pending overall %s.", view.CropID, money(view.PendingReceivables))
	}
	return fmt.Sprintf("Crop %s outstanding:\n%s", view.CropID, strings.Join(lines, "\n"))
}

func cropArg(cmd models.Command) (string, error) {
	if len(cmd.Args) == 0 {
		return "", ErrInvalidArguments
	}
	return cmd.Args[0], nil
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, ErrInvalidArguments
	}
	return v, nil
}

func money(v decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, v.StringFixed(2))
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
