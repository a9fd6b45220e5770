package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// SendPaymentReminder reminds a customer of an outstanding amount.
func (d *Dispatcher) SendPaymentReminder(ctx context.Context, phone, customer string, amount decimal.Decimal, due time.Time, invoiceNumber string) (models.Outcome, error) {
	if amount.IsNegative() {
		return models.Outcome{}, models.NewValidationError("amount", "must not be negative")
	}
	return d.SendTyped(ctx, TypePaymentReminder, phone, PaymentReminderText(customer, amount, due, invoiceNumber))
}

// NotifyWorker tells a worker about an assigned task.
func (d *Dispatcher) NotifyWorker(ctx context.Context, phone, worker, task string, due *time.Time) (models.Outcome, error) {
	return d.SendTyped(ctx, TypeTaskAssignment, phone, TaskAssignmentText(worker, task, due))
}

// RemindWorker nudges a worker about a task due on the given date.
func (d *Dispatcher) RemindWorker(ctx context.Context, phone, worker, task string, due time.Time) (models.Outcome, error) {
	return d.SendTyped(ctx, TypeTaskReminder, phone, TaskReminderText(worker, task, due))
}

// SendCropAlert reports a crop condition.
func (d *Dispatcher) SendCropAlert(ctx context.Context, phone, crop, alert, details string) (models.Outcome, error) {
	return d.SendTyped(ctx, TypeCropAlert, phone, CropAlertText(crop, alert, details))
}

// SendDeliveryNotice announces a delivery date to a customer.
func (d *Dispatcher) SendDeliveryNotice(ctx context.Context, phone, customer, items string, date time.Time) (models.Outcome, error) {
	return d.SendTyped(ctx, TypeDelivery, phone, DeliveryText(customer, items, date))
}
