package notification

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const (
	currency   = "KSH"
	brand      = "FarmFlow"
	dateLayout = "2006-01-02"
)

// MessageType tags SMS log entries by purpose.
type MessageType string

const (
	TypeGeneral         MessageType = "general"
	TypePaymentReminder MessageType = "payment_reminder"
	TypeTaskAssignment  MessageType = "task_assignment"
	TypeTaskReminder    MessageType = "task_reminder"
	TypeCropAlert       MessageType = "crop_alert"
	TypeDelivery        MessageType = "delivery"
	TypeCommandReply    MessageType = "command_reply"
)

func formatAmount(amount decimal.Decimal) string {
	return fmt.Sprintf("%s %s", currency, amount.StringFixed(2))
}

// PaymentReminderText is the customer-facing reminder for an outstanding balance.
func PaymentReminderText(customer string, amount decimal.Decimal, due time.Time, invoiceNumber string) string {
	if invoiceNumber != "" {
		return fmt.Sprintf("Dear %s, invoice %s for %s is due on %s. Please make payment to avoid service interruption. - %s",
			customer, invoiceNumber, formatAmount(amount), due.Format(dateLayout), brand)
	}
	return fmt.Sprintf("Dear %s, this is a reminder that your payment of %s is due on %s. Thank you. - %s",
		customer, formatAmount(amount), due.Format(dateLayout), brand)
}

// TaskAssignmentText tells a worker about a new task.
func TaskAssignmentText(worker, task string, due *time.Time) string {
	dueText := ""
	if due != nil {
		dueText = " Due: " + due.Format(dateLayout)
	}
	return fmt.Sprintf("Hi %s, you've been assigned: %s%s. Please confirm receipt. - %s", worker, task, dueText, brand)
}

// TaskReminderText nudges a worker about a pending task.
func TaskReminderText(worker, task string, due time.Time) string {
	return fmt.Sprintf("Hi %s, this is a reminder about your task: %s due on %s. Please update status. - %s",
		worker, task, due.Format(dateLayout), brand)
}

// CropAlertText reports a crop condition that needs attention.
func CropAlertText(crop, alert, details string) string {
	if details != "" {
		return fmt.Sprintf("Alert: %s - %s Details: %s. Please take necessary action. - %s", crop, alert, details, brand)
	}
	return fmt.Sprintf("Alert: %s - %s. Please take necessary action. - %s", crop, alert, brand)
}

// DeliveryText announces an upcoming delivery to a customer.
func DeliveryText(customer, items string, date time.Time) string {
	return fmt.Sprintf("Hi %s, your order (%s) will be delivered on %s. Please be available. - %s",
		customer, items, date.Format(dateLayout), brand)
}
