package models

import "time"

// OutboundMessageRequest represents requests to send a message manually via the API.
type OutboundMessageRequest struct {
	To      string `json:"to" binding:"required"`
	Message string `json:"message" binding:"required"`
	Type    string `json:"type"`
}

// PaymentReminderRequest asks for a templated payment reminder to a customer.
type PaymentReminderRequest struct {
	To            string  `json:"to" binding:"required"`
	CustomerName  string  `json:"customer_name" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	DueDate       string  `json:"due_date" binding:"required"`
	InvoiceNumber string  `json:"invoice_number"`
}

// Outcome is the result of one notification attempt for the recipient To.
type Outcome struct {
	To        string `json:"to"`
	Success   bool   `json:"success"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
	Provider  string `json:"provider,omitempty"`
}

// SMSStatus is the delivery state recorded in the SMS log.
type SMSStatus string

const (
	SMSStatusSent   SMSStatus = "sent"
	SMSStatusFailed SMSStatus = "failed"
)

// SMSLog records one dispatch attempt.
type SMSLog struct {
	To        string    `json:"to" bson:"to"`
	Message   string    `json:"message" bson:"message"`
	Type      string    `json:"type" bson:"type"`
	Status    SMSStatus `json:"status" bson:"status"`
	Provider  string    `json:"provider" bson:"provider"`
	MessageID string    `json:"message_id,omitempty" bson:"message_id,omitempty"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	SentAt    time.Time `json:"sent_at" bson:"sent_at"`
}
