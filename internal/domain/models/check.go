package models

import "time"

// CheckData is the structured record extracted from an uploaded check image.
type CheckData struct {
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
	Payee       string    `json:"payee"`
	Bank        string    `json:"bank"`
	CheckNumber string    `json:"check_number"`
	Memo        string    `json:"memo,omitempty"`
}

// PaymentFields maps the check onto a payment title and boundary fields. clientID
// links the payment to a known client; the payee name is kept as the free-text
// counterparty.
func (c CheckData) PaymentFields(clientID string) (string, EventFields) {
	amount := c.Amount
	title := "Check payment"
	if c.CheckNumber != "" {
		title = "Check payment " + c.CheckNumber
	}
	return title, EventFields{
		Revenue:     &amount,
		Client:      c.Payee,
		ClientID:    clientID,
		CheckNumber: c.CheckNumber,
		Bank:        c.Bank,
		Notes:       c.Memo,
	}
}

// PaymentEvent converts the check into a validated payment event. The client id
// is not resolved here.
func (c CheckData) PaymentEvent(cropID, clientID string) (Event, error) {
	title, fields := c.PaymentFields(clientID)
	ev, err := NewEvent(KindPayment, c.Date, title, fields)
	if err != nil {
		return Event{}, err
	}
	ev.CropID = cropID
	return ev, nil
}
