package checks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmflow/internal/domain/models"
	"github.com/mamadbah2/farmflow/internal/repository/memory"
	ledgersvc "github.com/mamadbah2/farmflow/internal/service/ledger"
)

const sampleCheck = `EQUITY BANK LIMITED
Cheque No: 001234
Date: 15/03/2024
Pay: Green Valley Primary School
KSH 15,000.00
Memo: Payment for fresh vegetables
`

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

func newService(extractor Extractor, store *memory.Store) *Service {
	return NewService(extractor, ledgersvc.NewService(store, store, nil), nil)
}

func TestParseCheckText(t *testing.T) {
	data, err := ParseCheckText(sampleCheck)
	require.NoError(t, err)

	assert.Equal(t, 15000.0, data.Amount)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), data.Date)
	assert.Equal(t, "001234", data.CheckNumber)
	assert.Equal(t, "Green Valley Primary School", data.Payee)
	assert.Equal(t, "EQUITY BANK LIMITED", data.Bank)
	assert.Equal(t, "Payment for fresh vegetables", data.Memo)
}

func TestParseCheckText_Variants(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		amount float64
		number string
		date   time.Time
		bank   string
	}{
		{
			name:   "iso date and labelled amount",
			text:   "Bank: Equity\nCHK-2024-001234\n2024-12-01\nAmount: 2500.50",
			amount: 2500.5,
			number: "CHK-2024-001234",
			date:   time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC),
			bank:   "Equity",
		},
		{
			name:   "no date",
			text:   "KES 300\nPay to the order of Mama Mboga",
			amount: 300,
		},
		{
			name:   "impossible date ignored",
			text:   "KSH 10\n31/02/2024",
			amount: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseCheckText(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.amount, data.Amount)
			assert.Equal(t, tt.number, data.CheckNumber)
			assert.Equal(t, tt.date, data.Date)
			assert.Equal(t, tt.bank, data.Bank)
		})
	}
}

func TestParseCheckText_MissingAmount(t *testing.T) {
	_, err := ParseCheckText("Pay: Someone\nDate: 2024-01-01")
	require.Error(t, err)

	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "amount", verr.Field)
}

func TestService_IngestRecordsPayment(t *testing.T) {
	store := memory.NewStore()
	store.PutClient(models.Client{ID: "green-valley", Name: "Green Valley Primary School"})
	svc := newService(fakeExtractor{text: sampleCheck}, store)

	ev, data, err := svc.Ingest(context.Background(), "tomatoes", pngHeader, "green-valley")
	require.NoError(t, err)

	assert.NotEmpty(t, ev.ID)
	assert.Equal(t, models.KindPayment, ev.Kind)
	assert.Equal(t, "Check payment 001234", ev.Title)
	assert.Equal(t, "001234", data.CheckNumber)

	require.NotNil(t, ev.Payment)
	assert.True(t, ev.Payment.Revenue.Equal(decimal.NewFromInt(15000)))
	assert.Equal(t, "green-valley", ev.Payment.ClientID)
	assert.Equal(t, "EQUITY BANK LIMITED", ev.Payment.Bank)

	events, err := store.ListEvents(context.Background(), "tomatoes")
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestService_IngestRejections(t *testing.T) {
	store := memory.NewStore()

	_, _, err := newService(fakeExtractor{text: sampleCheck}, store).Ingest(context.Background(), "tomatoes", []byte("plain text"), "")
	assert.True(t, models.IsValidation(err))

	_, _, err = newService(fakeExtractor{text: sampleCheck}, store).Ingest(context.Background(), "tomatoes", nil, "")
	assert.True(t, models.IsValidation(err))

	_, _, err = newService(fakeExtractor{err: errors.New("quota exceeded")}, store).Ingest(context.Background(), "tomatoes", pngHeader, "")
	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "quota exceeded")

	_, _, err = newService(nil, store).Ingest(context.Background(), "tomatoes", pngHeader, "")
	assert.ErrorIs(t, err, ErrExtractionFailed)

	events, err := store.ListAllEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestService_IngestRejectsUnknownClient(t *testing.T) {
	store := memory.NewStore()
	svc := newService(fakeExtractor{text: sampleCheck}, store)

	_, data, err := svc.Ingest(context.Background(), "tomatoes", pngHeader, "no-such-client")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "client_id", verr.Field)
	assert.Equal(t, "001234", data.CheckNumber)

	events, err := store.ListAllEvents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestService_ExtractDefaultsDate(t *testing.T) {
	svc := newService(fakeExtractor{text: "KSH 500"}, memory.NewStore())
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 15, 4, 0, 0, time.UTC) }

	data, err := svc.Extract(context.Background(), pngHeader)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), data.Date)
}
