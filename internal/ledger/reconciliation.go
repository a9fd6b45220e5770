package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmflow/internal/domain/models"
)

// Reconciliation compares sale-side and payment-side revenue.
//
// PendingReceivables nets the two pools without matching individual sales to
// payments, so a payment from one client offsets a sale to another. Per-client
// figures are keyed on the stable ClientID only; free-text client names are
// never used as a join key.
type Reconciliation struct {
	sales      decimal.Decimal
	payments   decimal.Decimal
	perClient  map[string]*ClientBalance
	unassigned ClientBalance
}

// ClientBalance is the sale and payment revenue attributed to one client.
type ClientBalance struct {
	ClientID    string          `json:"client_id"`
	Client      string          `json:"client,omitempty"`
	Sold        decimal.Decimal `json:"sold"`
	Paid        decimal.Decimal `json:"paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

// NewReconciliation indexes the sale and payment events of the collection.
func NewReconciliation(events []models.Event) *Reconciliation {
	r := &Reconciliation{perClient: make(map[string]*ClientBalance)}

	for _, ev := range events {
		if ev.Kind != models.KindSale && ev.Kind != models.KindPayment {
			continue
		}
		revenue, ok := ev.Revenue()
		if !ok {
			continue
		}
		name, id := ev.Counterparty()

		bal := &r.unassigned
		if id != "" {
			bal = r.perClient[id]
			if bal == nil {
				bal = &ClientBalance{ClientID: id}
				r.perClient[id] = bal
			}
		}
		if id != "" && bal.Client == "" {
			bal.Client = name
		}

		if ev.Kind == models.KindSale {
			r.sales = r.sales.Add(revenue)
			bal.Sold = bal.Sold.Add(revenue)
		} else {
			r.payments = r.payments.Add(revenue)
			bal.Paid = bal.Paid.Add(revenue)
		}
		bal.Outstanding = bal.Sold.Sub(bal.Paid)
	}

	return r
}

// PendingReceivables is total sale revenue minus total payment revenue. It is
// not clamped and turns negative when payments exceed sales.
func (r *Reconciliation) PendingReceivables() decimal.Decimal {
	return r.sales.Sub(r.payments)
}

// PerClientOutstanding is the client's sale revenue minus the client's payment revenue.
func (r *Reconciliation) PerClientOutstanding(clientID string) decimal.Decimal {
	if bal, ok := r.perClient[clientID]; ok {
		return bal.Outstanding
	}
	return decimal.Zero
}

// Outstanding lists clients that still owe money, largest balance first.
func (r *Reconciliation) Outstanding() []ClientBalance {
	out := make([]ClientBalance, 0, len(r.perClient))
	for _, bal := range r.perClient {
		if bal.Outstanding.IsPositive() {
			out = append(out, *bal)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Outstanding.Cmp(out[j].Outstanding); c != 0 {
			return c > 0
		}
		return out[i].ClientID < out[j].ClientID
	})
	return out
}

// Clients returns every per-client balance, ordered by client id.
func (r *Reconciliation) Clients() []ClientBalance {
	out := make([]ClientBalance, 0, len(r.perClient))
	for _, bal := range r.perClient {
		out = append(out, *bal)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClientID < out[j].ClientID })
	return out
}

// Unattributed covers sales and payments recorded without a ClientID.
func (r *Reconciliation) Unattributed() ClientBalance {
	return r.unassigned
}
