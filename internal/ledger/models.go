package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"voicetracker-backend/internal/voice"
)

type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

func (k Kind) Valid() bool { return k == KindExpense || k == KindIncome }

type Source string

const (
	SourceVoice  Source = "voice"
	SourceManual Source = "manual"
)

// Entry is one ledger row. For income, Product holds the income source,
// Company the client and Price the amount; Quantity stays 0.
type Entry struct {
	ID            string              `json:"id"`
	Kind          Kind                `json:"kind"`
	Quantity      int                 `json:"quantity"`
	Product       string              `json:"product"`
	Company       string              `json:"company"`
	Price         decimal.Decimal     `json:"price"`
	PaymentMethod voice.PaymentMethod `json:"payment_method"`
	PaymentDetail string              `json:"payment_detail,omitempty"`
	Description   string              `json:"description,omitempty"`
	Source        Source              `json:"source"`
	CreatedAt     time.Time           `json:"created_at"`
}

// FromTransaction converts an extracted expense into an entry.
func FromTransaction(tx voice.Transaction) Entry {
	return Entry{
		Kind:          KindExpense,
		Quantity:      tx.Quantity,
		Product:       tx.Product,
		Company:       tx.Company,
		Price:         tx.Price,
		PaymentMethod: tx.PaymentMethod,
		PaymentDetail: tx.PaymentDetail,
		Source:        SourceVoice,
		CreatedAt:     tx.Timestamp,
	}
}
