package voice

import "strings"

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "nakit"
	PaymentCreditCard PaymentMethod = "kredi_karti"
	PaymentDebitCard  PaymentMethod = "banka_karti"
	PaymentTransfer   PaymentMethod = "havale"
	PaymentCheque     PaymentMethod = "cek"
	PaymentCrypto     PaymentMethod = "kripto"
	PaymentOther      PaymentMethod = "diger"
)

var paymentLabels = map[PaymentMethod]string{
	PaymentCash:       "Nakit",
	PaymentCreditCard: "Kredi Kartı",
	PaymentDebitCard:  "Banka Kartı",
	PaymentTransfer:   "Havale/EFT",
	PaymentCheque:     "Çek",
	PaymentCrypto:     "Kripto Para",
	PaymentOther:      "Diğer",
}

// PaymentMethods lists the enumeration in display order.
var PaymentMethods = []PaymentMethod{
	PaymentCash,
	PaymentCreditCard,
	PaymentDebitCard,
	PaymentTransfer,
	PaymentCheque,
	PaymentCrypto,
	PaymentOther,
}

// Spoken keywords, checked in order against the start of each word.
// "kart" alone means a credit card, so it comes after "banka".
var paymentKeywords = []struct {
	prefix string
	method PaymentMethod
}{
	{"kredi", PaymentCreditCard},
	{"banka", PaymentDebitCard},
	{"havale", PaymentTransfer},
	{"eft", PaymentTransfer},
	{"çek", PaymentCheque},
	{"kripto", PaymentCrypto},
	{"nakit", PaymentCash},
	{"peşin", PaymentCash},
	{"kart", PaymentCreditCard},
}

func (p PaymentMethod) Label() string {
	if l, ok := paymentLabels[p]; ok {
		return l
	}
	return string(p)
}

func (p PaymentMethod) Valid() bool {
	_, ok := paymentLabels[p]
	return ok
}

// ParsePaymentMethod accepts an enumeration code such as "kredi_karti".
func ParsePaymentMethod(code string) (PaymentMethod, bool) {
	p := PaymentMethod(strings.TrimSpace(code))
	return p, p.Valid()
}

// MatchPaymentMethod maps spoken free text onto the enumeration; anything
// unrecognised is PaymentOther.
func MatchPaymentMethod(text string) PaymentMethod {
	words := strings.Fields(text)
	for _, kw := range paymentKeywords {
		for _, w := range words {
			if strings.HasPrefix(w, kw.prefix) {
				return kw.method
			}
		}
	}
	return PaymentOther
}
