package voice

import (
	"errors"
	"fmt"
	"strings"
)

// Field names reported in IncompleteReminderError, in reporting order.
const (
	FieldTask = "görev"
	FieldDate = "tarih"
	FieldTime = "saat"
)

// UsageExample is shown next to every incomplete-reminder message.
const UsageExample = `"Beni toplantı için yarın saat 14:30'da hatırlat" veya "22.25'te toplantı"`

var (
	ErrEmptyTranscript = errors.New("boş metin algılandı")
	ErrPastDate        = errors.New("geçmiş tarih seçilemez")
	ErrInvalidDate     = errors.New("geçersiz tarih")
	ErrInvalidTime     = errors.New("geçersiz saat")
)

// IncompleteReminderError names every mandatory reminder field that could not be extracted.
type IncompleteReminderError struct {
	MissingFields []string
	Example       string
}

func (e *IncompleteReminderError) Error() string {
	return fmt.Sprintf("şu bilgiler eksik: %s. Örnek: %s", strings.Join(e.MissingFields, ", "), e.Example)
}

// Missing reports whether field is among the missing ones.
func (e *IncompleteReminderError) Missing(field string) bool {
	for _, f := range e.MissingFields {
		if f == field {
			return true
		}
	}
	return false
}

// TransactionParseError is returned when the expense grammar does not match as a whole.
type TransactionParseError struct {
	RawInput string
}

func (e *TransactionParseError) Error() string {
	return fmt.Sprintf("gider komutu çözümlenemedi: %q", e.RawInput)
}
