package creditcard

import (
	"regexp"
	"strings"

	"labanita/internal/models"
)

// Networks are tried in this order; the first match wins.
var cardPatterns = []struct {
	cardType models.CardType
	pattern  *regexp.Regexp
}{
	{models.CardTypeVisa, regexp.MustCompile(`^4[0-9]{12}(?:[0-9]{3})?$`)},
	{models.CardTypeMastercard, regexp.MustCompile(`^5[1-5][0-9]{14}$`)},
	{models.CardTypeAmex, regexp.MustCompile(`^3[47][0-9]{13}$`)},
}

// Digits strips every non-digit character from s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// DetectCardType returns the network of a card number, ignoring
// non-digits, or CardTypeNone.
func DetectCardType(number string) models.CardType {
	clean := Digits(number)
	for _, p := range cardPatterns {
		if p.pattern.MatchString(clean) {
			return p.cardType
		}
	}
	return models.CardTypeNone
}

// FormatCardNumber groups the digits of raw for display: 4-6-5 for AMEX,
// runs of four otherwise. A trailing partial group is kept.
func FormatCardNumber(raw string) string {
	clean := Digits(raw)
	if DetectCardType(clean) == models.CardTypeAmex {
		return clean[:4] + " " + clean[4:10] + " " + clean[10:]
	}

	var b strings.Builder
	for i := 0; i < len(clean); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(clean[i:min(i+4, len(clean))])
	}
	return b.String()
}

// FormatExpiry renders raw as MM/YY while it is typed. Months above 12 are
// clamped to 12 and at most two year digits are kept.
func FormatExpiry(raw string) string {
	clean := Digits(raw)
	if len(clean) < 2 {
		return clean
	}

	month := clean[:2]
	if month > "12" {
		month = "12"
	}
	return month + "/" + clean[2:min(4, len(clean))]
}

// ValidateLuhn runs the Luhn checksum over a digit string. Empty input and
// any non-digit character fail.
func ValidateLuhn(number string) bool {
	if number == "" {
		return false
	}

	var sum int
	shouldDouble := false

	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			return false
		}
		digit := int(c - '0')

		if shouldDouble {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		shouldDouble = !shouldDouble
	}

	return sum%10 == 0
}

// CVVLength is 4 for AMEX and 3 for every other network.
func CVVLength(cardType models.CardType) int {
	if cardType == models.CardTypeAmex {
		return 4
	}
	return 3
}
