package creditcard

import (
	"strings"

	"labanita/internal/models"
)

// LastFour returns the final four digits of a card number.
func LastFour(number string) string {
	clean := Digits(number)
	if len(clean) <= 4 {
		return clean
	}
	return clean[len(clean)-4:]
}

// NewSavedCard reduces a validated form to what may be stored. The full
// number and the CVV are dropped here.
func NewSavedCard(form models.CardForm) models.SavedCard {
	return models.SavedCard{
		HolderName: strings.TrimSpace(form.HolderName),
		LastFour:   LastFour(form.Number),
		Expiry:     form.Expiry,
		CardType:   form.Type,
	}
}
