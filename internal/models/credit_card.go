package models

// CardType is the network detected from a card number.
type CardType string

const (
	CardTypeNone       CardType = ""
	CardTypeVisa       CardType = "VISA"
	CardTypeMastercard CardType = "MASTERCARD"
	CardTypeAmex       CardType = "AMEX"
)

// CardForm is the raw add-card input. It is never persisted.
type CardForm struct {
	HolderName string   `json:"card_holder"`
	Number     string   `json:"card_number"`
	Expiry     string   `json:"expiry_date"`
	CVV        string   `json:"cvv"`
	Type       CardType `json:"card_type"`
}

// SavedCard is the storage-safe form of a card: no PAN, no CVV.
type SavedCard struct {
	ID         string   `json:"id"`
	HolderName string   `json:"card_holder"`
	LastFour   string   `json:"last_four"`
	Expiry     string   `json:"expiry_date"`
	CardType   CardType `json:"card_type"`
	IsDefault  bool     `json:"is_default"`
}
