package models

// Address is a delivery address saved on the device.
type Address struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Address   string  `json:"address"`
	IsDefault bool    `json:"isDefault"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
