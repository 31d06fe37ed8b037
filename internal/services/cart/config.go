package cart

const (
	DefaultDeliveryFee    = 8.0
	DefaultMinOrderAmount = 50.0
	DefaultMaxQuantity    = 99
)

// Config holds the pricing constants and the storage namespace.
type Config struct {
	Namespace      string
	DeliveryFee    float64
	MinOrderAmount float64
	MaxQuantity    int
}

// DefaultConfig returns the storefront defaults.
func DefaultConfig(namespace string) Config {
	return Config{
		Namespace:      namespace,
		DeliveryFee:    DefaultDeliveryFee,
		MinOrderAmount: DefaultMinOrderAmount,
		MaxQuantity:    DefaultMaxQuantity,
	}
}
