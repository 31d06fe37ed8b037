package cache

import "fmt"

type EntityType string

const (
	EntityCart     EntityType = "cart"
	EntityVoucher  EntityType = "voucher"
	EntityAddress  EntityType = "addresses"
	EntityUser     EntityType = "user"
	EntityCards    EntityType = "cards"
	EntityProduct  EntityType = "product"
	EntityCategory EntityType = "category"
)

type KeyType string

const (
	KeyID   KeyType = "id"
	KeyList KeyType = "list"
)

// RecordKey returns the storage key of a device-local record, e.g.
// "@LabanetaSweets:cart". An empty namespace yields the bare entity name.
func RecordKey(namespace string, entity EntityType) string {
	if namespace == "" {
		return string(entity)
	}
	return namespace + ":" + string(entity)
}

// GenerateKey creates a standardized cache key
func GenerateKey(entity EntityType, keyType KeyType, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entity, keyType, value)
}
