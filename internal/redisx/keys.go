package redisx

import "time"

const (
	// Cache of order status: order_status:{order_id} -> {"status": "..."}
	KeyOrderStatus = "order_status:%s"

	// Catalog list cache: catalog:{kind} (kind = tickets | combos | menu | menu_categories)
	KeyCatalog = "catalog:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLCatalog     = 2 * time.Minute
	TTLDedup       = 48 * time.Hour
)
