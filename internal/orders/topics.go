package orders

const (
	TopicOrderPlaced    = "order.placed"
	TopicOrderConfirmed = "order.confirmed"
	TopicOrderCancelled = "order.cancelled"
)

// Partition key = order id so all events of one order stay ordered.
func PartitionKey(orderID string) []byte { return []byte(orderID) }
