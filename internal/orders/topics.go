package orders

const (
	TopicOrderPlaced = "food.order.placed"
	TopicOrderStatus = "food.order.status"
)

// Partition key = workspace, so every event of one workspace keeps its order.
func PartitionKey(workspace string) []byte { return []byte(workspace) }
