package kafka

// One change topic per table, mirroring the per-table realtime channels the
// storefront clients subscribe to.
const TopicPrefix = "store.changes."

func TopicForTable(table string) string {
	return TopicPrefix + table
}

var WatchedTables = []string{"coupons", "products", "orders", "users", "site_settings"}

func Topics() []string {
	topics := make([]string, 0, len(WatchedTables))
	for _, table := range WatchedTables {
		topics = append(topics, TopicForTable(table))
	}
	return topics
}
