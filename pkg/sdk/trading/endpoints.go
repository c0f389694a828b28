package trading

// Endpoint paths, relative to the environment base URL.
const (
	// Orders
	EndpointOrders          = "/v2/orders"
	EndpointOrderByClientID = "/v2/orders:by_client_order_id"

	// Positions
	EndpointPositions = "/v2/positions"

	// Account
	EndpointAccount          = "/v2/account"
	EndpointPortfolioHistory = "/v2/account/portfolio/history"
	EndpointActivities       = "/v2/account/activities"

	// Assets
	EndpointAssets = "/v2/assets"
)

