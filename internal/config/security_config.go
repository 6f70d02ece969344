package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
	SecurityAdmin                       // Access token of an admin required
)

// EndpointSecurityConfig maps route names to their required security level.
// Route names are set on the router when handlers are registered.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"Health": SecurityPublic,

	// Cart
	"GetCart":        SecurityAccess,
	"AddToCart":      SecurityAccess,
	"UpdateCartLine": SecurityAccess,
	"RemoveCartLine": SecurityAccess,
	"ClearCart":      SecurityAccess,

	// Orders
	"Checkout":          SecurityAccess,
	"ListOrders":        SecurityAccess,
	"GetOrder":          SecurityAccess,
	"UpdateOrderStatus": SecurityAdmin,

	// Negotiations
	"CreateNegotiation":  SecurityAccess,
	"ListNegotiations":   SecurityAccess,
	"GetNegotiation":     SecurityAccess,
	"RespondNegotiation": SecurityAccess,

	// Rentals
	"ListRentals":    SecurityAccess,
	"GetRental":      SecurityAccess,
	"InitiateReturn": SecurityAccess,
	"InspectReturn":  SecurityAdmin,

	// Deliveries
	"CreateDelivery":       SecurityAccess,
	"ListDeliveries":       SecurityAccess,
	"GetDelivery":          SecurityAccess,
	"UpdateDeliveryStatus": SecurityAdmin,

	// Ledger
	"ListTransactions":   SecurityAccess,
	"RequestWithdrawal":  SecurityAccess,
	"ListWithdrawals":    SecurityAccess,
	"ListAllWithdrawals": SecurityAdmin,
	"ProcessWithdrawal":  SecurityAdmin,

	// Notifications
	"ListNotifications":    SecurityAccess,
	"MarkNotificationRead": SecurityAccess,

	// Admin
	"ListConfigs":       SecurityAdmin,
	"GetConfig":         SecurityAdmin,
	"UpsertConfig":      SecurityAdmin,
	"RevenueReport":     SecurityAdmin,
	"TransactionLedger": SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
