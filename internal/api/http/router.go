package http

import (
	"context"
	"net/http"
	"time"

	"sharewardrobe-backend/internal/service"

	"github.com/gorilla/mux"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles everything the router dispatches to.
type Services struct {
	Cart          service.CartService
	Orders        service.OrderService
	Negotiations  service.NegotiationService
	Rentals       service.RentalService
	Deliveries    service.DeliveryService
	Ledger        service.LedgerService
	Notifications service.NotificationService
	Admin         service.AdminService
}

// NewRouter mounts every endpoint under /api/v1. Route names key the
// security table in config.
func NewRouter(svcs Services, auth *AuthMiddleware, db Pinger) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestID, Recovery, Logging)

	r.HandleFunc("/health", healthHandler(db)).Methods(http.MethodGet).Name("Health")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(auth.Handler)

	cart := NewCartHandler(svcs.Cart)
	api.HandleFunc("/cart", cart.GetCart).Methods(http.MethodGet).Name("GetCart")
	api.HandleFunc("/cart", cart.AddToCart).Methods(http.MethodPost).Name("AddToCart")
	api.HandleFunc("/cart", cart.ClearCart).Methods(http.MethodDelete).Name("ClearCart")
	api.HandleFunc("/cart/{id:[0-9]+}", cart.UpdateCartLine).Methods(http.MethodPatch).Name("UpdateCartLine")
	api.HandleFunc("/cart/{id:[0-9]+}", cart.RemoveCartLine).Methods(http.MethodDelete).Name("RemoveCartLine")

	orders := NewOrderHandler(svcs.Orders)
	api.HandleFunc("/orders", orders.Checkout).Methods(http.MethodPost).Name("Checkout")
	api.HandleFunc("/orders", orders.ListOrders).Methods(http.MethodGet).Name("ListOrders")
	api.HandleFunc("/orders/{id:[0-9]+}", orders.GetOrder).Methods(http.MethodGet).Name("GetOrder")
	api.HandleFunc("/orders/{id:[0-9]+}/status", orders.UpdateOrderStatus).Methods(http.MethodPatch).Name("UpdateOrderStatus")

	negs := NewNegotiationHandler(svcs.Negotiations)
	api.HandleFunc("/negotiations", negs.CreateNegotiation).Methods(http.MethodPost).Name("CreateNegotiation")
	api.HandleFunc("/negotiations", negs.ListNegotiations).Methods(http.MethodGet).Name("ListNegotiations")
	api.HandleFunc("/negotiations/{id:[0-9]+}", negs.GetNegotiation).Methods(http.MethodGet).Name("GetNegotiation")
	api.HandleFunc("/negotiations/{id:[0-9]+}/respond", negs.RespondNegotiation).Methods(http.MethodPost).Name("RespondNegotiation")

	rentals := NewRentalHandler(svcs.Rentals)
	api.HandleFunc("/rentals", rentals.ListRentals).Methods(http.MethodGet).Name("ListRentals")
	api.HandleFunc("/rentals/{id:[0-9]+}", rentals.GetRental).Methods(http.MethodGet).Name("GetRental")
	api.HandleFunc("/rentals/{id:[0-9]+}/return", rentals.InitiateReturn).Methods(http.MethodPost).Name("InitiateReturn")
	api.HandleFunc("/rentals/{id:[0-9]+}/inspect", rentals.InspectReturn).Methods(http.MethodPost).Name("InspectReturn")

	deliveries := NewDeliveryHandler(svcs.Deliveries)
	api.HandleFunc("/deliveries", deliveries.CreateDelivery).Methods(http.MethodPost).Name("CreateDelivery")
	api.HandleFunc("/deliveries", deliveries.ListDeliveries).Methods(http.MethodGet).Name("ListDeliveries")
	api.HandleFunc("/deliveries/{id:[0-9]+}", deliveries.GetDelivery).Methods(http.MethodGet).Name("GetDelivery")
	api.HandleFunc("/deliveries/{id:[0-9]+}/status", deliveries.UpdateDeliveryStatus).Methods(http.MethodPut).Name("UpdateDeliveryStatus")

	ledger := NewLedgerHandler(svcs.Ledger)
	api.HandleFunc("/transactions", ledger.ListTransactions).Methods(http.MethodGet).Name("ListTransactions")
	api.HandleFunc("/withdrawals", ledger.RequestWithdrawal).Methods(http.MethodPost).Name("RequestWithdrawal")
	api.HandleFunc("/withdrawals", ledger.ListWithdrawals).Methods(http.MethodGet).Name("ListWithdrawals")

	notes := NewNotificationHandler(svcs.Notifications)
	api.HandleFunc("/notifications", notes.ListNotifications).Methods(http.MethodGet).Name("ListNotifications")
	api.HandleFunc("/notifications/{id:[0-9]+}/read", notes.MarkNotificationRead).Methods(http.MethodPost).Name("MarkNotificationRead")

	admin := NewAdminHandler(svcs.Admin)
	api.HandleFunc("/admin/withdrawals", ledger.ListAllWithdrawals).Methods(http.MethodGet).Name("ListAllWithdrawals")
	api.HandleFunc("/admin/withdrawals/{id:[0-9]+}/process", ledger.ProcessWithdrawal).Methods(http.MethodPost).Name("ProcessWithdrawal")
	api.HandleFunc("/admin/configs", admin.ListConfigs).Methods(http.MethodGet).Name("ListConfigs")
	api.HandleFunc("/admin/configs/{key}", admin.GetConfig).Methods(http.MethodGet).Name("GetConfig")
	api.HandleFunc("/admin/configs/{key}", admin.UpsertConfig).Methods(http.MethodPut).Name("UpsertConfig")
	api.HandleFunc("/admin/reports/revenue", admin.RevenueReport).Methods(http.MethodGet).Name("RevenueReport")
	api.HandleFunc("/admin/reports/transactions", admin.TransactionLedger).Methods(http.MethodGet).Name("TransactionLedger")

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				status, code = "degraded", http.StatusServiceUnavailable
			}
		}
		writeJSON(w, r, code, map[string]string{"status": status})
	}
}
