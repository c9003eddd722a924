package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
)

// Handlers groups the REST handlers mounted under /api.
type Handlers struct {
	Auth        *AuthHandler
	Bookings    *BookingHandler
	Payments    *PaymentHandler
	Vehicles    *VehicleHandler
	Customers   *CustomerHandler
	Agents      *AgentHandler
	Categories  *CategoryHandler
	Maintenance *MaintenanceHandler
	Analytics   *AnalyticsHandler
	Health      *HealthHandler
}

// NewRouter registers every route. Access rules come from config.RoutePolicies,
// keyed by the templates registered here.
func NewRouter(h Handlers, auth *Authenticator, loginLimiter *RateLimiter) *mux.Router {
	router := mux.NewRouter()
	router.Use(Recovery, RequestID, Logging)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, domain.NewNotFoundError("ROUTE_NOT_FOUND", "Route not found"))
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorEnvelope{Error: errorBody{
			Kind:    domain.KindValidation,
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		}})
	})

	api := router.PathPrefix("/api").Subrouter()
	api.Use(auth.Middleware)

	// Auth
	api.HandleFunc("/auth/register", h.Auth.Register).Methods(http.MethodPost)
	api.Handle("/auth/login", loginLimiter.Middleware(http.HandlerFunc(h.Auth.Login))).Methods(http.MethodPost)
	api.HandleFunc("/auth/profile", h.Auth.Profile).Methods(http.MethodGet)

	// Bookings
	api.HandleFunc("/bookings", h.Bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/customer/{customerId}", h.Bookings.ListByCustomer).Methods(http.MethodGet)
	api.HandleFunc("/bookings/agent/{agentId}", h.Bookings.ListByAgent).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}", h.Bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/pickup", h.Bookings.Pickup).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id}/return", h.Bookings.Return).Methods(http.MethodPut)
	api.HandleFunc("/bookings/{id}/cancel", h.Bookings.Cancel).Methods(http.MethodDelete)

	// Payments
	api.HandleFunc("/payments", h.Payments.Create).Methods(http.MethodPost)
	api.HandleFunc("/payments", h.Payments.List).Methods(http.MethodGet)
	api.HandleFunc("/payments/stats", h.Payments.Stats).Methods(http.MethodGet)
	api.HandleFunc("/payments/analytics/overview", h.Payments.AnalyticsOverview).Methods(http.MethodGet)
	api.HandleFunc("/payments/booking/{bookingId}", h.Payments.GetByBooking).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}", h.Payments.Get).Methods(http.MethodGet)
	api.HandleFunc("/payments/{id}/status", h.Payments.UpdateStatus).Methods(http.MethodPatch)
	api.HandleFunc("/payments/{id}/refund", h.Payments.Refund).Methods(http.MethodPost)

	// Vehicles
	api.HandleFunc("/vehicles", h.Vehicles.List).Methods(http.MethodGet)
	api.HandleFunc("/vehicles", h.Vehicles.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehicles/{id}", h.Vehicles.Get).Methods(http.MethodGet)
	api.HandleFunc("/vehicles/{id}", h.Vehicles.Update).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}/status", h.Vehicles.ChangeStatus).Methods(http.MethodPut)
	api.HandleFunc("/vehicles/{id}", h.Vehicles.Delete).Methods(http.MethodDelete)

	// Vehicle categories
	api.HandleFunc("/vehiclesCategory", h.Categories.Create).Methods(http.MethodPost)
	api.HandleFunc("/vehiclesCategory", h.Categories.List).Methods(http.MethodGet)
	api.HandleFunc("/vehiclesCategory/{id}", h.Categories.Get).Methods(http.MethodGet)

	// Customers
	api.HandleFunc("/customers", h.Customers.List).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", h.Customers.Get).Methods(http.MethodGet)
	api.HandleFunc("/customers/{id}", h.Customers.Update).Methods(http.MethodPut)
	api.HandleFunc("/customers/{id}", h.Customers.Delete).Methods(http.MethodDelete)

	// Agents
	api.HandleFunc("/agents", h.Agents.List).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", h.Agents.Get).Methods(http.MethodGet)
	api.HandleFunc("/agents/{id}", h.Agents.Update).Methods(http.MethodPut)
	api.HandleFunc("/agents/{id}", h.Agents.Delete).Methods(http.MethodDelete)

	// Maintenance
	api.HandleFunc("/maintenance", h.Maintenance.Create).Methods(http.MethodPost)
	api.HandleFunc("/maintenance", h.Maintenance.List).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/upcoming", h.Maintenance.Upcoming).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/agent/records", h.Maintenance.AgentRecords).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/analytics/stats", h.Maintenance.Stats).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/vehicle/{vehicleId}", h.Maintenance.ListByVehicle).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}", h.Maintenance.Get).Methods(http.MethodGet)
	api.HandleFunc("/maintenance/{id}", h.Maintenance.Update).Methods(http.MethodPut)
	api.HandleFunc("/maintenance/{id}", h.Maintenance.Delete).Methods(http.MethodDelete)

	// Analytics
	api.HandleFunc("/analytics/overview", h.Analytics.Overview).Methods(http.MethodGet)
	api.HandleFunc("/analytics/bookings", h.Analytics.Bookings).Methods(http.MethodGet)
	api.HandleFunc("/analytics/revenue", h.Analytics.Revenue).Methods(http.MethodGet)
	api.HandleFunc("/analytics/vehicles/utilization", h.Analytics.Utilization).Methods(http.MethodGet)
	api.HandleFunc("/analytics/customers", h.Analytics.Customers).Methods(http.MethodGet)
	api.HandleFunc("/analytics/performance", h.Analytics.Performance).Methods(http.MethodGet)

	api.HandleFunc("/health", h.Health.Check).Methods(http.MethodGet)

	return router
}
