package config

import "github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"

type AccessLevel int

const (
	AccessPublic        AccessLevel = iota // No authentication
	AccessAuthenticated                    // Any signed-in user
	AccessRoles                            // Signed-in user holding one of Roles
)

// RoutePolicy describes who may call a route.
type RoutePolicy struct {
	Level AccessLevel
	Roles []domain.Role
}

// Allows reports whether role satisfies the policy. Public routes allow everyone.
func (p RoutePolicy) Allows(role domain.Role) bool {
	if p.Level != AccessRoles {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func public() RoutePolicy { return RoutePolicy{Level: AccessPublic} }
func authenticated() RoutePolicy { return RoutePolicy{Level: AccessAuthenticated} }
func roles(r ...domain.Role) RoutePolicy {
	return RoutePolicy{Level: AccessRoles, Roles: r}
}

// RoutePolicies maps "METHOD /path-template" (as registered on the router) to its policy.
var RoutePolicies = map[string]RoutePolicy{
	// Auth
	"POST /api/auth/register": public(),
	"POST /api/auth/login":    public(),
	"GET /api/auth/profile":   authenticated(),

	// Bookings
	"POST /api/bookings":                      roles(domain.RoleCustomer, domain.RoleAdmin),
	"GET /api/bookings/{id}":                  authenticated(),
	"GET /api/bookings/customer/{customerId}": public(),
	"GET /api/bookings/agent/{agentId}":       public(),
	"PUT /api/bookings/{id}/pickup":           roles(domain.RoleCustomer, domain.RoleAdmin),
	"PUT /api/bookings/{id}/return":           roles(domain.RoleCustomer, domain.RoleAdmin),
	"DELETE /api/bookings/{id}/cancel":        roles(domain.RoleCustomer, domain.RoleAdmin, domain.RoleAgent),

	// Payments
	"POST /api/payments":                    roles(domain.RoleAgent),
	"GET /api/payments":                     authenticated(),
	"GET /api/payments/stats":               authenticated(),
	"GET /api/payments/{id}":                authenticated(),
	"GET /api/payments/booking/{bookingId}": authenticated(),
	"PATCH /api/payments/{id}/status":       roles(domain.RoleAgent),
	"POST /api/payments/{id}/refund":        roles(domain.RoleAgent),
	"GET /api/payments/analytics/overview":  authenticated(),

	// Vehicles
	"GET /api/vehicles":             public(),
	"GET /api/vehicles/{id}":        public(),
	"POST /api/vehicles":            roles(domain.RoleAdmin),
	"PUT /api/vehicles/{id}":        roles(domain.RoleAdmin, domain.RoleAgent),
	"PUT /api/vehicles/{id}/status": roles(domain.RoleAgent, domain.RoleAdmin),
	"DELETE /api/vehicles/{id}":     roles(domain.RoleAdmin),

	// Vehicle categories
	"POST /api/vehiclesCategory":     roles(domain.RoleAdmin),
	"GET /api/vehiclesCategory":      public(),
	"GET /api/vehiclesCategory/{id}": public(),

	// Agents
	"GET /api/agents":         public(),
	"GET /api/agents/{id}":    public(),
	"PUT /api/agents/{id}":    roles(domain.RoleAdmin, domain.RoleAgent),
	"DELETE /api/agents/{id}": roles(domain.RoleAdmin, domain.RoleAgent),

	// Customers
	"GET /api/customers":         authenticated(),
	"GET /api/customers/{id}":    authenticated(),
	"PUT /api/customers/{id}":    roles(domain.RoleAdmin, domain.RoleCustomer),
	"DELETE /api/customers/{id}": roles(domain.RoleAdmin, domain.RoleCustomer),

	// Maintenance
	"POST /api/maintenance":                    roles(domain.RoleAgent),
	"GET /api/maintenance":                     authenticated(),
	"GET /api/maintenance/vehicle/{vehicleId}": authenticated(),
	"GET /api/maintenance/upcoming":            authenticated(),
	"GET /api/maintenance/agent/records":       roles(domain.RoleAgent),
	"GET /api/maintenance/analytics/stats":     authenticated(),
	"GET /api/maintenance/{id}":                authenticated(),
	"PUT /api/maintenance/{id}":                roles(domain.RoleAgent),
	"DELETE /api/maintenance/{id}":             roles(domain.RoleAgent),

	// Analytics
	"GET /api/analytics/overview":             roles(domain.RoleAdmin),
	"GET /api/analytics/bookings":             authenticated(),
	"GET /api/analytics/revenue":              authenticated(),
	"GET /api/analytics/vehicles/utilization": authenticated(),
	"GET /api/analytics/customers":            authenticated(),
	"GET /api/analytics/performance":          authenticated(),

	// Health
	"GET /api/health": public(),
}

// GetRoutePolicy returns the policy for a route key
func GetRoutePolicy(method, template string) RoutePolicy {
	if p, exists := RoutePolicies[method+" "+template]; exists {
		return p
	}
	// Unknown routes require a signed-in user
	return authenticated()
}
