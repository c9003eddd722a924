package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

func TestVehicleHandler_List(t *testing.T) {
	a := newTestAPI()
	category := int32(2)
	a.vehicles.On("ListVehicles", mock.Anything, domain.VehicleFilter{Status: domain.VehicleStatusAvailable, CategoryID: &category}).
		Return([]domain.Vehicle{{ID: 1, Status: domain.VehicleStatusAvailable}}, nil)

	rec := a.do(http.MethodGet, "/api/vehicles?available=true&category=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var vehicles []domain.Vehicle
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &vehicles))
	assert.Len(t, vehicles, 1)
}

func TestVehicleHandler_Create(t *testing.T) {
	valid := `{"vehicle_number":"GJ01AB1234","make":"Toyota","model":"Innova","year":2024,"fuel_type":"diesel",` +
		`"seating_capacity":7,"daily_rate":"2500.00","location":"Ahmedabad"}`

	t.Run("Success", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleAdmin, 1)
		a.vehicles.On("CreateVehicle", mock.Anything, mock.MatchedBy(func(v *domain.Vehicle) bool {
			return v.VehicleNumber == "GJ01AB1234" && v.FuelType == domain.FuelTypeDiesel && v.DailyRate.Equal(decimal.NewFromInt(2500))
		})).Return(&domain.Vehicle{ID: 3, Status: domain.VehicleStatusAvailable}, nil)

		rec := a.do(http.MethodPost, "/api/vehicles", token, valid)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	})

	t.Run("Invalid fields", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleAdmin, 1)

		rec := a.do(http.MethodPost, "/api/vehicles", token, `{"vehicle_number":"GJ-01","make":"Toyota","model":"Innova","year":2027,`+
			`"fuel_type":"steam","seating_capacity":7,"daily_rate":0,"location":"Ahmedabad"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"daily_rate", "fuel_type", "vehicle_number", "year"}, fieldNames(decodeError(t, rec)))
	})

	t.Run("Agents cannot add vehicles", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleAgent, 7)

		rec := a.do(http.MethodPost, "/api/vehicles", token, valid)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestVehicleHandler_Update(t *testing.T) {
	a := newTestAPI()
	token := a.signIn(domain.RoleAgent, 7)
	a.vehicles.On("UpdateVehicle", mock.Anything, int32(3), mock.MatchedBy(func(in service.UpdateVehicleInput) bool {
		return in.DailyRate.Equal(decimal.NewFromInt(2800)) && *in.Location == "Surat" && in.CurrentMileage == nil
	})).Return(&domain.Vehicle{ID: 3}, nil)

	rec := a.do(http.MethodPut, "/api/vehicles/3", token, `{"daily_rate":2800,"location":"Surat"}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	a.vehicles.AssertExpectations(t)
}

func TestVehicleHandler_ChangeStatus(t *testing.T) {
	a := newTestAPI()
	token := a.signIn(domain.RoleAgent, 7)
	a.vehicles.On("ChangeVehicleStatus", mock.Anything, int32(3), domain.VehicleStatusMaintenance).
		Return(nil, domain.NewConflictError(domain.CodeVehicleRented, "Vehicle is currently rented"))

	rec := a.do(http.MethodPut, "/api/vehicles/3/status", token, `{"status":"maintenance"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, domain.CodeVehicleRented, decodeError(t, rec).Error.Code)
}

func TestVehicleHandler_Delete(t *testing.T) {
	a := newTestAPI()
	token := a.signIn(domain.RoleAdmin, 1)
	a.vehicles.On("DeleteVehicle", mock.Anything, int32(3)).Return(nil)
	a.vehicles.On("DeleteVehicle", mock.Anything, int32(4)).
		Return(domain.NewConflictError(domain.CodeVehicleInUse, "Vehicle has booking history"))

	assert.Equal(t, http.StatusOK, a.do(http.MethodDelete, "/api/vehicles/3", token, "").Code)
	assert.Equal(t, http.StatusConflict, a.do(http.MethodDelete, "/api/vehicles/4", token, "").Code)
}

func TestMaintenanceHandler(t *testing.T) {
	t.Run("Create uses the caller as the agent", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleAgent, 7)
		a.maintenance.On("RecordMaintenance", mock.Anything, int32(7), mock.MatchedBy(func(in service.MaintenanceInput) bool {
			return in.VehicleID == 3 && in.MaintenanceType == domain.MaintenanceTypeService &&
				in.ServiceDate.Equal(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)) &&
				in.Cost.Equal(decimal.NewFromInt(3500)) && in.NextServiceDueDate != nil
		})).Return(&domain.MaintenanceRecord{ID: 1, VehicleID: 3}, nil)

		rec := a.do(http.MethodPost, "/api/maintenance", token, `{"vehicle_id":3,"maintenance_type":"service","service_date":"2026-02-28",`+
			`"cost":3500,"next_service_due_date":"2026-08-28"}`)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		a.maintenance.AssertExpectations(t)
	})

	t.Run("List by vehicle", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleCustomer, 11)
		a.maintenance.On("ListVehicleMaintenance", mock.Anything, int32(3), domain.MaintenanceFilter{Type: domain.MaintenanceTypeRepair, Page: 1, Limit: 20}).
			Return(nil, domain.NewPagination(1, 20, 0), nil)

		rec := a.do(http.MethodGet, "/api/maintenance/vehicle/3?maintenance_type=repair&page=1&limit=20", token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"maintenance":[]`)
	})

	t.Run("Upcoming is not shadowed by the vehicle route", func(t *testing.T) {
		a := newTestAPI()
		token := a.signIn(domain.RoleAdmin, 1)
		a.maintenance.On("UpcomingMaintenance", mock.Anything).Return([]domain.MaintenanceDue{{VehicleID: 3}}, nil)

		rec := a.do(http.MethodGet, "/api/maintenance/upcoming", token, "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"vehicle_id":3`)
	})
}

func TestAuthHandler(t *testing.T) {
	t.Run("Register parses dates", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("Register", mock.Anything, mock.MatchedBy(func(in service.RegisterInput) bool {
			return in.Role == domain.RoleCustomer && in.DateOfBirth != nil &&
				in.DateOfBirth.Equal(time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)) && in.LicenseExpiryDate != nil
		})).Return(&domain.User{ID: 11, Email: "asha@example.com", Role: domain.RoleCustomer}, nil)

		rec := a.do(http.MethodPost, "/api/auth/register", "", `{"user_type":"customer","email":"asha@example.com","password":"Secur3Pass!",`+
			`"full_name":"Asha Rao","phone":"9876543210","date_of_birth":"1995-06-15","license_expiry_date":"2030-01-01"}`)
		assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("Register rejects an unknown user type", func(t *testing.T) {
		a := newTestAPI()
		rec := a.do(http.MethodPost, "/api/auth/register", "", `{"user_type":"owner","email":"asha@example.com","password":"x","full_name":"Asha"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, []string{"user_type"}, fieldNames(decodeError(t, rec)))
		a.auth.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
	})

	t.Run("Login failure", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("Login", mock.Anything, "asha@example.com", "wrong").
			Return("", nil, domain.NewUnauthorizedError(domain.CodeInvalidCredentials, "Invalid credentials"))

		rec := a.do(http.MethodPost, "/api/auth/login", "", `{"email":"asha@example.com","password":"wrong"}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, domain.CodeInvalidCredentials, decodeError(t, rec).Error.Code)
	})

	t.Run("Login success", func(t *testing.T) {
		a := newTestAPI()
		a.auth.On("Login", mock.Anything, "asha@example.com", "Secur3Pass!").
			Return("signed.jwt", &domain.User{ID: 11, Role: domain.RoleCustomer}, nil)

		rec := a.do(http.MethodPost, "/api/auth/login", "", `{"email":"asha@example.com","password":"Secur3Pass!"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		var body loginResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "signed.jwt", body.Token)
		assert.Equal(t, domain.RoleCustomer, body.User.Role)
	})
}

func TestCustomerAndAnalyticsHandlers(t *testing.T) {
	a := newTestAPI()
	token := a.signIn(domain.RoleAdmin, 1)
	a.customers.On("GetCustomer", mock.Anything, int32(4)).Return(nil, domain.NewNotFoundError(domain.CodeCustomerNotFound, "Customer not found"))
	a.analytics.On("GetOverview", mock.Anything).Return(&domain.Overview{TotalCustomers: 12, CompletedRevenue: decimal.RequireFromString("15000.50")}, nil)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodGet, "/api/customers/4", token, "").Code)

	rec := a.do(http.MethodGet, "/api/analytics/overview", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_customers":12`)
}
