package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/security"
)

func newAuthFixture() (*mockRepos, *fakeTx, *MockTokenManager, *authService) {
	m := newMockRepos()
	tx := &fakeTx{repos: m.repos()}
	tokens := new(MockTokenManager)
	svc := NewAuthService(tx, m.repos(), tokens).(*authService)
	svc.now = func() time.Time { return fixedNow }
	return m, tx, tokens, svc
}

func customerSignup() RegisterInput {
	dob := time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC)
	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return RegisterInput{
		Role:                  domain.RoleCustomer,
		Email:                 "  Asha@Example.com ",
		Password:              "Secur3Pass!",
		FullName:              "Asha Rao",
		Phone:                 "9876543210",
		DateOfBirth:           &dob,
		Address:               "12 Ring Road, Ahmedabad",
		DrivingLicenseNumber:  "GJ0120150012345",
		LicenseExpiryDate:     &expiry,
		EmergencyContactName:  "Mohan Rao",
		EmergencyContactPhone: "9876500000",
	}
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Customer profile is created with the user", func(t *testing.T) {
		m, tx, _, svc := newAuthFixture()
		m.users.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
			return u.Email == "asha@example.com" && u.PasswordHash != "Secur3Pass!" && u.IsActive
		})).Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 11 }).Return(nil)
		m.customers.On("Create", ctx, mock.MatchedBy(func(c *domain.Customer) bool {
			return c.UserID == 11 && c.DrivingLicenseNumber == "GJ0120150012345"
		})).Return(nil)

		user, err := svc.Register(ctx, customerSignup())
		require.NoError(t, err)
		assert.Equal(t, int32(11), user.ID)
		assert.NoError(t, security.CheckPassword(user.PasswordHash, "Secur3Pass!"))
		assert.Equal(t, 1, tx.calls)
		m.assertExpectations(t)
	})

	t.Run("Agent gets the default commission", func(t *testing.T) {
		m, _, _, svc := newAuthFixture()
		hired := fixedNow.AddDate(-1, 0, 0)
		m.users.On("Create", ctx, mock.Anything).Run(func(args mock.Arguments) { args.Get(1).(*domain.User).ID = 12 }).Return(nil)
		m.agents.On("Create", ctx, mock.MatchedBy(func(a *domain.Agent) bool {
			return a.UserID == 12 && a.CommissionRate.Equal(decimal.NewFromInt(5))
		})).Return(nil)

		_, err := svc.Register(ctx, RegisterInput{
			Role:           domain.RoleAgent,
			Email:          "ravi@rental.example",
			Password:       "Agent#2026x",
			FullName:       "Ravi Patel",
			Phone:          "9123456780",
			EmployeeID:     "AG0001",
			BranchLocation: "Ahmedabad",
			AgentRole:      domain.AgentRoleSeniorAgent,
			HireDate:       &hired,
		})
		require.NoError(t, err)
		m.agents.AssertExpectations(t)
	})

	t.Run("Duplicate license", func(t *testing.T) {
		m, _, _, svc := newAuthFixture()
		m.users.On("Create", ctx, mock.Anything).Return(nil)
		m.customers.On("Create", ctx, mock.Anything).Return(fmt.Errorf("%w: customers_driving_license_number_key", repository.ErrDuplicate))

		_, err := svc.Register(ctx, customerSignup())
		assert.Equal(t, domain.CodeLicenseTaken, domain.CodeOf(err))
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("Duplicate email", func(t *testing.T) {
		m, _, _, svc := newAuthFixture()
		m.users.On("Create", ctx, mock.Anything).Return(fmt.Errorf("%w: users_email_key", repository.ErrDuplicate))

		_, err := svc.Register(ctx, customerSignup())
		assert.Equal(t, domain.CodeEmailTaken, domain.CodeOf(err))
		m.customers.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Every invalid field is reported", func(t *testing.T) {
		_, tx, _, svc := newAuthFixture()
		in := customerSignup()
		in.Email = "someone@mailinator.com"
		in.Password = "password"
		minor := fixedNow.AddDate(-17, 0, 0)
		in.DateOfBirth = &minor
		in.FullName = "R2D2"

		_, err := svc.Register(ctx, in)
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Equal(t, domain.KindValidation, de.Kind)

		fields := map[string]bool{}
		for _, f := range de.Fields {
			fields[f.Field] = true
		}
		assert.True(t, fields["email"])
		assert.True(t, fields["password"])
		assert.True(t, fields["date_of_birth"])
		assert.True(t, fields["full_name"])
		assert.Equal(t, 0, tx.calls)
	})

	t.Run("Agent commission above ceiling", func(t *testing.T) {
		_, _, _, svc := newAuthFixture()
		hired := fixedNow.AddDate(0, -2, 0)
		rate := decimal.NewFromInt(51)

		_, err := svc.Register(ctx, RegisterInput{
			Role:           domain.RoleAgent,
			Email:          "ravi@rental.example",
			Password:       "Agent#2026x",
			FullName:       "Ravi Patel",
			Phone:          "9123456780",
			EmployeeID:     "ag01",
			BranchLocation: "Ahmedabad",
			AgentRole:      domain.AgentRoleAgent,
			HireDate:       &hired,
			CommissionRate: &rate,
		})
		de, ok := domain.AsError(err)
		require.True(t, ok)
		assert.Len(t, de.Fields, 2)
	})
}

func TestAgeOn(t *testing.T) {
	dob := time.Date(2008, 3, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, ageOn(dob, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 18, ageOn(dob, time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)))
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := security.HashPassword("Secur3Pass!")
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		m, _, tokens, svc := newAuthFixture()
		user := &domain.User{ID: 11, Email: "asha@example.com", Role: domain.RoleCustomer, PasswordHash: hash, IsActive: true}
		m.users.On("GetByEmail", ctx, "asha@example.com").Return(user, nil)
		tokens.On("GenerateAccessToken", int32(11), "asha@example.com", domain.RoleCustomer).Return("signed.jwt", nil)

		token, got, err := svc.Login(ctx, "Asha@Example.com", "Secur3Pass!")
		require.NoError(t, err)
		assert.Equal(t, "signed.jwt", token)
		assert.Equal(t, user, got)
	})

	t.Run("Wrong password", func(t *testing.T) {
		m, _, tokens, svc := newAuthFixture()
		m.users.On("GetByEmail", ctx, "asha@example.com").Return(&domain.User{ID: 11, PasswordHash: hash, IsActive: true}, nil)

		_, _, err := svc.Login(ctx, "asha@example.com", "wrong")
		assert.Equal(t, domain.CodeInvalidCredentials, domain.CodeOf(err))
		tokens.AssertNotCalled(t, "GenerateAccessToken", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Unknown email reads the same as a wrong password", func(t *testing.T) {
		m, _, _, svc := newAuthFixture()
		m.users.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repository.ErrNotFound)

		_, _, err := svc.Login(ctx, "nobody@example.com", "Secur3Pass!")
		assert.Equal(t, domain.CodeInvalidCredentials, domain.CodeOf(err))
		assert.Equal(t, domain.KindUnauthorized, domain.KindOf(err))
	})

	t.Run("Deactivated user", func(t *testing.T) {
		m, _, _, svc := newAuthFixture()
		m.users.On("GetByEmail", ctx, "asha@example.com").Return(&domain.User{ID: 11, PasswordHash: hash, IsActive: false}, nil)

		_, _, err := svc.Login(ctx, "asha@example.com", "Secur3Pass!")
		assert.Equal(t, domain.CodeUserInactive, domain.CodeOf(err))
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})
}

func TestAuthService_GetProfile(t *testing.T) {
	ctx := context.Background()
	m, _, _, svc := newAuthFixture()
	m.users.On("GetByID", ctx, int32(12)).Return(&domain.User{ID: 12, Role: domain.RoleAgent}, nil)
	m.agents.On("GetByUserID", ctx, int32(12)).Return(&domain.Agent{ID: 5, UserID: 12}, nil)

	profile, err := svc.GetProfile(ctx, 12)
	require.NoError(t, err)
	require.NotNil(t, profile.Agent)
	assert.Equal(t, int32(5), profile.Agent.ID)
	assert.Nil(t, profile.Customer)
}
