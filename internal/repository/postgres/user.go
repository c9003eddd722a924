package postgres

import (
	"context"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (user_type, email, password_hash, full_name, phone, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, u.Role, u.Email, u.PasswordHash, u.FullName, u.Phone, u.IsActive, now, now).Scan(&u.ID)
	if err != nil {
		return mapError(err)
	}
	u.CreatedAt, u.UpdatedAt = now, now
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, user_type, email, password_hash, full_name, phone, is_active, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, user_type, email, password_hash, full_name, phone, is_active, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *userRepository) ListActiveByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	query := `SELECT id, user_type, email, password_hash, full_name, phone, is_active, created_at, updated_at FROM users WHERE user_type = $1 AND is_active = true ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Role, &u.Email, &u.PasswordHash, &u.FullName, &u.Phone, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `INSERT INTO customers (user_id, date_of_birth, address, driving_license_number, license_expiry_date, emergency_contact_name, emergency_contact_phone, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, c.UserID, c.DateOfBirth, c.Address, c.DrivingLicenseNumber, c.LicenseExpiryDate, c.EmergencyContactName, c.EmergencyContactPhone, now).Scan(&c.ID)
	if err != nil {
		return mapError(err)
	}
	c.CreatedAt = now
	return nil
}

const customerSelect = `SELECT c.id, c.user_id, c.date_of_birth, c.address, c.driving_license_number, c.license_expiry_date,
	c.emergency_contact_name, c.emergency_contact_phone, c.created_at, u.full_name, u.email, u.phone
	FROM customers c JOIN users u ON u.id = c.user_id`

func (r *customerRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Customer, error) {
	c := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&c.ID, &c.UserID, &c.DateOfBirth, &c.Address, &c.DrivingLicenseNumber, &c.LicenseExpiryDate,
		&c.EmergencyContactName, &c.EmergencyContactPhone, &c.CreatedAt, &c.FullName, &c.Email, &c.Phone)
	if err != nil {
		return nil, mapError(err)
	}
	return c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	return r.scanOne(ctx, customerSelect+` WHERE c.id = $1`, id)
}

func (r *customerRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Customer, error) {
	return r.scanOne(ctx, customerSelect+` WHERE c.user_id = $1`, userID)
}

func (r *customerRepository) Exists(ctx context.Context, id int32) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM customers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM customers`).Scan(&n)
	return n, err
}

func (r *customerRepository) List(ctx context.Context, page, limit int32) ([]domain.Customer, int64, error) {
	_, limit, offset := pageBounds(page, limit)

	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, customerSelect+` ORDER BY c.id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		var c domain.Customer
		if err := rows.Scan(&c.ID, &c.UserID, &c.DateOfBirth, &c.Address, &c.DrivingLicenseNumber, &c.LicenseExpiryDate,
			&c.EmergencyContactName, &c.EmergencyContactPhone, &c.CreatedAt, &c.FullName, &c.Email, &c.Phone); err != nil {
			return nil, 0, err
		}
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `UPDATE customers SET date_of_birth=$1, address=$2, driving_license_number=$3, license_expiry_date=$4,
	          emergency_contact_name=$5, emergency_contact_phone=$6 WHERE id=$7`
	res, err := r.db.ExecContext(ctx, query, c.DateOfBirth, c.Address, c.DrivingLicenseNumber, c.LicenseExpiryDate,
		c.EmergencyContactName, c.EmergencyContactPhone, c.ID)
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the owning user; the customer row follows by cascade.
func (r *customerRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM users u USING customers c WHERE c.user_id = u.id AND c.id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

type agentRepository struct {
	db DBTX
}

func NewAgentRepository(db DBTX) repository.AgentRepository {
	return &agentRepository{db: db}
}

func (r *agentRepository) Create(ctx context.Context, a *domain.Agent) error {
	query := `INSERT INTO agents (user_id, employee_id, branch_location, role, hire_date, commission_rate, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, a.UserID, a.EmployeeID, a.BranchLocation, a.Role, a.HireDate, a.CommissionRate, now).Scan(&a.ID)
	if err != nil {
		return mapError(err)
	}
	a.CreatedAt = now
	return nil
}

const agentSelect = `SELECT a.id, a.user_id, a.employee_id, a.branch_location, a.role, a.hire_date, a.commission_rate, a.created_at, u.full_name
	FROM agents a JOIN users u ON u.id = a.user_id`

func (r *agentRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Agent, error) {
	a := &domain.Agent{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&a.ID, &a.UserID, &a.EmployeeID, &a.BranchLocation, &a.Role, &a.HireDate, &a.CommissionRate, &a.CreatedAt, &a.FullName)
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *agentRepository) GetByID(ctx context.Context, id int32) (*domain.Agent, error) {
	return r.scanOne(ctx, agentSelect+` WHERE a.id = $1`, id)
}

func (r *agentRepository) GetByUserID(ctx context.Context, userID int32) (*domain.Agent, error) {
	return r.scanOne(ctx, agentSelect+` WHERE a.user_id = $1`, userID)
}

func (r *agentRepository) List(ctx context.Context) ([]domain.Agent, error) {
	rows, err := r.db.QueryContext(ctx, agentSelect+` ORDER BY a.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	agents := []domain.Agent{}
	for rows.Next() {
		var a domain.Agent
		if err := rows.Scan(&a.ID, &a.UserID, &a.EmployeeID, &a.BranchLocation, &a.Role, &a.HireDate, &a.CommissionRate, &a.CreatedAt, &a.FullName); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

func (r *agentRepository) Update(ctx context.Context, a *domain.Agent) error {
	query := `WITH a AS (
	              UPDATE agents SET employee_id=$1, branch_location=$2, role=$3, hire_date=$4, commission_rate=$5 WHERE id=$6 RETURNING user_id
	          )
	          UPDATE users SET full_name=$7, updated_at=$8 FROM a WHERE users.id = a.user_id`
	res, err := r.db.ExecContext(ctx, query, a.EmployeeID, a.BranchLocation, a.Role, a.HireDate, a.CommissionRate, a.ID, a.FullName, time.Now())
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes the owning user; the agent row follows by cascade.
func (r *agentRepository) Delete(ctx context.Context, id int32) error {
	query := `DELETE FROM users u USING agents a WHERE a.user_id = u.id AND a.id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err := expectOne(res, mapError(err)); err != nil {
		if err == repository.ErrStaleState {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}
