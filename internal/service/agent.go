package service

import (
	"context"
	"errors"
	"time"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/repository"
)

type agentService struct {
	agentRepo repository.AgentRepository
	now       func() time.Time
}

func NewAgentService(agentRepo repository.AgentRepository) AgentService {
	return &agentService{agentRepo: agentRepo, now: time.Now}
}

func (s *agentService) ListAgents(ctx context.Context) ([]domain.Agent, error) {
	agents, err := s.agentRepo.List(ctx)
	if err != nil {
		return nil, fail("agentService.ListAgents", err)
	}
	return agents, nil
}

func (s *agentService) GetAgent(ctx context.Context, id int32) (*domain.Agent, error) {
	agent, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail("agentService.GetAgent", notFoundAs(err, domain.CodeAgentNotFound, "Agent not found"), "agentID", id)
	}
	return agent, nil
}

func (s *agentService) UpdateAgent(ctx context.Context, actor Actor, id int32, input UpdateAgentInput) (*domain.Agent, error) {
	const method = "agentService.UpdateAgent"
	logger.EnterMethod(method, "agentID", id, "actorID", actor.UserID)

	if fields := s.validateUpdate(input); len(fields) > 0 {
		return nil, fail(method, domain.NewValidationError(domain.CodeValidationFailed, "Validation failed", fields...))
	}
	if input == (UpdateAgentInput{}) {
		return nil, fail(method, domain.NewValidationError(domain.CodeNoUpdateFields, "No valid fields provided for update"))
	}

	agent, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fail(method, notFoundAs(err, domain.CodeAgentNotFound, "Agent not found"), "agentID", id)
	}
	if !actor.owns(agent.UserID) {
		return nil, fail(method, domain.NewForbiddenError(domain.CodeForbidden, "You can only update your own agent profile"), "agentID", id)
	}

	if input.EmployeeID != nil {
		agent.EmployeeID = *input.EmployeeID
	}
	if input.BranchLocation != nil {
		agent.BranchLocation = *input.BranchLocation
	}
	if input.Role != nil {
		agent.Role = *input.Role
	}
	if input.HireDate != nil {
		agent.HireDate = *input.HireDate
	}
	if input.CommissionRate != nil {
		agent.CommissionRate = *input.CommissionRate
	}
	if input.FullName != nil {
		agent.FullName = *input.FullName
	}

	if err := s.agentRepo.Update(ctx, agent); err != nil {
		err = notFoundAs(duplicateRegistration(err), domain.CodeAgentNotFound, "Agent not found")
		return nil, fail(method, err, "agentID", id)
	}

	logger.InfoContext(ctx, "Agent updated", "agentID", id, "actorID", actor.UserID)
	logger.ExitMethod(method, "agentID", id)
	return agent, nil
}

func (s *agentService) validateUpdate(input UpdateAgentInput) []domain.FieldError {
	var fields []domain.FieldError
	add := func(field, message string) {
		fields = append(fields, domain.FieldError{Field: field, Message: message})
	}

	if e := input.EmployeeID; e != nil && !employeeIDPattern.MatchString(*e) {
		add("employee_id", "Employee ID must be 2-3 letters followed by 4-6 numbers (e.g., AG0001, EMP12345)")
	}
	if b := input.BranchLocation; b != nil && (len(*b) < 2 || len(*b) > 100) {
		add("branch_location", "Branch location must be 2-100 characters")
	}
	if r := input.Role; r != nil {
		switch *r {
		case domain.AgentRoleManager, domain.AgentRoleSupervisor, domain.AgentRoleAgent, domain.AgentRoleSeniorAgent:
		default:
			add("role", "Role must be manager, supervisor, agent, or senior_agent")
		}
	}
	if h := input.HireDate; h != nil && h.After(s.now()) {
		add("hire_date", "Hire date cannot be in the future")
	}
	if r := input.CommissionRate; r != nil && (r.IsNegative() || r.GreaterThan(maxCommissionRate)) {
		add("commission_rate", "Commission rate must be between 0% and 50%")
	}
	if n := input.FullName; n != nil && !fullNamePattern.MatchString(*n) {
		add("full_name", "Name must be 2-100 characters, letters only")
	}
	return fields
}

// DeleteAgent removes the agent and its user account. Agents referenced by
// bookings are kept.
func (s *agentService) DeleteAgent(ctx context.Context, actor Actor, id int32) error {
	const method = "agentService.DeleteAgent"
	logger.EnterMethod(method, "agentID", id, "actorID", actor.UserID)

	agent, err := s.agentRepo.GetByID(ctx, id)
	if err != nil {
		return fail(method, notFoundAs(err, domain.CodeAgentNotFound, "Agent not found"), "agentID", id)
	}
	if !actor.owns(agent.UserID) {
		return fail(method, domain.NewForbiddenError(domain.CodeForbidden, "You can only delete your own agent profile"), "agentID", id)
	}

	if err := s.agentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			err = domain.NewConflictError(domain.CodeAgentInUse, "Agent is referenced by bookings and cannot be deleted")
		}
		return fail(method, notFoundAs(err, domain.CodeAgentNotFound, "Agent not found"), "agentID", id)
	}

	logger.InfoContext(ctx, "Agent deleted", "agentID", id, "actorID", actor.UserID)
	logger.ExitMethod(method, "agentID", id)
	return nil
}
