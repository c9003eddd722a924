package http

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/service"
)

type AgentHandler struct {
	agents service.AgentService
}

func NewAgentHandler(agents service.AgentService) *AgentHandler {
	return &AgentHandler{agents: agents}
}

type updateAgentRequest struct {
	EmployeeID     *string          `json:"employee_id"`
	BranchLocation *string          `json:"branch_location"`
	Role           *string          `json:"role" validate:"omitempty,oneof=manager supervisor agent senior_agent"`
	HireDate       string           `json:"hire_date"`
	CommissionRate *decimal.Decimal `json:"commission_rate" validate:"omitempty,gte=0"`
	FullName       *string          `json:"full_name"`
}

type agentResponse struct {
	Message string        `json:"message"`
	Agent   *domain.Agent `json:"agent"`
}

func (h *AgentHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agents.ListAgents(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"agents": nonNil(agents)})
}

func (h *AgentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	agent, err := h.agents.GetAgent(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agentResponse{Message: "Agent retrieved successfully", Agent: agent})
}

func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateAgentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	var problems fieldErrors
	problems.check(req)
	hireDate := problems.date("hire_date", req.HireDate)
	if err := problems.err(); err != nil {
		writeError(w, r, err)
		return
	}

	input := service.UpdateAgentInput{
		EmployeeID:     req.EmployeeID,
		BranchLocation: req.BranchLocation,
		HireDate:       hireDate,
		CommissionRate: req.CommissionRate,
		FullName:       req.FullName,
	}
	if req.Role != nil {
		role := domain.AgentRole(*req.Role)
		input.Role = &role
	}

	agent, err := h.agents.UpdateAgent(r.Context(), actorFrom(r.Context()), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agentResponse{Message: "Agent updated successfully", Agent: agent})
}

func (h *AgentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.agents.DeleteAgent(r.Context(), actorFrom(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Agent deleted successfully"})
}
