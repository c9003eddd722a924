package jobs

import (
	"context"
	"strings"

	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/domain"
	"github.com/JadejaMayurdhwajsinh/equest-vehicle-rental-management-system/internal/logger"
)

// SendMaintenanceDigest emails administrators the vehicles whose next service
// is inside the configured window
func (jr *JobRunner) SendMaintenanceDigest() {
	jr.runWithRecovery("SendMaintenanceDigest", func() {
		ctx := context.Background()

		due, err := jr.services.Maintenance.UpcomingMaintenance(ctx)
		if err != nil {
			logger.Error("Failed to list upcoming maintenance", "error", err)
			return
		}
		if len(due) == 0 {
			logger.Info("No vehicles due for maintenance")
			return
		}

		recipients, err := jr.digestRecipients(ctx)
		if err != nil {
			logger.Error("Failed to load digest recipients", "error", err)
			return
		}
		if len(recipients) == 0 {
			logger.Warn("No recipients for maintenance digest", "due", len(due))
			return
		}

		if err := jr.services.Email.SendMaintenanceDigest(ctx, recipients, due); err != nil {
			logger.Error("Failed to send maintenance digest", "error", err)
			return
		}
		logger.Info("Sent maintenance digest", "vehicles", len(due), "recipients", len(recipients))
	})
}

// digestRecipients returns active admins plus the configured admin address,
// without duplicates
func (jr *JobRunner) digestRecipients(ctx context.Context) ([]string, error) {
	admins, err := jr.users.ListActiveByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(admins)+1)
	var recipients []string
	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		recipients = append(recipients, addr)
	}
	for _, u := range admins {
		add(u.Email)
	}
	add(jr.config.Email.AdminEmail)
	return recipients, nil
}
