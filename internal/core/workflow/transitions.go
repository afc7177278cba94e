package workflow

import (
	"fmt"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
)

// Trigger is an event that moves an expense between statuses.
type Trigger string

const (
	TriggerSubmit   Trigger = "Submit"
	TriggerAdvance  Trigger = "Advance"
	TriggerComplete Trigger = "Complete"
	TriggerReject   Trigger = "Reject"
	TriggerOverride Trigger = "Override"
)

// stateConfig holds the permitted triggers of one status.
type stateConfig struct {
	transitions map[Trigger]domain.ApprovalStatus
}

// tableBuilder assembles the transition table once at package init.
type tableBuilder struct {
	configurations map[domain.ApprovalStatus]*stateConfig
}

func newTableBuilder() *tableBuilder {
	return &tableBuilder{configurations: make(map[domain.ApprovalStatus]*stateConfig)}
}

func (b *tableBuilder) configure(status domain.ApprovalStatus) *stateConfig {
	if !status.IsValid() {
		panic(fmt.Sprintf("invalid status: %s", status))
	}
	cfg, ok := b.configurations[status]
	if !ok {
		cfg = &stateConfig{transitions: make(map[Trigger]domain.ApprovalStatus)}
		b.configurations[status] = cfg
	}
	return cfg
}

func (c *stateConfig) permit(trigger Trigger, to domain.ApprovalStatus) *stateConfig {
	if !to.IsValid() {
		panic(fmt.Sprintf("invalid target status: %s", to))
	}
	c.transitions[trigger] = to
	return c
}

var table = buildTable()

func buildTable() map[domain.ApprovalStatus]*stateConfig {
	b := newTableBuilder()

	b.configure(domain.StatusDraft).
		permit(TriggerSubmit, domain.StatusInProgress).
		permit(TriggerOverride, domain.StatusApproved)

	b.configure(domain.StatusInProgress).
		permit(TriggerAdvance, domain.StatusInProgress).
		permit(TriggerComplete, domain.StatusApproved).
		permit(TriggerReject, domain.StatusRejected).
		permit(TriggerOverride, domain.StatusApproved)

	b.configure(domain.StatusApproved).
		permit(TriggerOverride, domain.StatusApproved)

	b.configure(domain.StatusRejected).
		permit(TriggerOverride, domain.StatusApproved)

	return b.configurations
}

// Fire returns the status reached by applying trigger to from, or
// ErrInvalidTransition when the pair is not in the table.
func Fire(from domain.ApprovalStatus, trigger Trigger) (domain.ApprovalStatus, error) {
	cfg, ok := table[from]
	if !ok {
		return "", fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, from)
	}
	to, ok := cfg.transitions[trigger]
	if !ok {
		return "", fmt.Errorf("%w: cannot fire %s from %s", ErrInvalidTransition, trigger, from)
	}
	return to, nil
}

// CanFire reports whether trigger is permitted from status.
func CanFire(from domain.ApprovalStatus, trigger Trigger) bool {
	_, err := Fire(from, trigger)
	return err == nil
}
