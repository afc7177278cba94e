package workflow

import (
	"testing"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFire(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.ApprovalStatus
		trigger Trigger
		want    domain.ApprovalStatus
		wantErr bool
	}{
		{"draft submit", domain.StatusDraft, TriggerSubmit, domain.StatusInProgress, false},
		{"in progress advance", domain.StatusInProgress, TriggerAdvance, domain.StatusInProgress, false},
		{"in progress complete", domain.StatusInProgress, TriggerComplete, domain.StatusApproved, false},
		{"in progress reject", domain.StatusInProgress, TriggerReject, domain.StatusRejected, false},
		{"draft override", domain.StatusDraft, TriggerOverride, domain.StatusApproved, false},
		{"in progress override", domain.StatusInProgress, TriggerOverride, domain.StatusApproved, false},
		{"approved override", domain.StatusApproved, TriggerOverride, domain.StatusApproved, false},
		{"rejected override", domain.StatusRejected, TriggerOverride, domain.StatusApproved, false},
		{"draft advance", domain.StatusDraft, TriggerAdvance, "", true},
		{"draft reject", domain.StatusDraft, TriggerReject, "", true},
		{"in progress submit", domain.StatusInProgress, TriggerSubmit, "", true},
		{"approved reject", domain.StatusApproved, TriggerReject, "", true},
		{"rejected advance", domain.StatusRejected, TriggerAdvance, "", true},
		{"rejected submit", domain.StatusRejected, TriggerSubmit, "", true},
		{"unknown status", domain.ApprovalStatus("Pending"), TriggerSubmit, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Fire(tt.from, tt.trigger)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTransition)
				assert.False(t, CanFire(tt.from, tt.trigger))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, CanFire(tt.from, tt.trigger))
		})
	}
}

func TestEveryStatusIsConfigured(t *testing.T) {
	for _, s := range domain.AllStatuses {
		_, ok := table[s]
		assert.True(t, ok, "status %s has no transitions", s)
		assert.True(t, CanFire(s, TriggerOverride), "override must be allowed from %s", s)
	}
}
