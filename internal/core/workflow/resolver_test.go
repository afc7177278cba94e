package workflow

import (
	"testing"

	"github.com/SscSPs/expense_management_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func ruleWith(steps ...string) *domain.ApprovalRule {
	rule := &domain.ApprovalRule{RuleID: "rule-1", CompanyID: "c1", RuleType: domain.RuleTypePercentage, IsActive: true}
	for i, s := range steps {
		rule.ApprovalSteps = append(rule.ApprovalSteps, domain.ApprovalStep{StepOrder: i + 1, ApproverUser: s})
	}
	return rule
}

var (
	company  = domain.Company{CompanyID: "c1", AdminID: strPtr("admin")}
	employee = domain.User{UserID: "emp", CompanyID: "c1", Role: domain.RoleEmployee, IsActive: true}
)

func approverIDs(plan domain.ApprovalPlan) []string {
	ids := make([]string, 0, len(plan.Steps))
	for _, s := range plan.Steps {
		ids = append(ids, s.ApproverID)
	}
	return ids
}

// assertInvariant checks that a current approver exists exactly while in progress.
func assertInvariant(t *testing.T, out Outcome) {
	t.Helper()
	if out.Status == domain.StatusInProgress {
		assert.NotNil(t, out.CurrentApprover)
	} else {
		assert.Nil(t, out.CurrentApprover)
	}
}

func submit(t *testing.T, rule *domain.ApprovalRule, submitter domain.User) Outcome {
	t.Helper()
	plan, err := BuildPlan(rule, submitter, company, nil)
	require.NoError(t, err)
	out, err := Submit(domain.StatusDraft, plan)
	require.NoError(t, err)
	assertInvariant(t, out)
	return out
}

func TestBuildPlan(t *testing.T) {
	withManager := employee
	withManager.ManagerID = strPtr("mgr")

	tests := []struct {
		name      string
		rule      *domain.ApprovalRule
		submitter domain.User
		want      []string
		source    domain.StepSource
	}{
		{"explicit steps in order", ruleWith("u1", "u2"), employee, []string{"u1", "u2"}, domain.SourceRule},
		{"manager first", func() *domain.ApprovalRule {
			r := ruleWith("u1", "u2")
			r.IsManagerApproverRequired = true
			return r
		}(), withManager, []string{"mgr", "u1", "u2"}, domain.SourceManager},
		{"default manager when employee has none", func() *domain.ApprovalRule {
			r := ruleWith("u1")
			r.IsManagerApproverRequired = true
			r.DefaultManagerID = strPtr("dm")
			return r
		}(), employee, []string{"dm", "u1"}, domain.SourceManager},
		{"manager flag without any manager", func() *domain.ApprovalRule {
			r := ruleWith("u1")
			r.IsManagerApproverRequired = true
			return r
		}(), employee, []string{"u1"}, domain.SourceRule},
		{"duplicates keep first position", func() *domain.ApprovalRule {
			r := ruleWith("mgr", "u1", "u1")
			r.IsManagerApproverRequired = true
			return r
		}(), withManager, []string{"mgr", "u1"}, domain.SourceManager},
		{"submitter dropped", ruleWith("emp", "u1"), employee, []string{"u1"}, domain.SourceRule},
		{"no rule falls back to admin", nil, employee, []string{"admin"}, domain.SourceFallback},
		{"empty rule falls back to admin", ruleWith(), employee, []string{"admin"}, domain.SourceFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BuildPlan(tt.rule, tt.submitter, company, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, approverIDs(plan))
			assert.Equal(t, tt.source, plan.Steps[0].Source)
			assert.Equal(t, 0, plan.CurrentStep)
			for i, s := range plan.Steps {
				assert.Equal(t, i, s.StepOrder)
			}
		})
	}
}

func TestBuildPlan_Unroutable(t *testing.T) {
	_, err := BuildPlan(nil, employee, domain.Company{CompanyID: "c1"}, nil)
	assert.ErrorIs(t, err, ErrUnroutable)

	admin := domain.User{UserID: "admin", CompanyID: "c1", Role: domain.RoleAdmin, IsActive: true}
	_, err = BuildPlan(ruleWith("admin"), admin, company, nil)
	assert.ErrorIs(t, err, ErrUnroutable)
}

func TestBuildPlan_SkipsIneligibleApprovers(t *testing.T) {
	withManager := employee
	withManager.ManagerID = strPtr("mgr")
	only := func(ids ...string) Eligible {
		return func(id string) bool {
			for _, ok := range ids {
				if ok == id {
					return true
				}
			}
			return false
		}
	}
	managerRule := func(defaultManager *string, steps ...string) *domain.ApprovalRule {
		r := ruleWith(steps...)
		r.IsManagerApproverRequired = true
		r.DefaultManagerID = defaultManager
		return r
	}

	tests := []struct {
		name     string
		rule     *domain.ApprovalRule
		eligible Eligible
		want     []string
		source   domain.StepSource
	}{
		{"inactive manager dropped", managerRule(nil, "u1"), only("u1", "admin"), []string{"u1"}, domain.SourceRule},
		{"inactive manager replaced by default manager", managerRule(strPtr("dm"), "u1"), only("dm", "u1"), []string{"dm", "u1"}, domain.SourceManager},
		{"inactive rule approver dropped", managerRule(nil, "u1", "u2"), only("mgr", "u2"), []string{"mgr", "u2"}, domain.SourceManager},
		{"nobody active falls back to admin", managerRule(nil, "u1"), only("admin"), []string{"admin"}, domain.SourceFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := BuildPlan(tt.rule, withManager, company, tt.eligible)
			require.NoError(t, err)
			assert.Equal(t, tt.want, approverIDs(plan))
			assert.Equal(t, tt.source, plan.Steps[0].Source)
			for i, s := range plan.Steps {
				assert.Equal(t, i, s.StepOrder)
			}
		})
	}

	_, err := BuildPlan(managerRule(nil, "u1"), withManager, company, only())
	assert.ErrorIs(t, err, ErrUnroutable)
}

func TestBuildPlan_MarksRequiredSteps(t *testing.T) {
	rule := ruleWith("u1", "u2", "u3")
	rule.SpecificApprovers = []string{"u2"}
	rule.RuleType = domain.RuleTypeSpecificApprover

	plan, err := BuildPlan(rule, employee, company, nil)
	require.NoError(t, err)
	assert.False(t, plan.Steps[0].Required)
	assert.True(t, plan.Steps[1].Required)
	assert.False(t, plan.Steps[2].Required)
	assert.Equal(t, domain.RuleTypeSpecificApprover, plan.RuleType)
	require.NotNil(t, plan.RuleID)
	assert.Equal(t, "rule-1", *plan.RuleID)
}

func TestScenarioA_TwoStepSequentialApproval(t *testing.T) {
	out := submit(t, ruleWith("u1", "u2"), employee)
	assert.Equal(t, domain.StatusInProgress, out.Status)
	assert.Equal(t, "u1", *out.CurrentApprover)

	out, err := Approve(out.Status, out.Plan, "u1")
	require.NoError(t, err)
	assertInvariant(t, out)
	assert.Equal(t, domain.StatusInProgress, out.Status)
	assert.Equal(t, "u2", *out.CurrentApprover)
	assert.Equal(t, 1, out.Plan.CurrentStep)

	out, err = Approve(out.Status, out.Plan, "u2")
	require.NoError(t, err)
	assertInvariant(t, out)
	assert.Equal(t, domain.StatusApproved, out.Status)
}

func TestScenarioB_RejectAtFirstStep(t *testing.T) {
	out := submit(t, ruleWith("u1", "u2"), employee)

	out, err := Reject(out.Status, out.Plan, "u1")
	require.NoError(t, err)
	assertInvariant(t, out)
	assert.Equal(t, domain.StatusRejected, out.Status)

	_, err = Approve(out.Status, out.Plan, "u2")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestScenarioC_ManagerIsStepZero(t *testing.T) {
	rule := ruleWith("u1", "u2")
	rule.IsManagerApproverRequired = true
	submitter := employee
	submitter.ManagerID = strPtr("mgr")

	out := submit(t, rule, submitter)
	assert.Equal(t, "mgr", *out.CurrentApprover)

	out, err := Approve(out.Status, out.Plan, "mgr")
	require.NoError(t, err)
	assert.Equal(t, "u1", *out.CurrentApprover)
}

func TestScenarioD_WrongActor(t *testing.T) {
	out := submit(t, ruleWith("u1", "u2"), employee)

	_, err := Approve(out.Status, out.Plan, "u2")
	assert.ErrorIs(t, err, ErrNotCurrentApprover)

	_, err = Reject(out.Status, out.Plan, "someone")
	assert.ErrorIs(t, err, ErrNotCurrentApprover)
}

func TestScenarioE_OverrideRejected(t *testing.T) {
	out := submit(t, ruleWith("u1"), employee)
	out, err := Reject(out.Status, out.Plan, "u1")
	require.NoError(t, err)

	out, err = Override(out.Status, out.Plan)
	require.NoError(t, err)
	assertInvariant(t, out)
	assert.Equal(t, domain.StatusApproved, out.Status)
}

func TestRejectAtAnyStep(t *testing.T) {
	steps := []string{"u1", "u2", "u3", "u4"}
	for i := range steps {
		out := submit(t, ruleWith(steps...), employee)
		for _, approver := range steps[:i] {
			var err error
			out, err = Approve(out.Status, out.Plan, approver)
			require.NoError(t, err)
		}
		out, err := Reject(out.Status, out.Plan, steps[i])
		require.NoError(t, err)
		assert.Equal(t, domain.StatusRejected, out.Status, "reject at step %d", i)
		assert.Nil(t, out.CurrentApprover)
	}
}

func TestApprove_PercentageThreshold(t *testing.T) {
	rule := ruleWith("u1", "u2", "u3", "u4")
	rule.Percentage = intPtr(50)

	out := submit(t, rule, employee)
	out, err := Approve(out.Status, out.Plan, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Status)

	out, err = Approve(out.Status, out.Plan, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, out.Status)
	assert.Nil(t, out.CurrentApprover)
}

func TestApprove_SpecificApproverCompletesOnLastRequired(t *testing.T) {
	rule := ruleWith("u1", "u2", "u3")
	rule.RuleType = domain.RuleTypeSpecificApprover
	rule.SpecificApprovers = []string{"u1", "u2"}

	out := submit(t, rule, employee)
	out, err := Approve(out.Status, out.Plan, "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, out.Status)
	assert.Equal(t, "u2", *out.CurrentApprover)

	out, err = Approve(out.Status, out.Plan, "u2")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, out.Status)
}

func TestApprove_HybridNeedsBothConditions(t *testing.T) {
	rule := ruleWith("u1", "u2", "u3", "u4")
	rule.RuleType = domain.RuleTypeHybrid
	rule.Percentage = intPtr(25)
	rule.SpecificApprovers = []string{"u3"}

	out := submit(t, rule, employee)
	for _, approver := range []string{"u1", "u2"} {
		var err error
		out, err = Approve(out.Status, out.Plan, approver)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, out.Status, "after %s", approver)
	}

	out, err := Approve(out.Status, out.Plan, "u3")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, out.Status)
}

func TestApprove_DoesNotMutateInput(t *testing.T) {
	out := submit(t, ruleWith("u1", "u2"), employee)
	before := out.Plan.Clone()

	_, err := Approve(out.Status, out.Plan, "u1")
	require.NoError(t, err)
	assert.Equal(t, before, out.Plan)
}

func TestForceReject(t *testing.T) {
	out := submit(t, ruleWith("u1"), employee)
	out, err := ForceReject(out.Status, out.Plan)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, out.Status)

	_, err = ForceReject(domain.StatusApproved, out.Plan)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestIsComplete(t *testing.T) {
	steps := func(approved ...bool) []domain.PlanStep {
		s := make([]domain.PlanStep, len(approved))
		for i, a := range approved {
			s[i] = domain.PlanStep{StepOrder: i, Approved: a}
		}
		return s
	}

	assert.False(t, IsComplete(domain.ApprovalPlan{RuleType: domain.RuleTypePercentage, Steps: steps(true, false)}))
	assert.True(t, IsComplete(domain.ApprovalPlan{RuleType: domain.RuleTypePercentage, Steps: steps(true, true)}))
	assert.True(t, IsComplete(domain.ApprovalPlan{RuleType: domain.RuleTypePercentage, Percentage: intPtr(50), Steps: steps(true, false)}))
	assert.False(t, IsComplete(domain.ApprovalPlan{RuleType: domain.RuleTypePercentage, Percentage: intPtr(60), Steps: steps(true, false)}))
	assert.False(t, IsComplete(domain.ApprovalPlan{RuleType: domain.RuleTypeSpecificApprover, Steps: steps(true, false)}))
}
