package hos_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fleetlog/hos-logbook/internal/domain"
	"github.com/fleetlog/hos-logbook/internal/hos"
)

func TestEvaluateCompliance_Compliant(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 10, Driving: 11, OnDuty: 3, Total: 24})

	assert.True(t, got.IsCompliant)
	assert.NotNil(t, got.Violations)
	assert.Empty(t, got.Violations)
}

func TestEvaluateCompliance_DrivingLimit(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 10, Driving: 11.5, Total: 24})

	assert.False(t, got.IsCompliant)
	assert.Equal(t, []string{"Driving time (11.5h) exceeds 11-hour limit"}, got.Violations)
}

func TestEvaluateCompliance_OnDutyWindow(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 10, Driving: 9, OnDuty: 5.5, Total: 24})

	assert.Equal(t, []string{"On-duty time (14.5h) exceeds 14-hour window"}, got.Violations)
}

func TestEvaluateCompliance_RestRequirement(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 6, Sleeper: 3.5, Driving: 5, Total: 24})

	assert.Equal(t, []string{"Rest time (9.5h) is less than required 10 hours"}, got.Violations)
}

func TestEvaluateCompliance_AllRulesInOrder(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 2, Driving: 13, OnDuty: 4, Total: 24})

	assert.False(t, got.IsCompliant)
	assert.Equal(t, []string{
		"Driving time (13.0h) exceeds 11-hour limit",
		"On-duty time (17.0h) exceeds 14-hour window",
		"Rest time (2.0h) is less than required 10 hours",
	}, got.Violations)
}

func TestEvaluateCompliance_BoundariesAreInclusive(t *testing.T) {
	got := hos.EvaluateCompliance(domain.HoursSummary{OffDuty: 5, Sleeper: 5, Driving: 11, OnDuty: 3, Total: 24})

	assert.True(t, got.IsCompliant)
}

// Raising driving past 11 adds the driving rule and never clears another rule.
func TestEvaluateCompliance_DrivingMonotonic(t *testing.T) {
	bases := []domain.HoursSummary{
		{OffDuty: 10, Driving: 8, OnDuty: 1},
		{OffDuty: 4, Driving: 8, OnDuty: 1},
		{OffDuty: 4, Driving: 8, OnDuty: 7},
		{OffDuty: 12, Driving: 0, OnDuty: 0},
	}
	for _, base := range bases {
		before := rulesBroken(hos.EvaluateCompliance(base))
		assert.NotContains(t, before, "driving")

		for _, driving := range []float64{11.1, 12, 15.75} {
			raised := base
			raised.Driving = driving
			after := rulesBroken(hos.EvaluateCompliance(raised))

			assert.Equal(t, "driving", after[0])
			assert.Subset(t, after, before)
		}
	}
}

// rulesBroken maps each violation message back to the rule that produced it.
func rulesBroken(r domain.ComplianceResult) []string {
	rules := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		switch {
		case strings.HasPrefix(v, "Driving time"):
			rules = append(rules, "driving")
		case strings.HasPrefix(v, "On-duty time"):
			rules = append(rules, "window")
		case strings.HasPrefix(v, "Rest time"):
			rules = append(rules, "rest")
		}
	}
	return rules
}
