package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var evalNow = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func eligibilityCatalog() *Catalog {
	cat := NewCatalog()
	cat.AddCondition("Stroke", CoverageTerm, nil)
	key := BucketKey{Condition: "Stroke", Indication: "", Coverage: CoverageTerm}

	cat.AddRule(key, VerdictDecline, CarrierRule{
		Carrier:              "Protective",
		TimeRequirementType:  TimeReqYears,
		TimeRequirementValue: 3,
		Explanation:          "Stroke within 3 years: decline",
	})
	cat.AddRule(key, VerdictApproved, CarrierRule{
		Carrier:             "Protective",
		TimeRequirementType: TimeReqNone,
		Explanation:         "Stroke after 3 years: standard",
	})
	cat.AddRule(key, VerdictDecline, CarrierRule{
		Carrier:             "SBLI",
		TimeRequirementType: TimeReqNone,
		Explanation:         "Stroke history: decline",
	})
	cat.AddRule(key, VerdictApproved, CarrierRule{
		Carrier:             "SBLI",
		TimeRequirementType: TimeReqNone,
	})
	cat.AddRule(key, VerdictUnknown, CarrierRule{
		Carrier:     "Gerber",
		Explanation: "Product not available with stroke history",
	})
	cat.AddRule(key, VerdictDecline, CarrierRule{
		Carrier:              "Aetna",
		TimeRequirementType:  TimeReqMonths,
		TimeRequirementValue: 24,
		Explanation:          "Stroke within 24 months: decline",
	})
	return cat
}

func TestEvaluateTimeGatedDecline(t *testing.T) {
	cat := eligibilityCatalog()

	tests := []struct {
		name    string
		treated string
		want    VerdictStatus
	}{
		// 3 years and a day of elapsed calendar time clears 3*365 days
		{"gate lifted", "2021-05-30", VerdictApproved},
		{"one day short", "2021-06-03", VerdictDecline},
		{"treated today", "2024-06-01", VerdictDecline},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := Evaluate(cat, "Stroke",
				map[string]string{TreatmentDateQuestionID: tc.treated},
				"Protective", CoverageTerm, evalNow)
			assert.Equal(t, tc.want, v.Status)
		})
	}
}

func TestEvaluateMissingDateIsUnknown(t *testing.T) {
	cat := eligibilityCatalog()

	// no date at all
	v := Evaluate(cat, "Stroke", nil, "Protective", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status)

	// unparseable date is treated the same as no date
	v = Evaluate(cat, "Stroke",
		map[string]string{TreatmentDateQuestionID: "last spring"},
		"Protective", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status)
}

func TestEvaluateStandingDeclineBeatsApproval(t *testing.T) {
	cat := eligibilityCatalog()

	// SBLI carries both a standing decline and an approval; even with no
	// treatment date the decline needs no assessment and must win.
	v := Evaluate(cat, "Stroke", nil, "SBLI", CoverageTerm, evalNow)
	assert.Equal(t, VerdictDecline, v.Status)
	assert.Equal(t, "Stroke history: decline", v.Explanation)
}

func TestEvaluateNotAvailableIsDecline(t *testing.T) {
	cat := eligibilityCatalog()

	v := Evaluate(cat, "Stroke", nil, "Gerber", CoverageTerm, evalNow)
	assert.Equal(t, VerdictDecline, v.Status)
	assert.Equal(t, "Product not available with stroke history", v.Explanation)
}

func TestEvaluateMonthGate(t *testing.T) {
	cat := eligibilityCatalog()

	v := Evaluate(cat, "Stroke",
		map[string]string{TreatmentDateQuestionID: "2023-06-01"},
		"Aetna", CoverageTerm, evalNow)
	assert.Equal(t, VerdictDecline, v.Status, "12 months elapsed, 24 required")

	v = Evaluate(cat, "Stroke",
		map[string]string{TreatmentDateQuestionID: "2022-05-01"},
		"Aetna", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status, "gate lifted but no approval rule exists")
}

func TestEvaluateMissingBucketIsUnknown(t *testing.T) {
	cat := eligibilityCatalog()

	v := Evaluate(cat, "Gout", nil, "Protective", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status)

	v = Evaluate(cat, "Stroke", nil, "Protective", CoverageFEX, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status, "coverage is part of the bucket key")

	v = Evaluate(nil, "Stroke", nil, "Protective", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status)
}

func TestEvaluateZeroTimeRequirementTypeIsUnconditional(t *testing.T) {
	// Rules built by hand often omit the requirement type entirely; they
	// behave exactly like TimeReqNone on both verdict paths.
	cat := NewCatalog()
	key := BucketKey{Condition: "Stroke", Coverage: CoverageTerm}
	cat.AddRule(key, VerdictDecline, CarrierRule{
		Carrier: "SBLI", Explanation: "Stroke history: decline",
	})
	cat.AddRule(key, VerdictApproved, CarrierRule{Carrier: "SBLI"})
	cat.AddRule(key, VerdictApproved, CarrierRule{Carrier: "Protective"})

	v := Evaluate(cat, "Stroke", nil, "SBLI", CoverageTerm, evalNow)
	assert.Equal(t, VerdictDecline, v.Status)
	assert.Equal(t, "Stroke history: decline", v.Explanation)

	v = Evaluate(cat, "Stroke", nil, "Protective", CoverageTerm, evalNow)
	assert.Equal(t, VerdictApproved, v.Status)
}

func TestEvaluateUnlistedCarrierIsUnknown(t *testing.T) {
	cat := eligibilityCatalog()

	v := Evaluate(cat, "Stroke", nil, "Banner Life", CoverageTerm, evalNow)
	assert.Equal(t, VerdictUnknown, v.Status)
	assert.Empty(t, v.Explanation)
}

func TestYearsBetween(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, YearsBetween(from, from.AddDate(0, 0, 364)))
	assert.Equal(t, 1, YearsBetween(from, from.AddDate(0, 0, 365)))
	assert.Equal(t, 0, YearsBetween(from, from.AddDate(0, 0, -10)), "future dates clamp to zero")
}

func TestMonthsBetween(t *testing.T) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, MonthsBetween(from, from.AddDate(0, 0, 29)))
	assert.Equal(t, 1, MonthsBetween(from, from.AddDate(0, 0, 30)))
	assert.Equal(t, 12, MonthsBetween(from, from.AddDate(0, 0, 365)))
}
