package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateAndRankTiersAndRates(t *testing.T) {
	quotes := []RateQuote{
		{Carrier: "B", MonthlyRate: "30.00"},
		{Carrier: "C", MonthlyRate: "10.00"},
		{Carrier: "A", MonthlyRate: "50.00"},
	}
	conditions := []DeclaredCondition{
		{
			Name: "Diabetes",
			CarrierResults: []CarrierResult{
				{Carrier: "C", Status: "decline", Reason: "Diabetes: decline"},
				{Carrier: "A", Status: "declined"},
				{Carrier: "B", Status: "approved"},
			},
		},
	}

	got := AnnotateAndRank(quotes, conditions)
	require.Len(t, got, 3)

	// approved tier first, then declines ascending by rate
	assert.Equal(t, "B", got[0].Carrier)
	assert.Equal(t, ApprovalApproved, got[0].ApprovalStatus)
	assert.Equal(t, "C", got[1].Carrier)
	assert.Equal(t, ApprovalDecline, got[1].ApprovalStatus)
	assert.Equal(t, "A", got[2].Carrier)
	assert.Equal(t, ApprovalDecline, got[2].ApprovalStatus)

	// inputs untouched
	assert.Empty(t, quotes[0].ApprovalStatus)
	assert.Equal(t, "B", quotes[0].Carrier)
}

func TestAnnotateAndRankDeclineDominates(t *testing.T) {
	quotes := []RateQuote{{Carrier: "A", MonthlyRate: "20.00"}}
	conditions := []DeclaredCondition{
		{Name: "Diabetes", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "approved", Reason: "Diabetes ok"},
		}},
		{Name: "Stroke", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "Decline", Reason: "Stroke: decline"},
		}},
	}

	got := AnnotateAndRank(quotes, conditions)
	require.Len(t, got, 1)
	assert.Equal(t, ApprovalDecline, got[0].ApprovalStatus)
	assert.Equal(t, "Stroke: decline", got[0].CompleteRule)
}

func TestAnnotateAndRankStatusNormalization(t *testing.T) {
	tests := []struct {
		status string
		want   ApprovalStatus
	}{
		{"approved", ApprovalApproved},
		{"APPROVED", ApprovalApproved},
		{"  Approved  ", ApprovalApproved},
		{"decline", ApprovalDecline},
		{"Declined", ApprovalDecline},
		{"pending", ApprovalUnknown},
		{"", ApprovalUnknown},
	}
	for _, tc := range tests {
		quotes := []RateQuote{{Carrier: "A", MonthlyRate: "1.00"}}
		conditions := []DeclaredCondition{
			{Name: "X", CarrierResults: []CarrierResult{{Carrier: "A", Status: tc.status}}},
		}
		got := AnnotateAndRank(quotes, conditions)
		assert.Equal(t, tc.want, got[0].ApprovalStatus, "status %q", tc.status)
	}
}

func TestAnnotateAndRankLastNonEmptyReasonWins(t *testing.T) {
	quotes := []RateQuote{{Carrier: "A", MonthlyRate: "20.00"}}
	conditions := []DeclaredCondition{
		{Name: "One", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "decline", Reason: "first reason"},
		}},
		{Name: "Two", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "approved", Reason: "second reason"},
		}},
		{Name: "Three", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "approved"},
		}},
	}

	got := AnnotateAndRank(quotes, conditions)
	assert.Equal(t, ApprovalDecline, got[0].ApprovalStatus)
	assert.Equal(t, "second reason", got[0].CompleteRule, "empty reasons never overwrite")
}

func TestAnnotateAndRankNoResultsIsUnknown(t *testing.T) {
	quotes := []RateQuote{{Carrier: "A", MonthlyRate: "20.00"}}

	got := AnnotateAndRank(quotes, nil)
	assert.Equal(t, ApprovalUnknown, got[0].ApprovalStatus)
	assert.Empty(t, got[0].CompleteRule)

	// results for other carriers only
	got = AnnotateAndRank(quotes, []DeclaredCondition{
		{Name: "X", CarrierResults: []CarrierResult{{Carrier: "B", Status: "decline"}}},
	})
	assert.Equal(t, ApprovalUnknown, got[0].ApprovalStatus)
}

func TestAnnotateAndRankMalformedRateSortsLast(t *testing.T) {
	quotes := []RateQuote{
		{Carrier: "A", MonthlyRate: "n/a"},
		{Carrier: "B", MonthlyRate: "25.00"},
		{Carrier: "C", MonthlyRate: ""},
		{Carrier: "D", MonthlyRate: " 12.50 "},
	}

	got := AnnotateAndRank(quotes, nil)
	require.Len(t, got, 4)
	assert.Equal(t, "D", got[0].Carrier, "whitespace-padded rates still parse")
	assert.Equal(t, "B", got[1].Carrier)
	// unparsable rates keep their relative input order at the tail
	assert.Equal(t, "A", got[2].Carrier)
	assert.Equal(t, "C", got[3].Carrier)
}

func TestAnnotateAndRankStableWithinTies(t *testing.T) {
	quotes := []RateQuote{
		{ID: 1, Carrier: "A", MonthlyRate: "20.00"},
		{ID: 2, Carrier: "B", MonthlyRate: "20.00"},
		{ID: 3, Carrier: "C", MonthlyRate: "20.00"},
	}

	got := AnnotateAndRank(quotes, nil)
	assert.Equal(t, []int{1, 2, 3}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestAnnotateAndRankIdempotent(t *testing.T) {
	quotes := []RateQuote{
		{Carrier: "B", MonthlyRate: "30.00"},
		{Carrier: "A", MonthlyRate: "50.00"},
		{Carrier: "C", MonthlyRate: "10.00"},
	}
	conditions := []DeclaredCondition{
		{Name: "X", CarrierResults: []CarrierResult{
			{Carrier: "A", Status: "decline", Reason: "no"},
		}},
	}

	once := AnnotateAndRank(quotes, conditions)
	twice := AnnotateAndRank(once, conditions)
	assert.Equal(t, once, twice)
}

func TestAnnotateAndRankEmptyInput(t *testing.T) {
	got := AnnotateAndRank(nil, nil)
	assert.Empty(t, got)
}
