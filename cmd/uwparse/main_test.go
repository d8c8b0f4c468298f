package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Insurance,Name,Indication,Carrier,Status,TimeRequirementType,TimeRequirementValue,CompleteRule
Term,Diabetes,type 2,Protective,Approved,none,,Type 2 controlled: standard
Term,Diabetes,type 2,SBLI,Decline,none,,Type 2 diabetes: decline
Term,Stroke,,Protective,Declined,years,3,Stroke within 3 years: decline
FEX,Diabetes,,Gerber,Not Available,none,,Not offered with diabetes
Final Expense,COPD,,Aetna,Approved,months,6,COPD stable 6 months
Whole,Ignored,,Nobody,Approved,none,,
Term,,,MissingName,Approved,none,,
Term,Gout,,SBLI,Approvedd,none,,
`

func TestConvert(t *testing.T) {
	doc, skipped, err := convert(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped, "unknown coverage, missing name, and typo'd status rows are skipped")

	require.Contains(t, doc, "Term")
	require.Contains(t, doc, "FEX")

	term := doc["Term"]
	require.Contains(t, term.Conditions, "Diabetes")
	ind := term.Conditions["Diabetes"].Indications["type 2"]
	require.NotNil(t, ind)
	require.Len(t, ind.Approvals, 1)
	require.Len(t, ind.Declines, 1)
	assert.Equal(t, "Protective", ind.Approvals[0].Carrier)
	assert.Equal(t, "none", ind.Approvals[0].TimeRequirementType)
	assert.Empty(t, ind.Approvals[0].TimeRequirementValue)

	stroke := term.Conditions["Stroke"].Indications[""]
	require.NotNil(t, stroke)
	require.Len(t, stroke.Declines, 1, "Declined spelling maps to declines")
	assert.Equal(t, "yearsSinceTreatment", stroke.Declines[0].TimeRequirementType)
	assert.Equal(t, "3", string(stroke.Declines[0].TimeRequirementValue))

	fex := doc["FEX"]
	gerber := fex.Conditions["Diabetes"].Indications[""]
	require.Len(t, gerber.NotAvailable, 1)

	// the typo'd-status row must not create the condition at all
	assert.NotContains(t, term.Conditions, "Gout")

	copd := fex.Conditions["COPD"].Indications[""]
	require.Len(t, copd.Approvals, 1, "Final Expense is canonicalized to FEX")
	assert.Equal(t, "monthsSinceTreatment", copd.Approvals[0].TimeRequirementType)
}

func TestConvertHeaderCaseInsensitive(t *testing.T) {
	csv := "insurance,name,indication,carrier,status,timerequirementtype,timerequirementvalue,completerule\n" +
		"term,Gout,,SBLI,approved,none,,\n"

	doc, skipped, err := convert(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Len(t, doc["Term"].Conditions["Gout"].Indications[""].Approvals, 1)
}

func TestConvertMissingRequiredColumn(t *testing.T) {
	csv := "Insurance,Name,Indication\nTerm,Diabetes,\n"

	_, _, err := convert(strings.NewReader(csv))
	assert.Error(t, err)
}

func TestEncodeReqValue(t *testing.T) {
	assert.Nil(t, encodeReqValue(""))
	assert.Equal(t, "3", string(encodeReqValue("3")))
	assert.Equal(t, "2.5", string(encodeReqValue("2.5")))
	assert.Equal(t, `"two years"`, string(encodeReqValue("two years")))
}
