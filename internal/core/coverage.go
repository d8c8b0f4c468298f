package core

import (
	"fmt"
	"strings"
)

// CoverageType identifies which product line a rule or quote belongs to.
type CoverageType string

const (
	CoverageTerm CoverageType = "term"
	CoverageFEX  CoverageType = "fex"
)

// ParseCoverageType normalizes the coverage labels found in rule sources
// and requests ("Term", "TERM", "FEX", "Final Expense", ...).
func ParseCoverageType(s string) (CoverageType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "term":
		return CoverageTerm, nil
	case "fex", "final expense":
		return CoverageFEX, nil
	default:
		return "", fmt.Errorf("%w: unknown coverage type %q", ErrValidation, s)
	}
}

// ApprovalStatus is the aggregate eligibility attached to a ranked quote.
type ApprovalStatus string

const (
	ApprovalApproved ApprovalStatus = "Approved"
	ApprovalDecline  ApprovalStatus = "Decline"
	ApprovalUnknown  ApprovalStatus = "UNKNOWN APPROVAL"
)

// VerdictStatus is the per-condition, per-carrier evaluation outcome.
type VerdictStatus string

const (
	VerdictApproved VerdictStatus = "Approved"
	VerdictDecline  VerdictStatus = "Decline"
	VerdictUnknown  VerdictStatus = "Unknown"
)

// TimeRequirementType gates a carrier rule on elapsed time since the
// declared treatment date.
type TimeRequirementType string

const (
	TimeReqNone   TimeRequirementType = "none"
	TimeReqYears  TimeRequirementType = "yearsSinceTreatment"
	TimeReqMonths TimeRequirementType = "monthsSinceTreatment"
)

// ParseTimeRequirementType maps source-document spellings onto the closed
// set. Unknown spellings are an error so the loader can quarantine them.
func ParseTimeRequirementType(s string) (TimeRequirementType, error) {
	switch strings.TrimSpace(s) {
	case "", "none", "None":
		return TimeReqNone, nil
	case "yearsSinceTreatment", "years":
		return TimeReqYears, nil
	case "monthsSinceTreatment", "months":
		return TimeReqMonths, nil
	default:
		return "", fmt.Errorf("%w: unknown time requirement type %q", ErrValidation, s)
	}
}

// QuestionType classifies a follow-up question's expected answer.
type QuestionType string

const (
	QuestionDate    QuestionType = "date"
	QuestionText    QuestionType = "text"
	QuestionBoolean QuestionType = "boolean"
	QuestionChoice  QuestionType = "multipleChoice"
)

// Question is a structured follow-up collected for a declared condition.
type Question struct {
	ID   string       `json:"id"`
	Text string       `json:"text"`
	Type QuestionType `json:"type"`
}

// TreatmentDateQuestionID is the response key carrying the date of last
// treatment, used by time-gated rule evaluation.
const TreatmentDateQuestionID = "treatment_date"

// IndicationResponseID is the response key selecting the clinical
// sub-classification of a condition, when the caller collected one.
const IndicationResponseID = "indication"
