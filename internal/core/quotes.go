package core

import (
	"context"
	"fmt"
)

// RateQuote is one raw rate row for a risk profile. It is immutable once
// fetched; the engine only fills the two derived fields ApprovalStatus
// and CompleteRule.
type RateQuote struct {
	ID         int    `json:"id"`
	FaceAmount int    `json:"faceAmount"`
	Sex        string `json:"sex"`
	Age        int    `json:"age"`
	Tobacco    string `json:"tobacco"`
	State      string `json:"state"`

	// Coverage-specific discriminators: TermLength for term products,
	// UnderwritingClass for final expense.
	TermLength        string `json:"termLength,omitempty"`
	UnderwritingClass string `json:"underwritingClass,omitempty"`

	Carrier     string `json:"company"`
	PlanName    string `json:"planName"`
	TierName    string `json:"tierName"`
	MonthlyRate string `json:"monthlyRate"`
	AnnualRate  string `json:"annualRate"`
	Warnings    string `json:"warnings,omitempty"`
	LogoURL     string `json:"logoUrl,omitempty"`
	EappLink    string `json:"eapp,omitempty"`

	ApprovalStatus ApprovalStatus `json:"approvalStatus,omitempty"`
	CompleteRule   string         `json:"completeRule,omitempty"`
}

// CarrierResult is one per-carrier eligibility entry on a declared
// condition, either caller-supplied or produced by rule evaluation.
type CarrierResult struct {
	Carrier string `json:"company"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}

// DeclaredCondition is the request-scoped unit the caller supplies per
// medical condition: collected follow-up answers plus, optionally,
// pre-computed carrier results.
type DeclaredCondition struct {
	Name           string            `json:"name"`
	Responses      map[string]string `json:"responses,omitempty"`
	CarrierResults []CarrierResult   `json:"carrierResults,omitempty"`
}

// QuoteKey is the exact-match risk-profile key the quote store is
// queried by. Carriers, when non-empty, is an allow-list filter.
type QuoteKey struct {
	Coverage          CoverageType
	FaceAmount        int
	Sex               string
	Age               int
	Tobacco           string
	TermLength        string
	UnderwritingClass string
	Carriers          []string
}

// QuoteRequest is the full quote search input.
type QuoteRequest struct {
	Coverage          CoverageType        `json:"quoteType"`
	FaceAmount        int                 `json:"faceAmount"`
	Sex               string              `json:"sex"`
	Age               int                 `json:"age"`
	Tobacco           string              `json:"tobacco"`
	TermLength        string              `json:"termLength,omitempty"`
	UnderwritingClass string              `json:"underwritingClass,omitempty"`
	State             string              `json:"state,omitempty"`
	LocationID        string              `json:"locationId,omitempty"`
	Conditions        []DeclaredCondition `json:"conditions,omitempty"`
}

func (in QuoteRequest) Validate() error {
	if in.Coverage != CoverageTerm && in.Coverage != CoverageFEX {
		return fmt.Errorf("%w: quoteType must be 'term' or 'fex'", ErrValidation)
	}
	if in.FaceAmount <= 0 {
		return fmt.Errorf("%w: faceAmount must be > 0", ErrValidation)
	}
	if in.Sex == "" {
		return fmt.Errorf("%w: missing sex", ErrValidation)
	}
	if in.Age <= 0 || in.Age > 120 {
		return fmt.Errorf("%w: invalid age", ErrValidation)
	}
	if in.Tobacco == "" {
		return fmt.Errorf("%w: missing tobacco", ErrValidation)
	}
	if in.Coverage == CoverageTerm && in.TermLength == "" {
		return fmt.Errorf("%w: termLength is required for term quotes", ErrValidation)
	}
	if in.Coverage == CoverageFEX && in.UnderwritingClass == "" {
		return fmt.Errorf("%w: underwritingClass is required for fex quotes", ErrValidation)
	}
	return nil
}

// Key derives the store lookup key, without a carrier filter.
func (in QuoteRequest) Key() QuoteKey {
	return QuoteKey{
		Coverage:          in.Coverage,
		FaceAmount:        in.FaceAmount,
		Sex:               in.Sex,
		Age:               in.Age,
		Tobacco:           in.Tobacco,
		TermLength:        in.TermLength,
		UnderwritingClass: in.UnderwritingClass,
	}
}

// QuoteRepo fetches raw rate rows by exact-match risk-profile key.
type QuoteRepo interface {
	Find(ctx context.Context, key QuoteKey) ([]RateQuote, error)
}
