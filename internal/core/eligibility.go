package core

import (
	"time"
)

// Verdict is the evaluation outcome for one condition+carrier pair.
type Verdict struct {
	Status      VerdictStatus `json:"status"`
	Explanation string        `json:"explanation,omitempty"`
}

// treatmentDateLayout matches the wire format collected by the
// treatment-date question.
const treatmentDateLayout = "2006-01-02"

// YearsBetween returns whole elapsed years between from and now as
// truncating day-count division by 365. Every time-gated rule shares this
// arithmetic; it intentionally ignores leap days.
func YearsBetween(from, now time.Time) int {
	return daysBetween(from, now) / 365
}

// MonthsBetween returns whole elapsed months as truncating day-count
// division by 30, the monthly analogue of YearsBetween.
func MonthsBetween(from, now time.Time) int {
	return daysBetween(from, now) / 30
}

func daysBetween(from, now time.Time) int {
	d := int(now.Sub(from).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Evaluate resolves one declared condition to a verdict for a single
// carrier under the given coverage type.
//
// The rule bucket is selected by (condition, indication, coverage), the
// indication coming from the responses or defaulting to the empty
// indication. Within the bucket, a standing decline beats any approval
// for the same carrier regardless of list order; a time-gated decline is
// lifted once the elapsed time since treatment meets the requirement. A
// missing or unparseable treatment date never produces a decline or an
// approval on its own: if the verdict would hinge on a rule that cannot
// be assessed, the result is Unknown.
func Evaluate(cat *Catalog, condition string, responses map[string]string, carrier string, cov CoverageType, now time.Time) Verdict {
	if cat == nil {
		return Verdict{Status: VerdictUnknown}
	}

	bucket, ok := cat.Bucket(condition, responses[IndicationResponseID], cov)
	if !ok {
		return Verdict{Status: VerdictUnknown}
	}

	treated, haveDate := parseTreatmentDate(responses[TreatmentDateQuestionID])

	var (
		decline    *CarrierRule
		approval   *CarrierRule
		unassessed bool
	)

	for i := range bucket.Declines {
		r := &bucket.Declines[i]
		if r.Carrier != carrier {
			continue
		}
		switch r.TimeRequirementType {
		case TimeReqYears:
			if !haveDate {
				unassessed = true
			} else if YearsBetween(treated, now) < int(r.TimeRequirementValue) {
				decline = r
			}
		case TimeReqMonths:
			if !haveDate {
				unassessed = true
			} else if MonthsBetween(treated, now) < int(r.TimeRequirementValue) {
				decline = r
			}
		default:
			// TimeReqNone and any unnormalized type apply unconditionally;
			// a decline is never dropped over a spelling.
			decline = r
		}
		if decline != nil {
			break
		}
	}

	// A carrier that does not offer the product for this condition sorts
	// with the declined tier.
	if decline == nil {
		for i := range bucket.NotAvailable {
			if bucket.NotAvailable[i].Carrier == carrier {
				decline = &bucket.NotAvailable[i]
				break
			}
		}
	}

	if decline != nil {
		return Verdict{Status: VerdictDecline, Explanation: decline.Explanation}
	}

	for i := range bucket.Approvals {
		r := &bucket.Approvals[i]
		if r.Carrier != carrier {
			continue
		}
		switch r.TimeRequirementType {
		case TimeReqYears:
			if !haveDate {
				unassessed = true
			} else if YearsBetween(treated, now) >= int(r.TimeRequirementValue) {
				approval = r
			}
		case TimeReqMonths:
			if !haveDate {
				unassessed = true
			} else if MonthsBetween(treated, now) >= int(r.TimeRequirementValue) {
				approval = r
			}
		default:
			approval = r
		}
		if approval != nil {
			break
		}
	}

	if unassessed {
		return Verdict{Status: VerdictUnknown}
	}
	if approval != nil {
		return Verdict{Status: VerdictApproved, Explanation: approval.Explanation}
	}
	return Verdict{Status: VerdictUnknown}
}

func parseTreatmentDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(treatmentDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
