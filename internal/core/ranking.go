package core

import (
	"sort"
	"strconv"
	"strings"
)

// rateSentinel sorts quotes with a missing or unparsable monthly rate to
// the end of their eligibility tier.
const rateSentinel = 999999.0

// AnnotateAndRank merges per-condition carrier results onto each quote
// and orders the list: non-declined quotes first, each tier ascending by
// monthly rate, ties keeping their input order. The inputs are not
// modified; a new slice is returned.
//
// Aggregation per quote: every declared condition's carrierResults are
// scanned for the quote's carrier. Any decline wins over any approval;
// the most recently encountered non-empty reason is kept as the
// explanation even when the decision came from another entry.
func AnnotateAndRank(quotes []RateQuote, conditions []DeclaredCondition) []RateQuote {
	out := make([]RateQuote, len(quotes))
	copy(out, quotes)

	for i := range out {
		out[i].ApprovalStatus, out[i].CompleteRule = aggregateCarrier(out[i].Carrier, conditions)
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].ApprovalStatus == ApprovalDecline, out[j].ApprovalStatus == ApprovalDecline
		if di != dj {
			return !di // non-declined tier first
		}
		return parseRate(out[i].MonthlyRate) < parseRate(out[j].MonthlyRate)
	})

	return out
}

func aggregateCarrier(carrier string, conditions []DeclaredCondition) (ApprovalStatus, string) {
	var (
		foundDecline  bool
		foundApproval bool
		completeRule  string
	)

	for _, cond := range conditions {
		for _, res := range cond.CarrierResults {
			if res.Carrier != carrier {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(res.Status)) {
			case "decline", "declined":
				foundDecline = true
			case "approved":
				foundApproval = true
			}
			if res.Reason != "" {
				completeRule = res.Reason
			}
		}
	}

	switch {
	case foundDecline:
		return ApprovalDecline, completeRule
	case foundApproval:
		return ApprovalApproved, completeRule
	default:
		return ApprovalUnknown, completeRule
	}
}

func parseRate(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return rateSentinel
	}
	return v
}
