package core

import (
	"context"
	"errors"
	"time"
)

// VerdictSource declares which rule-evaluation path is authoritative for
// carrier verdicts in a deployment.
type VerdictSource string

const (
	// VerdictSourceClient trusts the carrierResults supplied on each
	// declared condition by the caller's own rule matching.
	VerdictSourceClient VerdictSource = "client"
	// VerdictSourceCatalog evaluates rule buckets server-side for any
	// declared condition that arrived without carrierResults. Supplied
	// results are merged, never recomputed.
	VerdictSourceCatalog VerdictSource = "catalog"
)

// QuoteService runs the quote pipeline: validate, scope carriers by
// location preference, fetch raw rates, resolve condition verdicts, then
// annotate and rank.
type QuoteService interface {
	Search(ctx context.Context, in QuoteRequest) ([]RateQuote, error)
}

type quoteService struct {
	quotes  QuoteRepo
	prefs   PreferenceRepo
	catalog *Handle
	source  VerdictSource
	clock   func() time.Time
}

func NewQuoteService(quotes QuoteRepo, prefs PreferenceRepo, catalog *Handle, source VerdictSource) QuoteService {
	if catalog == nil {
		catalog = NewHandle(nil)
	}
	return &quoteService{
		quotes:  quotes,
		prefs:   prefs,
		catalog: catalog,
		source:  source,
		clock:   time.Now,
	}
}

func (s *quoteService) Search(ctx context.Context, in QuoteRequest) ([]RateQuote, error) {
	// 1) validate inputs
	if err := in.Validate(); err != nil {
		return nil, err
	}

	// 2) scope the carrier list by location preference, when declared
	key := in.Key()
	if in.LocationID != "" && s.prefs != nil {
		pref, err := s.prefs.Get(ctx, in.LocationID)
		if err != nil && !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		key.Carriers = pref.Allowed(in.Coverage)
	}

	// 3) fetch raw rates for the exact-match risk profile
	quotes, err := s.quotes.Find(ctx, key)
	if err != nil {
		return nil, err
	}

	// 4) resolve per-condition carrier verdicts
	conditions := s.resolveVerdicts(in, quotes)

	// 5) annotate and rank
	return AnnotateAndRank(quotes, conditions), nil
}

// resolveVerdicts returns the declared conditions with carrierResults
// populated. In client mode the supplied results pass through untouched.
// In catalog mode, conditions lacking results are evaluated against the
// rule buckets for every carrier present in the fetched quotes;
// conditions that already carry results keep them as-is.
func (s *quoteService) resolveVerdicts(in QuoteRequest, quotes []RateQuote) []DeclaredCondition {
	if s.source != VerdictSourceCatalog {
		return in.Conditions
	}

	cat := s.catalog.Load()
	now := s.clock()

	carriers := make([]string, 0, len(quotes))
	seen := make(map[string]bool, len(quotes))
	for _, q := range quotes {
		if !seen[q.Carrier] {
			seen[q.Carrier] = true
			carriers = append(carriers, q.Carrier)
		}
	}

	out := make([]DeclaredCondition, len(in.Conditions))
	copy(out, in.Conditions)
	for i := range out {
		if len(out[i].CarrierResults) > 0 {
			continue
		}
		var results []CarrierResult
		for _, carrier := range carriers {
			v := Evaluate(cat, out[i].Name, out[i].Responses, carrier, in.Coverage, now)
			if v.Status == VerdictUnknown && v.Explanation == "" {
				continue
			}
			results = append(results, CarrierResult{
				Carrier: carrier,
				Status:  string(v.Status),
				Reason:  v.Explanation,
			})
		}
		out[i].CarrierResults = results
	}
	return out
}
