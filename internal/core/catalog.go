package core

import (
	"sort"
	"strings"
	"sync/atomic"
)

// Condition is one entry of the rule catalog's condition index. Built once
// at catalog load; never mutated at request time.
type Condition struct {
	// Name keeps the source document's original casing for display.
	Name      string                `json:"name"`
	Coverages map[CoverageType]bool `json:"coverages"`
	FollowUps []Question            `json:"followUpQuestions,omitempty"`
}

// CarrierRule is a single underwriting rule for one carrier inside a
// bucket. TimeRequirementValue is ignored when the type is none.
type CarrierRule struct {
	Carrier              string              `json:"carrier"`
	TimeRequirementType  TimeRequirementType `json:"timeRequirementType"`
	TimeRequirementValue float64             `json:"timeRequirementValue,omitempty"`
	Explanation          string              `json:"explanation,omitempty"`
}

// RuleBucket holds the verdict-classed rule lists for one
// (condition, indication, coverage) combination.
type RuleBucket struct {
	Approvals    []CarrierRule
	Declines     []CarrierRule
	NotAvailable []CarrierRule
}

// BucketKey addresses a RuleBucket. Condition and Indication are
// case-normalized by the catalog.
type BucketKey struct {
	Condition  string
	Indication string
	Coverage   CoverageType
}

// Catalog is the process-wide, read-only underwriting rule index.
// Concurrent readers need no synchronization; reload replaces the whole
// structure through a Handle.
type Catalog struct {
	order   []string              // condition names, first-encounter order
	byName  map[string]*Condition // key: lower-cased name
	buckets map[BucketKey]*RuleBucket
}

// NewCatalog builds an empty catalog. Loaders populate it with Add calls
// before publishing; after publication it must be treated as frozen.
func NewCatalog() *Catalog {
	return &Catalog{
		byName:  make(map[string]*Condition),
		buckets: make(map[BucketKey]*RuleBucket),
	}
}

func normName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// AddCondition records a condition under a coverage type, unioning the
// coverage set when the name was already seen under another coverage.
func (c *Catalog) AddCondition(name string, cov CoverageType, followUps []Question) *Condition {
	key := normName(name)
	cond, ok := c.byName[key]
	if !ok {
		cond = &Condition{
			Name:      strings.TrimSpace(name),
			Coverages: make(map[CoverageType]bool),
		}
		c.byName[key] = cond
		c.order = append(c.order, cond.Name)
	}
	cond.Coverages[cov] = true
	if len(cond.FollowUps) == 0 && len(followUps) > 0 {
		cond.FollowUps = followUps
	}
	return cond
}

// AddRule appends a rule to the bucket list matching its verdict class.
func (c *Catalog) AddRule(key BucketKey, class VerdictStatus, rule CarrierRule) {
	key.Condition = normName(key.Condition)
	key.Indication = normName(key.Indication)
	b, ok := c.buckets[key]
	if !ok {
		b = &RuleBucket{}
		c.buckets[key] = b
	}
	switch class {
	case VerdictApproved:
		b.Approvals = append(b.Approvals, rule)
	case VerdictDecline:
		b.Declines = append(b.Declines, rule)
	default:
		b.NotAvailable = append(b.NotAvailable, rule)
	}
}

// ListConditions returns all condition names in first-encounter order.
func (c *Catalog) ListConditions() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// FindCondition looks a condition up by case-insensitive exact name.
func (c *Catalog) FindCondition(name string) (*Condition, bool) {
	cond, ok := c.byName[normName(name)]
	return cond, ok
}

// Search returns condition names containing the query, case-insensitive.
// An empty result is a valid answer, not an error.
func (c *Catalog) Search(query string) []string {
	q := normName(query)
	if q == "" {
		return nil
	}
	var matches []string
	for _, name := range c.order {
		if strings.Contains(strings.ToLower(name), q) {
			matches = append(matches, name)
		}
	}
	return matches
}

// QuestionsFor returns the follow-up questions to collect for a declared
// condition. The "Date of last treatment" question is always first; that
// is a protocol requirement, independent of the catalog contents.
func (c *Catalog) QuestionsFor(name string) ([]Question, error) {
	cond, ok := c.FindCondition(name)
	if !ok {
		return nil, ErrConditionNotFound
	}
	questions := make([]Question, 0, 1+len(cond.FollowUps))
	questions = append(questions, Question{
		ID:   TreatmentDateQuestionID,
		Text: "Date of last treatment:",
		Type: QuestionDate,
	})
	questions = append(questions, cond.FollowUps...)
	return questions, nil
}

// Bucket returns the rule bucket for a (condition, indication, coverage)
// combination, or false when the catalog has no rules for it.
func (c *Catalog) Bucket(condition, indication string, cov CoverageType) (*RuleBucket, bool) {
	b, ok := c.buckets[BucketKey{
		Condition:  normName(condition),
		Indication: normName(indication),
		Coverage:   cov,
	}]
	return b, ok
}

// Carriers returns the distinct carrier names appearing in any rule list
// for the given coverage type, sorted for stable output.
func (c *Catalog) Carriers(cov CoverageType) []string {
	seen := make(map[string]bool)
	for key, b := range c.buckets {
		if key.Coverage != cov {
			continue
		}
		for _, list := range [][]CarrierRule{b.Approvals, b.Declines, b.NotAvailable} {
			for _, r := range list {
				seen[r.Carrier] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Len reports the number of indexed conditions.
func (c *Catalog) Len() int { return len(c.order) }

// Handle publishes a Catalog to concurrent readers. Reload builds a new
// catalog and swaps the pointer; in-flight requests keep the snapshot
// they loaded and never observe a partial update.
type Handle struct {
	ptr atomic.Pointer[Catalog]
}

// NewHandle wraps an initial catalog. A nil catalog is replaced with an
// empty one so readers never need a nil check.
func NewHandle(c *Catalog) *Handle {
	if c == nil {
		c = NewCatalog()
	}
	h := &Handle{}
	h.ptr.Store(c)
	return h
}

// Load returns the current catalog snapshot.
func (h *Handle) Load() *Catalog { return h.ptr.Load() }

// Swap atomically publishes a new catalog.
func (h *Handle) Swap(c *Catalog) {
	if c == nil {
		c = NewCatalog()
	}
	h.ptr.Store(c)
}
