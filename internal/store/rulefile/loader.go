// Package rulefile loads the coverage-first underwriting rule catalog
// from its JSON source document.
package rulefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

// The source document is coverage-first:
//
//	{
//	  "Term": {
//	    "Conditions": {
//	      "<condition name>": {
//	        "questions": [ {"id","text","type"}, ... ],
//	        "indications": {
//	          "<indication or \"\">": {
//	            "approvals":    [ <ruleDoc>, ... ],
//	            "declines":     [ <ruleDoc>, ... ],
//	            "notAvailable": [ <ruleDoc>, ... ]
//	          }
//	        }
//	      }
//	    }
//	  },
//	  "FEX": { ... }
//	}
//
// Conditions stays raw here: it is decoded twice, once into a map for
// the contents and once token-by-token for the key order. The condition
// index keeps the document's order, so map iteration cannot drive it.
type coverageDoc struct {
	Conditions json.RawMessage `json:"Conditions"`
}

type conditionDoc struct {
	Questions   []questionDoc            `json:"questions,omitempty"`
	Indications map[string]indicationDoc `json:"indications,omitempty"`
}

type questionDoc struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type indicationDoc struct {
	Approvals    []ruleDoc `json:"approvals,omitempty"`
	Declines     []ruleDoc `json:"declines,omitempty"`
	NotAvailable []ruleDoc `json:"notAvailable,omitempty"`
}

// ruleDoc tolerates the string-or-number TimeRequirementValue found in
// converted CSV sources.
type ruleDoc struct {
	Carrier              string          `json:"carrier"`
	TimeRequirementType  string          `json:"timeRequirementType"`
	TimeRequirementValue json.RawMessage `json:"timeRequirementValue,omitempty"`
	CompleteRule         string          `json:"completeRule,omitempty"`
}

// Load builds a catalog from the JSON document at path. Entries that do
// not parse into the closed rule types are logged and skipped rather than
// carried through as untyped data; a missing or malformed file is a
// *core.CatalogLoadError the caller downgrades to an empty catalog.
func Load(path string, log *slog.Logger) (*core.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.CatalogLoadError{Path: path, Err: err}
	}

	var doc map[string]coverageDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &core.CatalogLoadError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}
	covOrder, err := objectKeys(raw)
	if err != nil {
		return nil, &core.CatalogLoadError{Path: path, Err: fmt.Errorf("parse: %w", err)}
	}

	cat := core.NewCatalog()
	for _, covLabel := range covOrder {
		cov, err := core.ParseCoverageType(covLabel)
		if err != nil {
			log.Warn("skipping unknown coverage block", "coverage", covLabel)
			continue
		}
		if len(doc[covLabel].Conditions) == 0 {
			continue
		}
		var conds map[string]conditionDoc
		if err := json.Unmarshal(doc[covLabel].Conditions, &conds); err != nil {
			return nil, &core.CatalogLoadError{Path: path, Err: fmt.Errorf("parse %s: %w", covLabel, err)}
		}
		if len(conds) == 0 {
			continue
		}
		condOrder, err := objectKeys(doc[covLabel].Conditions)
		if err != nil {
			return nil, &core.CatalogLoadError{Path: path, Err: fmt.Errorf("parse %s: %w", covLabel, err)}
		}
		for _, name := range condOrder {
			condDoc := conds[name]
			cat.AddCondition(name, cov, parseQuestions(condDoc.Questions))
			for indication, ind := range condDoc.Indications {
				key := core.BucketKey{Condition: name, Indication: indication, Coverage: cov}
				addRules(cat, key, core.VerdictApproved, ind.Approvals, log)
				addRules(cat, key, core.VerdictDecline, ind.Declines, log)
				addRules(cat, key, core.VerdictUnknown, ind.NotAvailable, log)
				checkDuplicates(key, ind, log)
			}
		}
	}

	log.Info("underwriting rule catalog loaded", "path", path, "conditions", cat.Len())
	return cat, nil
}

// objectKeys returns a JSON object's top-level keys in document order,
// which map unmarshaling discards.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected a JSON object")
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		keys = append(keys, tok.(string))
		if err := skipValue(dec); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
		for dec.More() {
			if err := skipValue(dec); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	}
	return nil
}

func parseQuestions(docs []questionDoc) []core.Question {
	var qs []core.Question
	for _, d := range docs {
		if d.ID == "" || d.Text == "" {
			continue
		}
		qt := core.QuestionType(d.Type)
		switch qt {
		case core.QuestionDate, core.QuestionText, core.QuestionBoolean, core.QuestionChoice:
		default:
			qt = core.QuestionText
		}
		qs = append(qs, core.Question{ID: d.ID, Text: d.Text, Type: qt})
	}
	return qs
}

func addRules(cat *core.Catalog, key core.BucketKey, class core.VerdictStatus, docs []ruleDoc, log *slog.Logger) {
	for _, d := range docs {
		rule, err := d.toCore()
		if err != nil {
			log.Warn("quarantining unparseable rule",
				"condition", key.Condition,
				"indication", key.Indication,
				"coverage", key.Coverage,
				"carrier", d.Carrier,
				"err", err)
			continue
		}
		cat.AddRule(key, class, rule)
	}
}

func (d ruleDoc) toCore() (core.CarrierRule, error) {
	if d.Carrier == "" {
		return core.CarrierRule{}, fmt.Errorf("missing carrier")
	}
	reqType, err := core.ParseTimeRequirementType(d.TimeRequirementType)
	if err != nil {
		return core.CarrierRule{}, err
	}
	rule := core.CarrierRule{
		Carrier:             d.Carrier,
		TimeRequirementType: reqType,
		Explanation:         d.CompleteRule,
	}
	if reqType != core.TimeReqNone {
		v, err := parseReqValue(d.TimeRequirementValue)
		if err != nil {
			return core.CarrierRule{}, fmt.Errorf("time requirement value: %w", err)
		}
		rule.TimeRequirementValue = v
	}
	return rule, nil
}

func parseReqValue(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing")
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("neither number nor string: %s", raw)
	}
	return strconv.ParseFloat(s, 64)
}

// checkDuplicates logs carriers that appear in more than one verdict list
// of the same bucket. The source is not rejected: evaluation resolves the
// conflict via decline-dominance, but catalog authors should know.
func checkDuplicates(key core.BucketKey, ind indicationDoc, log *slog.Logger) {
	lists := map[string][]ruleDoc{
		"approvals":    ind.Approvals,
		"declines":     ind.Declines,
		"notAvailable": ind.NotAvailable,
	}
	seen := make(map[string]string)
	for listName, docs := range lists {
		for _, d := range docs {
			if prev, ok := seen[d.Carrier]; ok && prev != listName {
				log.Warn("carrier appears in multiple verdict lists",
					"condition", key.Condition,
					"indication", key.Indication,
					"coverage", key.Coverage,
					"carrier", d.Carrier,
					"lists", prev+","+listName)
			} else {
				seen[d.Carrier] = listName
			}
		}
	}
}
