package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/phsolutionsllc/replit-quote/internal/platform/logging"
)

// uwparse converts an underwriting rule spreadsheet export (CSV) into the
// coverage-first JSON document the API loads at startup.
//
// Expected columns: Insurance, Name, Indication, Carrier, Status,
// TimeRequirementType, TimeRequirementValue, CompleteRule. Extra columns
// are ignored.

type coverageOut struct {
	Conditions map[string]*conditionOut `json:"Conditions"`
}

type conditionOut struct {
	Questions   []questionOut             `json:"questions,omitempty"`
	Indications map[string]*indicationOut `json:"indications,omitempty"`
}

type questionOut struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Type string `json:"type"`
}

type indicationOut struct {
	Approvals    []ruleOut `json:"approvals,omitempty"`
	Declines     []ruleOut `json:"declines,omitempty"`
	NotAvailable []ruleOut `json:"notAvailable,omitempty"`
}

type ruleOut struct {
	Carrier              string          `json:"carrier"`
	TimeRequirementType  string          `json:"timeRequirementType"`
	TimeRequirementValue json.RawMessage `json:"timeRequirementValue,omitempty"`
	CompleteRule         string          `json:"completeRule,omitempty"`
}

func main() {
	in := flag.String("in", "rules.csv", "input CSV file")
	out := flag.String("out", "newrules.json", "output JSON file")
	flag.Parse()

	log := logging.New("dev")

	f, err := os.Open(*in)
	if err != nil {
		log.Error("failed to open input", "path", *in, "err", err)
		os.Exit(1)
	}
	defer f.Close()

	doc, skipped, err := convert(f)
	if err != nil {
		log.Error("conversion failed", "err", err)
		os.Exit(1)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Error("failed to encode document", "err", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, raw, 0o644); err != nil {
		log.Error("failed to write output", "path", *out, "err", err)
		os.Exit(1)
	}

	log.Info("converted rule document", "in", *in, "out", *out,
		"coverages", len(doc), "skipped_rows", skipped)
}

func convert(r io.Reader) (map[string]*coverageOut, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read header: %w", err)
	}
	col := indexColumns(header)
	for _, required := range []string{"insurance", "name", "carrier", "status"} {
		if _, ok := col[required]; !ok {
			return nil, 0, fmt.Errorf("missing required column %q", required)
		}
	}

	doc := make(map[string]*coverageOut)
	skipped := 0

	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", line, err)
		}

		get := func(name string) string {
			idx, ok := col[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		coverage := canonicalCoverage(get("insurance"))
		name := get("name")
		carrier := get("carrier")
		status := strings.ToLower(get("status"))
		if coverage == "" || name == "" || carrier == "" {
			skipped++
			continue
		}
		switch status {
		case "approved", "approval", "decline", "declined", "not available", "notavailable":
		default:
			// notAvailable ranks with declines downstream, so a typo'd
			// status must not land there. Drop the row instead.
			skipped++
			continue
		}

		cov, ok := doc[coverage]
		if !ok {
			cov = &coverageOut{Conditions: make(map[string]*conditionOut)}
			doc[coverage] = cov
		}
		cond, ok := cov.Conditions[name]
		if !ok {
			cond = &conditionOut{Indications: make(map[string]*indicationOut)}
			cov.Conditions[name] = cond
		}
		indication := get("indication")
		ind, ok := cond.Indications[indication]
		if !ok {
			ind = &indicationOut{}
			cond.Indications[indication] = ind
		}

		rule := ruleOut{
			Carrier:              carrier,
			TimeRequirementType:  canonicalReqType(get("timerequirementtype")),
			TimeRequirementValue: encodeReqValue(get("timerequirementvalue")),
			CompleteRule:         get("completerule"),
		}

		switch status {
		case "approved", "approval":
			ind.Approvals = append(ind.Approvals, rule)
		case "decline", "declined":
			ind.Declines = append(ind.Declines, rule)
		default:
			ind.NotAvailable = append(ind.NotAvailable, rule)
		}
	}

	return doc, skipped, nil
}

func indexColumns(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return col
}

func canonicalCoverage(s string) string {
	switch strings.ToLower(s) {
	case "term":
		return "Term"
	case "fex", "final expense":
		return "FEX"
	default:
		return ""
	}
}

func canonicalReqType(s string) string {
	switch strings.ToLower(s) {
	case "yearssincetreatment", "years":
		return "yearsSinceTreatment"
	case "monthssincetreatment", "months":
		return "monthsSinceTreatment"
	default:
		return "none"
	}
}

// encodeReqValue keeps the value numeric when the source cell parses as a
// number, falling back to a quoted string.
func encodeReqValue(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return json.RawMessage(s)
	}
	quoted, _ := json.Marshal(s)
	return quoted
}
