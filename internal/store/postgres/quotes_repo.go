package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/phsolutionsllc/replit-quote/internal/core"
)

const termQuery = `
SELECT id, face_amount, sex, term_length, state, age, tobacco,
       company, plan_name, tier_name, monthly_rate, annual_rate,
       warnings, logo_url, eapp
FROM term_quotes
WHERE face_amount = $1
  AND sex = $2
  AND age = $3
  AND tobacco = $4
  AND term_length = $5`

const fexQuery = `
SELECT id, face_amount, sex, state, age, tobacco, underwriting_class,
       company, plan_name, tier_name, monthly_rate, annual_rate,
       warnings, logo_url, eapp
FROM fex_quotes
WHERE face_amount = $1
  AND sex = $2
  AND age = $3
  AND tobacco = $4
  AND underwriting_class = $5`

type QuoteRepoPostgres struct {
	db        *sql.DB
	opTimeout time.Duration
}

func NewQuoteRepo(db *sql.DB, opTimeout time.Duration) *QuoteRepoPostgres {
	return &QuoteRepoPostgres{db: db, opTimeout: opTimeout}
}

// Find returns the rate rows exactly matching the risk-profile key,
// optionally restricted to the allow-listed carriers, ordered by monthly
// rate ascending (the stable pre-ranking order).
func (repo *QuoteRepoPostgres) Find(ctx context.Context, key core.QuoteKey) ([]core.RateQuote, error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opTimeout)
	defer cancel()

	query := termQuery
	args := []any{key.FaceAmount, key.Sex, key.Age, key.Tobacco, key.TermLength}
	if key.Coverage == core.CoverageFEX {
		query = fexQuery
		args = []any{key.FaceAmount, key.Sex, key.Age, key.Tobacco, key.UnderwritingClass}
	}

	if len(key.Carriers) > 0 {
		query += fmt.Sprintf(" AND company = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(key.Carriers))
	}
	query += " ORDER BY monthly_rate ASC"

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quotes.query: %w", err)
	}
	defer rows.Close()

	var quotes []core.RateQuote
	for rows.Next() {
		q, err := scanQuote(rows, key.Coverage)
		if err != nil {
			return nil, fmt.Errorf("quotes.scan: %w", err)
		}
		quotes = append(quotes, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("quotes.rows: %w", err)
	}
	return quotes, nil
}

func scanQuote(rows *sql.Rows, cov core.CoverageType) (core.RateQuote, error) {
	var (
		q        core.RateQuote
		warnings sql.NullString
		logoURL  sql.NullString
		eapp     sql.NullString
	)

	var err error
	if cov == core.CoverageFEX {
		err = rows.Scan(&q.ID, &q.FaceAmount, &q.Sex, &q.State, &q.Age, &q.Tobacco,
			&q.UnderwritingClass, &q.Carrier, &q.PlanName, &q.TierName,
			&q.MonthlyRate, &q.AnnualRate, &warnings, &logoURL, &eapp)
	} else {
		err = rows.Scan(&q.ID, &q.FaceAmount, &q.Sex, &q.TermLength, &q.State, &q.Age,
			&q.Tobacco, &q.Carrier, &q.PlanName, &q.TierName,
			&q.MonthlyRate, &q.AnnualRate, &warnings, &logoURL, &eapp)
	}
	if err != nil {
		return core.RateQuote{}, err
	}

	q.Warnings = warnings.String
	q.LogoURL = logoURL.String
	q.EappLink = eapp.String
	return q, nil
}
