package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/phsolutionsllc/replit-quote/internal/platform/config"
	"github.com/phsolutionsllc/replit-quote/internal/platform/logging"
	"github.com/phsolutionsllc/replit-quote/internal/store/postgres"
)

const termTable = `
CREATE TABLE IF NOT EXISTS term_quotes (
	id SERIAL PRIMARY KEY,
	face_amount INTEGER NOT NULL,
	sex TEXT NOT NULL,
	term_length INTEGER NOT NULL,
	state TEXT NOT NULL,
	age INTEGER NOT NULL,
	tobacco TEXT NOT NULL,
	company TEXT NOT NULL,
	plan_name TEXT NOT NULL,
	tier_name TEXT NOT NULL,
	monthly_rate TEXT NOT NULL,
	annual_rate TEXT NOT NULL,
	warnings TEXT,
	logo_url TEXT,
	eapp TEXT
)`

const fexTable = `
CREATE TABLE IF NOT EXISTS fex_quotes (
	id SERIAL PRIMARY KEY,
	face_amount INTEGER NOT NULL,
	sex TEXT NOT NULL,
	state TEXT NOT NULL,
	age INTEGER NOT NULL,
	tobacco TEXT NOT NULL,
	underwriting_class TEXT NOT NULL,
	company TEXT NOT NULL,
	plan_name TEXT NOT NULL,
	tier_name TEXT NOT NULL,
	monthly_rate TEXT NOT NULL,
	annual_rate TEXT NOT NULL,
	warnings TEXT,
	logo_url TEXT,
	eapp TEXT
)`

type termRow struct {
	faceAmount, termLength, age                      int
	sex, state, tobacco, company, plan, tier         string
	monthlyRate, annualRate, warnings, logoURL, eapp string
}

type fexRow struct {
	faceAmount, age                                   int
	sex, state, tobacco, uwClass, company, plan, tier string
	monthlyRate, annualRate, warnings, logoURL, eapp  string
}

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := postgres.NewClient(ctx, cfg.QuotesDatabaseURL,
		time.Duration(cfg.PostgresConnectTimeoutSec)*time.Second)
	if err != nil {
		log.Error("failed to connect to quote database", "err", err)
		return
	}
	defer client.Close()

	for _, ddl := range []string{termTable, fexTable} {
		if _, err := client.DB.ExecContext(ctx, ddl); err != nil {
			log.Error("failed to create table", "err", err)
			return
		}
	}

	log.Info("seeding term quotes")
	seedTerm(ctx, client.DB)

	log.Info("seeding fex quotes")
	seedFex(ctx, client.DB)

	log.Info("done seeding")
}

func seedTerm(ctx context.Context, db *sql.DB) {
	rows := []termRow{
		{250000, 20, 45, "Male", "TX", "None", "Protective", "Classic Choice Term 20", "Preferred", "38.42", "453.36", "", "https://cdn.example.com/logos/protective.png", "https://eapp.example.com/protective"},
		{250000, 20, 45, "Male", "TX", "None", "Banner Life", "OPTerm 20", "Standard Plus", "41.90", "494.42", "", "https://cdn.example.com/logos/banner.png", "https://eapp.example.com/banner"},
		{250000, 20, 45, "Male", "TX", "None", "SBLI", "Level Premium Term 20", "Preferred", "39.77", "469.29", "Rates subject to underwriting", "https://cdn.example.com/logos/sbli.png", ""},
		{500000, 30, 35, "Female", "FL", "None", "Protective", "Classic Choice Term 30", "Preferred Plus", "33.12", "390.82", "", "https://cdn.example.com/logos/protective.png", "https://eapp.example.com/protective"},
		{500000, 30, 35, "Female", "FL", "Cigarettes", "American Amicable", "Home Protector 30", "Standard Tobacco", "92.75", "1094.45", "", "https://cdn.example.com/logos/amam.png", ""},
	}

	for _, r := range rows {
		_, err := db.ExecContext(ctx, `
			INSERT INTO term_quotes
			(face_amount, sex, term_length, state, age, tobacco, company, plan_name, tier_name, monthly_rate, annual_rate, warnings, logo_url, eapp)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			r.faceAmount, r.sex, r.termLength, r.state, r.age, r.tobacco,
			r.company, r.plan, r.tier, r.monthlyRate, r.annualRate,
			r.warnings, r.logoURL, r.eapp)
		if err != nil {
			fmt.Printf("failed to seed term quote %s/%s: %v\n", r.company, r.plan, err)
		} else {
			fmt.Printf("seeded term: %s %s\n", r.company, r.plan)
		}
	}
}

func seedFex(ctx context.Context, db *sql.DB) {
	rows := []fexRow{
		{15000, 67, "Female", "GA", "None", "level", "Mutual of Omaha", "Living Promise", "Level Benefit", "58.24", "687.23", "", "https://cdn.example.com/logos/moo.png", "https://eapp.example.com/moo"},
		{15000, 67, "Female", "GA", "None", "level", "Aetna", "Protection Series", "Level", "61.09", "720.86", "", "https://cdn.example.com/logos/aetna.png", ""},
		{15000, 67, "Female", "GA", "None", "graded", "Gerber", "Guaranteed Life", "Graded", "74.50", "879.10", "Two-year graded benefit", "https://cdn.example.com/logos/gerber.png", ""},
		{10000, 72, "Male", "OH", "Cigarettes", "level", "American Amicable", "Senior Choice", "Immediate Tobacco", "88.16", "1040.29", "", "https://cdn.example.com/logos/amam.png", ""},
	}

	for _, r := range rows {
		_, err := db.ExecContext(ctx, `
			INSERT INTO fex_quotes
			(face_amount, sex, state, age, tobacco, underwriting_class, company, plan_name, tier_name, monthly_rate, annual_rate, warnings, logo_url, eapp)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
			r.faceAmount, r.sex, r.state, r.age, r.tobacco, r.uwClass,
			r.company, r.plan, r.tier, r.monthlyRate, r.annualRate,
			r.warnings, r.logoURL, r.eapp)
		if err != nil {
			fmt.Printf("failed to seed fex quote %s/%s: %v\n", r.company, r.plan, err)
		} else {
			fmt.Printf("seeded fex: %s %s\n", r.company, r.plan)
		}
	}
}
