package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"smartcart/adapters/excel"
	"smartcart/adapters/postgres"
	"smartcart/app"
	"smartcart/domain/transaction"
	"smartcart/internal/config"
	"smartcart/internal/testkit"
	"smartcart/ports"
)

// generatorSource serves seeded synthetic transactions when no database is
// configured, so the engines can be exercised without infrastructure.
type generatorSource struct{}

func (generatorSource) Transactions(ctx context.Context) ([]transaction.Transaction, error) {
	return testkit.NewTransactionGenerator(testkit.DefaultGeneratorConfig()).Generate(), nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var source ports.TransactionSource
	if cfg.Database.URL != "" {
		source, err = postgres.Open(cfg.Database.URL, cfg.Database.Table)
		if err != nil {
			log.Fatalf("Failed to open transaction source: %v", err)
		}
	} else {
		log.Print("DATABASE_URL not set, using synthetic transactions")
		source = generatorSource{}
	}

	session, err := app.NewAnalysisSession(cfg, source, excel.NewRuleWriter(cfg.Export.Sheet))
	if err != nil {
		log.Fatalf("Failed to build analysis session: %v", err)
	}

	ctx := context.Background()
	if err := session.Refresh(ctx); err != nil {
		log.Fatalf("Failed to fit engines: %v", err)
	}

	summary := session.Baskets().RulesSummary()
	printJSON("rules_summary", summary)

	bundles, err := session.Baskets().TopBundles(10)
	if err != nil {
		log.Fatalf("Failed to rank bundles: %v", err)
	}
	printJSON("top_bundles", bundles)

	pairs, err := session.Baskets().FrequentlyBoughtTogether(10)
	if err != nil {
		log.Fatalf("Failed to rank pairs: %v", err)
	}
	printJSON("frequently_bought_together", pairs)

	if summary.TotalRules > 0 {
		if err := session.ExportRules(ctx); err != nil {
			log.Fatalf("Failed to export rules: %v", err)
		}
		log.Printf("Exported %d rules to %s", summary.TotalRules, cfg.Export.Path)
	}
}

func printJSON(label string, v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render %s: %v", label, err)
	}
	fmt.Printf("%s:\n%s\n", label, out)
}
