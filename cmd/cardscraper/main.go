package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/omriel/cardscraper/internal/browser"
	"github.com/omriel/cardscraper/internal/export"
	"github.com/omriel/cardscraper/internal/logger"
	"github.com/omriel/cardscraper/internal/login"
	"github.com/omriel/cardscraper/internal/scraper"
)

var (
	startDate           string
	combineInstallments bool
	outputDir           string
	format              string
	headless            bool
	envFile             string
)

var rootCmd = &cobra.Command{
	Use:   "cardscraper",
	Short: "Scrape card account summaries and transactions from the card portal",
	Long: `Logs into the card portal with an automated browser session, scrapes up
to one year of transactions across every card on the account, and writes
the normalized ledger as JSON or per-account CSV files.

Credentials come from the CARDSCRAPER_USERNAME and CARDSCRAPER_PASSWORD
environment variables, optionally loaded from an env file.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&startDate, "from", "f", "", "Earliest transaction date (YYYY-MM-DD, capped at one year back)")
	rootCmd.Flags().BoolVar(&combineInstallments, "combine-installments", false, "Keep installment rows as scraped instead of fixing their dates")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory for CSV files")
	rootCmd.Flags().StringVar(&format, "format", "json", "Output format: json (stdout) or csv (per-account files)")
	rootCmd.Flags().BoolVar(&headless, "headless", true, "Run the browser headless")
	rootCmd.Flags().StringVar(&envFile, "env-file", "", "Load environment variables from this file")
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.New()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("loading env file: %w", err)
		}
	}

	creds := scraper.Credentials{
		Username: os.Getenv("CARDSCRAPER_USERNAME"),
		Password: os.Getenv("CARDSCRAPER_PASSWORD"),
	}
	if creds.Username == "" || creds.Password == "" {
		return fmt.Errorf("CARDSCRAPER_USERNAME and CARDSCRAPER_PASSWORD must be set")
	}

	opts := scraper.Options{CombineInstallments: combineInstallments}
	if startDate != "" {
		from, err := time.ParseInLocation("2006-01-02", startDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --from date %q: %w", startDate, err)
		}
		opts.StartDate = from
	}

	if format != "json" && format != "csv" {
		return fmt.Errorf("unknown format %q, want json or csv", format)
	}

	ctx := logger.WithContext(context.Background(), log)

	chrome, err := browser.NewChrome(ctx, headless)
	if err != nil {
		return err
	}
	defer chrome.Close()

	loginPage, err := chrome.NewPage(ctx)
	if err != nil {
		return err
	}
	outcome, err := login.Run(ctx, loginPage, scraper.LoginFlow(creds))
	loginPage.Close()
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if outcome != login.OutcomeSuccess {
		return fmt.Errorf("login failed: %s", outcome)
	}
	log.Info().Msg("logged in")

	s := scraper.New(chrome, opts, log)
	result, err := s.FetchAccountData(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		if err := export.NewCSVWriter(outputDir).Write(result); err != nil {
			return err
		}
		log.Info().Str("dir", outputDir).Msg("wrote CSV files")
	default:
		if err := export.WriteJSON(os.Stdout, result); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
