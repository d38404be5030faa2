/*
Copyright © 2025 Vadym Kuzemko <vadym.kuzemko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vkuzemko/filetran/internal"
	"github.com/vkuzemko/filetran/internal/detector"
	"github.com/vkuzemko/filetran/internal/job"
	"github.com/vkuzemko/filetran/internal/logging"
	"github.com/vkuzemko/filetran/internal/memoize"
	"github.com/vkuzemko/filetran/internal/provider"
	"github.com/vkuzemko/filetran/internal/store"
	"github.com/vkuzemko/filetran/internal/validator"
)

var (
	inputFile  string
	outputFile string
	sourceLang string
	targetLang string

	providerName      string
	credentials       string
	apiKey            string
	mymemoryEmail     string
	libretranslateURL string

	dbPath     string
	noCache    bool
	maxRetries int
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a file's content, preserving its structure",
	Long: `Translate the content of a CSV, TXT, XLSX or XLS file into the target
language. Headers and cells are translated; row counts, column counts and
sheet names are preserved. Legacy XLS input is written back as XLSX.

Available providers:
  - google          Google Cloud Translation (requires credentials)
  - mymemory        MyMemory (free, 5000 chars/day)
  - libretranslate  LibreTranslate (self-hosted)

When --output is omitted the result is written next to the input with a
"_translated" suffix, e.g. report.csv becomes report_translated.csv.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFile == "" {
			outputFile = job.OutputName(inputFile)
		}
		if inputFile == outputFile {
			return fmt.Errorf("input file and output file cannot be the same")
		}
		if !job.Supported(inputFile) {
			return fmt.Errorf("unsupported file format %q (supported: .csv, .txt, .xlsx, .xls)", filepath.Ext(inputFile))
		}

		logger, err := logging.New(logLevel)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read input file: %w", err)
		}

		service, err := buildProvider(providerName, flagOrConfig(mymemoryEmail, "mymemory_email"), libretranslateURL)
		if err != nil {
			return err
		}

		runner := &job.Runner{
			Service: service,
			Config: provider.ServiceConfig{
				Credentials:   flagOrConfig(credentials, "credentials"),
				APIKey:        flagOrConfig(apiKey, "api_key"),
				BaseURL:       libretranslateURL,
				MyMemoryEmail: flagOrConfig(mymemoryEmail, "mymemory_email"),
				Timeout:       30 * time.Second,
			},
			Retry:     retryConfig(maxRetries),
			Detector:  detector.New(),
			Validator: validator.New(),
			Logger:    logger,
		}

		if !noCache && dbPath != "" {
			db, err := store.New(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer db.Close()
			runner.Store = db
		}

		out, err := runner.Run(context.Background(), job.Input{
			Name: filepath.Base(inputFile),
			Data: data,
			Langs: internal.TranslationRequest{
				SourceLang: sourceLang,
				TargetLang: targetLang,
			},
		})
		if err != nil {
			return err
		}

		if dir := filepath.Dir(outputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		if err := os.WriteFile(outputFile, out.Data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		fmt.Printf("Successfully translated %s to %s\n", inputFile, targetLang)
		fmt.Printf("Output written to %s\n", outputFile)
		return nil
	},
}

func retryConfig(maxAttempts int) memoize.Config {
	cfg := memoize.DefaultConfig()
	cfg.MaxAttempts = maxAttempts
	return cfg
}

// flagOrConfig prefers the flag value and falls back to the viper config key.
func flagOrConfig(flagValue, configKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return viper.GetString(configKey)
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: input name with _translated suffix)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "auto", "Source language code")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code (required)")

	translateCmd.Flags().StringVar(&providerName, "provider", "mymemory", "Translation provider (google, mymemory, libretranslate)")
	translateCmd.Flags().StringVarP(&credentials, "credentials", "c", "", "Path to Google Cloud credentials")
	translateCmd.Flags().StringVar(&apiKey, "api-key", "", "API key for providers that require one")
	translateCmd.Flags().StringVar(&mymemoryEmail, "mymemory-email", "", "MyMemory email (for higher limits)")
	translateCmd.Flags().StringVar(&libretranslateURL, "libretranslate-url", provider.DefaultLibreTranslateURL, "LibreTranslate base URL")

	translateCmd.Flags().StringVar(&dbPath, "db", "./data/filetran.db", "Database path for translation memory and glossary")
	translateCmd.Flags().BoolVar(&noCache, "no-cache", false, "Disable persistent translation memory")
	translateCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "Total attempts per translation unit including the first (1 = no retries)")

	translateCmd.MarkFlagRequired("input")
	translateCmd.MarkFlagRequired("target")
}
