package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ternarybob/onboarder/internal/app"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/models"
)

var (
	genAuthor    string
	genCompany   string
	genOutputDir string
	genNoPDF     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <repo-url>",
	Short: "Generate an onboarding pack without starting the server",
	Long: `Fetches, summarizes and renders the onboarding pack for one repository and
writes {repo}_onboarding.html (and .pdf when PDF rendering is enabled) to the
output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genAuthor, "author", "", "Author printed on the cover (default from config)")
	generateCmd.Flags().StringVar(&genCompany, "company", "", "Company printed on the cover (default from config)")
	generateCmd.Flags().StringVarP(&genOutputDir, "output", "o", "", "Output directory (default from config)")
	generateCmd.Flags().BoolVar(&genNoPDF, "no-pdf", false, "Skip PDF rendering")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services, err := app.NewServices(config, logger)
	if err != nil {
		return err
	}
	defer services.Close()

	if !services.Pipeline.LLMReady() {
		return fmt.Errorf("%w: set ANTHROPIC_API_KEY or GEMINI_API_KEY", models.ErrLLMNotConfigured)
	}

	session := &models.Session{
		ID:      common.NewSessionID(),
		RepoURL: args[0],
		Author:  firstNonEmpty(genAuthor, config.Document.DefaultAuthor),
		Company: firstNonEmpty(genCompany, config.Document.DefaultCompany),
	}

	runErr := services.Pipeline.Run(ctx, session, !genNoPDF)
	var renderErr *models.RenderError
	if runErr != nil && !errors.As(runErr, &renderErr) {
		return runErr
	}

	outputDir := firstNonEmpty(genOutputDir, config.Document.OutputDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	htmlPath := filepath.Join(outputDir, session.HTMLFileName)
	if err := os.WriteFile(htmlPath, []byte(session.HTML), 0644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	fmt.Printf("HTML written to %s (%d sections)\n", htmlPath, len(session.Summaries))

	if len(session.PDF) > 0 {
		pdfPath := filepath.Join(outputDir, session.PDFFileName)
		if err := os.WriteFile(pdfPath, session.PDF, 0644); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Printf("PDF written to %s (%d pages, %d KB)\n", pdfPath, session.PDFPages, len(session.PDF)/1024)
	} else if session.PDFError != "" {
		fmt.Fprintf(os.Stderr, "PDF not generated: %s\n", session.PDFError)
	}

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
