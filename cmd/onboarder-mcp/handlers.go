package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/onboarder/internal/app"
	"github.com/ternarybob/onboarder/internal/common"
	"github.com/ternarybob/onboarder/internal/interfaces"
	"github.com/ternarybob/onboarder/internal/models"
)

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

// handleFetchRepositoryDocs implements the fetch_repository_docs tool
func handleFetchRepositoryDocs(fetcher interfaces.RepositoryFetcher, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repoURL, err := request.RequireString("repo_url")
		if err != nil || repoURL == "" {
			return textResult("Error: repo_url parameter is required"), nil
		}
		includeContent := request.GetBool("include_content", false)

		result, err := fetcher.Fetch(ctx, repoURL)
		if err != nil {
			logger.Error().Err(err).Str("repo_url", repoURL).Msg("Fetch failed")
			return textResult(fmt.Sprintf("Fetch error: %v", err)), nil
		}

		return textResult(formatFetchResult(result, includeContent)), nil
	}
}

// handleGenerateOnboardingPack implements the generate_onboarding_pack tool
func handleGenerateOnboardingPack(pipeline *app.Pipeline, defaults common.DocumentConfig, logger arbor.ILogger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		repoURL, err := request.RequireString("repo_url")
		if err != nil || repoURL == "" {
			return textResult("Error: repo_url parameter is required"), nil
		}

		session := &models.Session{
			ID:      common.NewSessionID(),
			RepoURL: repoURL,
			Author:  request.GetString("author", defaults.DefaultAuthor),
			Company: request.GetString("company", defaults.DefaultCompany),
		}
		outputDir := request.GetString("output_dir", defaults.OutputDir)

		runErr := pipeline.Run(ctx, session, request.GetBool("pdf", true))
		var renderErr *models.RenderError
		if runErr != nil && !errors.As(runErr, &renderErr) {
			logger.Error().Err(runErr).Str("repo_url", repoURL).Msg("Onboarding pack generation failed")
			return textResult(fmt.Sprintf("Generation error: %v", runErr)), nil
		}

		written, err := writeOutputs(session, outputDir)
		if err != nil {
			return textResult(fmt.Sprintf("Write error: %v", err)), nil
		}

		return textResult(formatGenerateResult(session, written)), nil
	}
}

// writeOutputs saves the session's HTML and PDF into dir and returns the paths
func writeOutputs(session *models.Session, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	htmlPath := filepath.Join(dir, session.HTMLFileName)
	if err := os.WriteFile(htmlPath, []byte(session.HTML), 0644); err != nil {
		return nil, fmt.Errorf("failed to write HTML: %w", err)
	}
	written = append(written, htmlPath)

	if len(session.PDF) > 0 {
		pdfPath := filepath.Join(dir, session.PDFFileName)
		if err := os.WriteFile(pdfPath, session.PDF, 0644); err != nil {
			return nil, fmt.Errorf("failed to write PDF: %w", err)
		}
		written = append(written, pdfPath)
	}
	return written, nil
}
