package main

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createFetchRepositoryDocsTool returns the fetch_repository_docs tool definition
func createFetchRepositoryDocsTool() mcp.Tool {
	return mcp.NewTool("fetch_repository_docs",
		mcp.WithDescription("List the markdown documentation and images of a GitHub repository"),
		mcp.WithString("repo_url",
			mcp.Required(),
			mcp.Description("Repository URL (https://github.com/owner/repo)"),
		),
		mcp.WithBoolean("include_content",
			mcp.Description("Include a preview of each markdown file (default: false)"),
		),
	)
}

// createGenerateOnboardingPackTool returns the generate_onboarding_pack tool definition
func createGenerateOnboardingPackTool() mcp.Tool {
	return mcp.NewTool("generate_onboarding_pack",
		mcp.WithDescription("Fetch, summarize and render an onboarding pack for a GitHub repository, writing HTML (and PDF) files"),
		mcp.WithString("repo_url",
			mcp.Required(),
			mcp.Description("Repository URL (https://github.com/owner/repo)"),
		),
		mcp.WithString("author",
			mcp.Description("Author printed on the cover"),
		),
		mcp.WithString("company",
			mcp.Description("Company printed on the cover"),
		),
		mcp.WithString("output_dir",
			mcp.Description("Directory for the generated files (default from config)"),
		),
		mcp.WithBoolean("pdf",
			mcp.Description("Also render a PDF when a PDF backend is configured (default: true)"),
		),
	)
}
