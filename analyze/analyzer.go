// Package analyze requests an LLM-generated narrative analysis of the
// current portfolio. Only privacy-safe data leaves the machine: allocations,
// classifications and relative performance, never absolute amounts.
package analyze

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"text/template"

	"github.com/gontzalm/ghostsync/ghostfolio"
	"github.com/spf13/viper"
	"google.golang.org/genai"
)

//go:embed prompts/*.md
var prompts embed.FS

// accountSummary is the privacy-safe account subset shared with the LLM.
type accountSummary struct {
	Name                   string              `json:"name"`
	Currency               string              `json:"currency"`
	IsExcluded             bool                `json:"isExcluded"`
	AllocationInPercentage float64             `json:"allocationInPercentage"`
	TransactionCount       int                 `json:"transactionCount"`
	UpdatedAt              string              `json:"updatedAt"`
	Platform               ghostfolio.Platform `json:"platform"`
}

// Analyzer builds the analysis prompt from the portfolio snapshot and a user
// profile, and asks the model for a narrative.
type Analyzer struct {
	GF          *ghostfolio.Client
	Model       string
	ProfilePath string
}

// Run produces the analysis as markdown.
func (a *Analyzer) Run(ctx context.Context, client *genai.Client) (string, error) {
	log.Printf("starting portfolio analysis")

	holdings, err := a.GF.Holdings()
	if err != nil {
		return "", err
	}
	accounts, err := a.GF.Accounts()
	if err != nil {
		return "", err
	}
	summaries := make([]accountSummary, 0, len(accounts))
	for _, acc := range accounts {
		summaries = append(summaries, accountSummary{
			Name:                   acc.Name,
			Currency:               acc.Currency,
			IsExcluded:             acc.IsExcluded,
			AllocationInPercentage: acc.AllocationInPercentage,
			TransactionCount:       acc.TransactionCount,
			UpdatedAt:              acc.UpdatedAt,
			Platform:               acc.Platform,
		})
	}

	profile := viper.New()
	profile.SetConfigFile(a.ProfilePath)
	if err := profile.ReadInConfig(); err != nil {
		return "", fmt.Errorf("cannot read user profile %q: %w", a.ProfilePath, err)
	}

	prompt, err := buildPrompt(profile.AllSettings(), summaries, holdings)
	if err != nil {
		return "", err
	}

	log.Printf("requesting analysis from %q", a.Model)
	resp, err := client.Models.GenerateContent(ctx, a.Model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("model %q returned no analysis", a.Model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func buildPrompt(profile map[string]any, accounts []accountSummary, holdings []ghostfolio.Holding) (string, error) {
	instructions, err := prompts.ReadFile("prompts/instructions.md")
	if err != nil {
		return "", err
	}
	output, err := prompts.ReadFile("prompts/output.md")
	if err != nil {
		return "", err
	}
	tmpl, err := template.New("instructions").Parse(string(instructions))
	if err != nil {
		return "", err
	}

	profileJSON, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return "", err
	}
	accountsJSON, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return "", err
	}
	holdingsJSON, err := json.MarshalIndent(holdings, "", "  ")
	if err != nil {
		return "", err
	}

	var prompt bytes.Buffer
	err = tmpl.Execute(&prompt, map[string]string{
		"UserProfile":    string(profileJSON),
		"Accounts":       string(accountsJSON),
		"Holdings":       string(holdingsJSON),
		"OutputTemplate": string(output),
	})
	if err != nil {
		return "", err
	}
	return prompt.String(), nil
}
