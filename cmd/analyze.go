package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/gontzalm/ghostsync"
	"github.com/gontzalm/ghostsync/analyze"
	"github.com/gontzalm/ghostsync/ghostfolio"
	"github.com/gontzalm/ghostsync/ntfy"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// analyzeCmd requests an LLM narrative analysis of the portfolio.
type analyzeCmd struct {
	model   string
	profile string
}

func (*analyzeCmd) Name() string { return "analyze" }

func (*analyzeCmd) Synopsis() string {
	return "Request an LLM-generated narrative analysis of the portfolio."
}

func (*analyzeCmd) Usage() string {
	return `analyze [-model <name>] [-profile <file>] <user>:
  Build a privacy-safe snapshot of <user>'s portfolio (allocations and
  relative performance only), ask the model for a narrative analysis, render
  it to the terminal and publish it to the configured ntfy topic.
`
}

func (c *analyzeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.model, "model", defaultModel, "Gemini model to use")
	f.StringVar(&c.profile, "profile", "profile.toml", "Path to the TOML user profile")
}

func (c *analyzeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return fail(ghostsync.Configf("analyze expects exactly one user argument"))
	}
	user := f.Arg(0)

	v, err := loadConfig()
	if err != nil {
		return fail(err)
	}
	host := v.GetString("ghostfolio.host")
	if host == "" {
		return fail(ghostsync.Configf("ghostfolio.host is not configured"))
	}
	token, err := userSecret(user, "GHOSTFOLIO_TOKEN")
	if err != nil {
		return fail(err)
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("cannot initialize Gemini client: %w", err))
	}

	analyzer := &analyze.Analyzer{
		GF:          ghostfolio.NewClient(host, token),
		Model:       c.model,
		ProfilePath: c.profile,
	}
	markdown, err := analyzer.Run(ctx, client)
	if err != nil {
		return fail(err)
	}

	rendered, err := glamour.Render(markdown, "auto")
	if err != nil {
		// Rendering is cosmetic; fall back to the raw markdown.
		rendered = markdown
	}
	fmt.Fprintln(os.Stdout, rendered)

	if topic := v.GetString("ghostfolio.ntfy_topic"); topic != "" {
		if err := ntfy.NewClient(topic).PublishAnalysis("Ghostfolio Portfolio Analysis", []byte(markdown)); err != nil {
			return fail(err)
		}
	}
	return subcommands.ExitSuccess
}
