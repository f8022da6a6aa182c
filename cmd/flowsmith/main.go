// cmd/flowsmith/main.go
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/julianshen/flowsmith/internal/config"
	"github.com/julianshen/flowsmith/internal/integrations"
	"github.com/julianshen/flowsmith/internal/output"
	"github.com/julianshen/flowsmith/internal/pipeline"
	"github.com/julianshen/flowsmith/internal/prompt"
	"github.com/julianshen/flowsmith/internal/provider"
	"github.com/julianshen/flowsmith/internal/state"

	// Register providers via init() side effects.
	_ "github.com/julianshen/flowsmith/internal/provider/anthropic"
	_ "github.com/julianshen/flowsmith/internal/provider/ollama"
	_ "github.com/julianshen/flowsmith/internal/provider/openai"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"

	configPath   string
	modelFlag    string
	providerFlag string
	outputFlag   string
	noStateFlag  bool
	debugFlag    bool

	pipelineName    string
	pipelinePurpose string
	pipelineOwner   string
)

func versionString() string {
	return fmt.Sprintf("flowsmith %s (commit: %s, built: %s)", version, commit, date)
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "flowsmith",
		Short: "Keep architecture diagrams in sync with pipeline code",
		Long:  "flowsmith — generates and incrementally updates Mermaid architecture diagrams for data-pipeline codebases.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			// Diagnostic logging stays off unless asked for; the report
			// is the only normal output.
			if !debugFlag {
				log.SetOutput(io.Discard)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "override model name")
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "override provider name")
	rootCmd.PersistentFlags().StringVar(&outputFlag, "output", "markdown", "output format: json, markdown")
	rootCmd.PersistentFlags().BoolVar(&noStateFlag, "no-state", false, "do not record this run in the state database")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print diagnostic logging to stderr")
	rootCmd.PersistentFlags().StringVar(&pipelineName, "name", "", "override pipeline name from .flowsmith.yaml")
	rootCmd.PersistentFlags().StringVar(&pipelinePurpose, "purpose", "", "override pipeline purpose from .flowsmith.yaml")
	rootCmd.PersistentFlags().StringVar(&pipelineOwner, "owner", "", "override pipeline owner from .flowsmith.yaml")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versionString())
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(updateCmd())
	rootCmd.AddCommand(historyCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if providerFlag != "" {
		cfg.Provider.Default = providerFlag
	}
	if modelFlag != "" {
		cfg.Provider.Model = modelFlag
	}
	return cfg, nil
}

// repoDirArg resolves the optional positional repository path, defaulting to
// the working directory.
func repoDirArg(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("repository path: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}
	return abs, nil
}

// openState opens the run-history database under the user config directory.
// Returns nil when --no-state is set or the directory cannot be created;
// runs still work, they just are not recorded.
func openState() *state.Store {
	if noStateFlag {
		return nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	dir := filepath.Join(home, ".config", "flowsmith")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil
	}
	st, err := state.NewStore(filepath.Join(dir, "state.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: run history unavailable: %v\n", err)
		return nil
	}
	return st
}

// newPipeline wires config, provider, and state into a pipeline for repoDir.
// The returned cleanup closes the state store.
func newPipeline(repoDir string) (*pipeline.Pipeline, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	prov, err := provider.NewProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	llm := integrations.NewLLMCompleter(prov, cfg.Provider.Model).WithSystem(prompt.System)

	st := openState()
	cleanup := func() {
		if st != nil {
			st.Close()
		}
	}

	p := pipeline.New(repoDir, cfg, llm, st).WithMetadata(config.Metadata{
		Name:    pipelineName,
		Purpose: pipelinePurpose,
		Owner:   pipelineOwner,
	})
	return p, cleanup, nil
}

// printReport renders the report in the selected output format.
func printReport(report *output.Report) error {
	data, err := output.NewFormatter(outputFlag).Format(report)
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
