package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/user/taillight/internal/config"
	"github.com/user/taillight/internal/ingest"
	"github.com/user/taillight/internal/pattern"
	"github.com/user/taillight/internal/store"
	"github.com/user/taillight/internal/ui"
)

const version = "0.1.0"

var (
	patternsFlag string
	ignoreCase   bool
	maxLines     int
	configPath   string
	showVersion  bool
)

var rootCmd = &cobra.Command{
	Use:   "taillight [file]",
	Short: "A streaming log viewer with live regex highlighting",
	Long: `Taillight pages a log stream in the terminal, highlighting regex
patterns in distinct colors as lines arrive.

Usage:
  journalctl -f | taillight          # Read from stdin
  taillight /var/log/syslog          # Follow a file, surviving rotation
  taillight -p error,warn app.log    # Highlight patterns from the start`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Println("taillight " + version)
			return nil
		}
		return run(args)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&patternsFlag, "patterns", "p", "", "Initial highlight patterns (comma-separated regexes)")
	rootCmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Match patterns case-insensitively")
	rootCmd.Flags().IntVarP(&maxLines, "max-lines", "n", 0, "Maximum lines to keep in memory (overrides config)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: "+config.GetConfigPath()+")")
	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Print version and exit")
	rootCmd.SilenceUsage = true
}

func run(args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if maxLines > 0 {
		cfg.Buffer.MaxLines = maxLines
	}

	registry := pattern.NewRegistry(cfg.Theme.Palette)
	if err := seedPatterns(registry, patternsFlag, ignoreCase); err != nil {
		return err
	}

	s := store.New(cfg.Buffer.MaxLines)
	pump := ingest.NewPump(s)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sourceName := "stdin"
	if len(args) == 1 {
		sourceName = args[0]
		go pump.RunTail(ctx, args[0])
	} else {
		go pump.RunReader(ctx, os.Stdin)
	}

	model := ui.NewModel(cfg, s, registry, pump, sourceName, ignoreCase)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if len(args) == 0 {
		// Stdin carries the log stream, so keys must come from the tty.
		tty, err := os.Open("/dev/tty")
		if err != nil {
			return fmt.Errorf("open terminal for input: %w", err)
		}
		defer tty.Close()
		opts = append(opts, tea.WithInput(tty))
	}

	p := tea.NewProgram(model, opts...)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// seedPatterns registers the -p patterns. Any invalid regex aborts
// startup, naming the offending pattern.
func seedPatterns(registry *pattern.Registry, flag string, ignoreCase bool) error {
	if flag == "" {
		return nil
	}
	for _, src := range strings.Split(flag, ",") {
		src = strings.TrimSpace(src)
		if src == "" {
			continue
		}
		if _, err := registry.Add(src, !ignoreCase); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
