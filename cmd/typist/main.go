// Package main provides the CLI entrypoint for typist.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/typist/internal/config"
	"github.com/verte-zerg/typist/internal/engine"
	"github.com/verte-zerg/typist/internal/model"
	"github.com/verte-zerg/typist/internal/report"
	"github.com/verte-zerg/typist/internal/stats"
	"github.com/verte-zerg/typist/internal/store"
	"github.com/verte-zerg/typist/internal/text"
	"github.com/verte-zerg/typist/internal/tui"
)

//go:embed main.go
var inceptionSource string

const (
	defaultSize        = "medium"
	defaultCurveWindow = 10
)

var (
	practiceFile      string
	practiceInception bool
	practiceSize      string
	practiceFreeze    int

	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typist",
		Short:         "TUI typing trainer with error analytics",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceFile, "file", "", "practice with a snippet from this file")
	rootCmd.Flags().BoolVar(&practiceInception, "inception", false, "practice with the program's own source")
	rootCmd.Flags().StringVar(&practiceSize, "size", defaultSize, "snippet size: small, medium, or large")
	rootCmd.Flags().IntVar(&practiceFreeze, "freeze-threshold", 0, "keystrokes past an error before input freezes (0 = default)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "size", &practiceSize, fileCfg.Practice.Size)
	applyIntConfig(cmd, "freeze-threshold", &practiceFreeze, fileCfg.Practice.FreezeThreshold)

	cfg := model.Config{
		File:            practiceFile,
		Inception:       practiceInception,
		Size:            practiceSize,
		FreezeThreshold: practiceFreeze,
	}
	applyReportConfig(&cfg, fileCfg.Report)

	if err := validateConfig(cfg); err != nil {
		return err
	}
	size, err := text.ParseChunkSize(cfg.Size)
	if err != nil {
		return err
	}

	src, err := loadSource(cfg, size)
	if err != nil {
		return err
	}
	src.Content = text.Normalize(src.Content)

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	opts := report.Options{
		HesitationMs:  cfg.HesitationMs,
		LongPauseMs:   cfg.LongPauseMs,
		TrendBucketMs: cfg.TrendBucketMs,
	}
	m, err := tui.NewModel(cfg, st, src, opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func loadSource(cfg model.Config, size text.ChunkSize) (text.Source, error) {
	sel := text.NewSelector()
	if cfg.Inception {
		return sel.FromString("main.go (inception)", inceptionSource, size)
	}
	return sel.LoadFile(cfg.File, size)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show cross-session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	storePath := config.DefaultDBPath()
	st, err := store.Open(storePath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessions, err := st.ListSessions(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to load sessions: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, sessions); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if err := stats.RenderErrorTable(out, sessions); err != nil {
		return fmt.Errorf("failed to render error table: %w", err)
	}
	if err := stats.RenderCurves(out, sessions, cfg.CurveWindow); err != nil {
		return fmt.Errorf("failed to render curves: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyReportConfig(cfg *model.Config, rc config.ReportConfig) {
	if rc.HesitationMs != nil {
		cfg.HesitationMs = *rc.HesitationMs
	}
	if rc.LongPauseMs != nil {
		cfg.LongPauseMs = *rc.LongPauseMs
	}
	if rc.TrendBucketMs != nil {
		cfg.TrendBucketMs = *rc.TrendBucketMs
	}
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typist configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# size = %q              # Snippet size: small, medium, or large
# freeze-threshold = %d  # Keystrokes past an error before input freezes

[report]
# hesitation-ms = 500    # Pause length counted as a hesitation
# long-pause-ms = 1000   # Pause length counted as a long pause
# trend-bucket-ms = 5000 # WPM trend bucket width
`,
		defaultSize,
		engine.DefaultFreezeThreshold,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.File == "" && !cfg.Inception {
		return fmt.Errorf("either --file or --inception is required")
	}
	if cfg.File != "" && cfg.Inception {
		return fmt.Errorf("--file and --inception are mutually exclusive")
	}
	if cfg.FreezeThreshold < 0 {
		return fmt.Errorf("--freeze-threshold must be >= 0")
	}
	if cfg.HesitationMs < 0 || cfg.LongPauseMs < 0 || cfg.TrendBucketMs < 0 {
		return fmt.Errorf("report thresholds must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
