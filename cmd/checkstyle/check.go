package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/checks"
	"checkstyle/internal/config"
	"checkstyle/internal/engine"
	"checkstyle/internal/goparse"
	"checkstyle/internal/report"
)

var checkCmd = &cobra.Command{
	Use:   "check -c <config.toml> [flags] <file.go|directory>...",
	Short: "Run the configured checks over Go sources",
	Long:  `Run the checks listed in a TOML configuration over the given files or all *.go files within the given directories`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringP("config", "c", "", "path to the TOML configuration (required)")
	checkCmd.Flags().String("stats", "", "write per-file timing statistics to a CSV file")
	if err := checkCmd.MarkFlagRequired("config"); err != nil {
		panic(err)
	}
}

// fileProcessor is the part of the checker surface the CLI drives. Both
// the single-threaded and the multi-threaded checker satisfy it.
type fileProcessor interface {
	Configure(cfg *config.Config) error
	Process(ctx context.Context, files []string) (int, error)
	AddListener(l api.AuditListener)
}

// runCheck executes the "check" command: it loads the configuration,
// instantiates the root checker module for the configured thread mode,
// processes the collected files and exits with status 1 when any
// error-severity violations were reported.
func runCheck(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	statsPath, err := cmd.Flags().GetString("stats")
	if err != nil {
		return fmt.Errorf("failed to get stats flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	debug, err := cmd.Root().PersistentFlags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("failed to get debug flag: %w", err)
	}
	colorMode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	if err := applyColorMode(colorMode); err != nil {
		return err
	}

	log := zap.NewNop()
	if debug {
		log = zap.Must(zap.NewDevelopment())
		defer func() { _ = log.Sync() }()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no Go source files found in %s", strings.Join(args, ", "))
	}

	reg := config.NewRegistry()
	engine.RegisterModules(reg, goparse.New(), log)
	checks.Register(reg)

	rootName, err := cfg.ThreadMode().ResolveName(cfg.Name())
	if err != nil {
		return err
	}
	module, err := reg.CreateModule(rootName)
	if err != nil {
		return err
	}
	checker, ok := module.(fileProcessor)
	if !ok {
		return fmt.Errorf("%s cannot be used as a root module", rootName)
	}

	counter := report.NewSeverityCounter()
	checker.AddListener(report.NewConsoleListener(cmd.OutOrStdout(), quiet))
	checker.AddListener(counter)

	if err := checker.Configure(cfg); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errorCount, err := checker.Process(ctx, files)
	if err != nil {
		return err
	}

	if statsPath != "" {
		if err := writeStats(checker, statsPath); err != nil {
			return err
		}
	}

	if errorCount > 0 {
		os.Exit(1)
	}
	return nil
}

// applyColorMode translates the --color flag into the global color state.
func applyColorMode(mode string) error {
	switch strings.TrimSpace(strings.ToLower(mode)) {
	case "", "auto":
		color.NoColor = !isTerminal(os.Stdout)
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		return fmt.Errorf("invalid --color value %q (expected auto|on|off)", mode)
	}
	return nil
}

// collectFiles expands the command arguments into a sorted list of Go
// source files. Directories are walked recursively; hidden directories
// and testdata are skipped.
func collectFiles(args []string) ([]string, error) {
	var files []string
	seen := make(map[string]struct{})
	add := func(path string) {
		path = filepath.ToSlash(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			name := d.Name()
			if d.IsDir() {
				if path != arg && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(name, ".go") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// writeStats dumps the timing statistics gathered by the fileset checks
// that collect them.
func writeStats(checker fileProcessor, path string) error {
	owner, ok := checker.(interface{ FileSetChecks() []api.FileSetCheck })
	if !ok {
		return nil
	}
	var merged api.Stats
	for _, check := range owner.FileSetChecks() {
		collector, ok := check.(interface{ Stats() *api.Stats })
		if !ok {
			continue
		}
		for _, record := range collector.Stats().Files() {
			merged.Add(record)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return merged.WriteCSV(f)
}
