package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"checkstyle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "checkstyle",
	Short: "Rule-based static analysis for Go sources",
	Long:  `Checkstyle runs configurable checks over Go source files and reports style violations`,
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status
// code 2 (usage or runtime failure); violations found exit with 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
