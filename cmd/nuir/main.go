package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nuir/internal/version"
)

// errDiagnostics signals that diagnostics were already rendered and the
// process should exit with status 1.
var errDiagnostics = errors.New("errors reported")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "nuir",
		Short:         "nuir IR generator toolchain",
		Long:          `nuir parses arithmetic programs, lowers them into a linear register IR and runs the result`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cleanup, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			stopProfiling, err := setupProfiling(cmd)
			if err != nil {
				cleanup()
				return err
			}
			commandCleanup = func() {
				stopProfiling()
				cleanup()
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			runCommandCleanup()
		},
	}

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	rootCmd.PersistentFlags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	rootCmd.PersistentFlags().String("path-mode", "auto", "how diagnostic paths are printed (auto|absolute|relative|basename)")
	rootCmd.PersistentFlags().String("config", "", "path to nuir.toml (default: search upwards from the input)")
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)

	return rootCmd
}

// main builds the command tree and executes it. Rendered diagnostics exit
// with status 1 silently; other errors are printed first.
func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	// PostRun не вызывается, если команда вернула ошибку
	runCommandCleanup()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "nuir: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func writesToTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
