package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nuir/internal/ast"
	"nuir/internal/parser"
	"nuir/internal/source"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a source file and print its node table",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd, args[0])
	if err != nil {
		return err
	}
	fs := source.NewFileSet()
	id, err := fs.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", args[0], err)
	}
	res := parser.ParseFile(fs.Get(id), parser.Options{})
	if res.Tree == nil {
		if err := renderDiagnostics(cmd.ErrOrStderr(), res.Bag, fs, s); err != nil {
			return err
		}
		return errDiagnostics
	}
	return ast.Dump(cmd.OutOrStdout(), res.Tree)
}
