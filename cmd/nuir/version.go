package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"nuir/internal/version"
)

type versionPayload struct {
	Tool string `json:"tool"`
	version.Info
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show nuir build fingerprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			colorMode, err := cmd.Root().PersistentFlags().GetString("color")
			if err != nil {
				return fmt.Errorf("failed to get color flag: %w", err)
			}
			colored := colorMode == "on" || (colorMode == "auto" && writesToTerminal(cmd.OutOrStdout()))
			return writeVersion(cmd.OutOrStdout(), strings.ToLower(format), colored)
		},
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func writeVersion(w io.Writer, format string, colored bool) error {
	switch format {
	case "pretty":
		_, err := fmt.Fprintln(w, version.Fingerprint(colored))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(versionPayload{Tool: "nuir", Info: version.Current()})
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
