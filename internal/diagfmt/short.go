package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"nuir/internal/diag"
	"nuir/internal/source"
)

// Short writes one line per diagnostic:
//
//	path:line:col: ERROR IRG4001: message
//
// Used for golden files and quiet runs.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, mode PathMode) error {
	for _, d := range bag.Items() {
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			formatLocation(d.Primary, fs, mode),
			strings.ToUpper(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
