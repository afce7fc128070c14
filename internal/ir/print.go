package ir

import (
	"fmt"
	"io"
)

// Dump writes a human-readable listing of the block.
//
//	registers=2 files=0
//	  0: load-literal %0, int(1)
//	  1: load-literal %1, int(2)
//	  2: binary-op %0, plus, %1
//	  3: return %0
func Dump(w io.Writer, b *Block) error {
	if w == nil || b == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "registers=%d files=%d\n", b.RegisterCount, b.FileCount); err != nil {
		return err
	}
	for i := range b.Instrs {
		if _, err := fmt.Fprintf(w, "  %d: %s\n", i, b.Instrs[i]); err != nil {
			return err
		}
	}
	return nil
}
