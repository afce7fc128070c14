package ir

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Marshal encodes the block with msgpack.
func Marshal(b *Block) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(b); err != nil {
		return nil, fmt.Errorf("ir: encode block: %w", err)
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a block produced by Marshal.
func Unmarshal(data []byte) (*Block, error) {
	var b Block
	if err := msgpack.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("ir: decode block: %w", err)
	}
	return &b, nil
}
