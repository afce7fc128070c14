package ast

type (
	// NodeID addresses a node in the node arena.
	NodeID uint32
	// BlockID addresses an ordered node sequence in the block arena.
	BlockID uint32
)

const (
	NoNodeID  NodeID  = 0
	NoBlockID BlockID = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id BlockID) IsValid() bool { return id != NoBlockID }
