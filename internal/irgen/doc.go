// Package irgen lowers a parsed AST into a linear register IR block.
//
// A Generator is bound to one immutable parse result. Generate walks the tree
// depth-first starting from the node with the highest id (the top-level
// program block), allocates a fresh virtual register for every literal,
// appends instructions in evaluation order and finishes with a return of the
// program's value. Problems in the input never abort the pass: they are
// collected as diagnostics, and the branch that produced them yields no
// register. Callers must check Diagnostics before trusting Block.
//
// Supported node kinds are integer literals, blocks and binary operations with
// Plus or Multiply. Every other kind is reported as not supported yet; new
// kinds are added in visit and, for operators, in resolveOperator.
package irgen
