package parser

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var nuLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`},
	{Name: "Variable", Pattern: `\$[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Operator", Pattern: `[-+*/]`},
	{Name: "Punct", Pattern: `[(){};]`},
	{Name: "Newline", Pattern: `\n`},
	{Name: "Whitespace", Pattern: `[ \t\r]+`},
})

var nuParser = participle.MustBuild[program](
	participle.Lexer(nuLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// program и block: последовательность выражений и разделителей.
// Separators between expressions are checked when flattening.
type program struct {
	Items []*item `@@*`
}

type item struct {
	Pos  lexer.Position
	Sep  bool  `  @(";" | Newline)`
	Expr *expr `| @@`
}

type expr struct {
	Pos  lexer.Position
	Head *term    `@@`
	Tail []*addOp `@@*`
}

type addOp struct {
	Pos lexer.Position
	Op  string `@("+" | "-")`
	RHS *term  `@@`
}

type term struct {
	Pos  lexer.Position
	Head *primary `@@`
	Tail []*mulOp `@@*`
}

type mulOp struct {
	Pos lexer.Position
	Op  string   `@("*" | "/")`
	RHS *primary `@@`
}

type primary struct {
	Pos      lexer.Position
	Int      *string    `  @Int`
	String   *string    `| @String`
	Variable *string    `| @Variable`
	Name     *string    `| @Ident`
	Paren    *expr      `| "(" @@ ")"`
	Block    *blockExpr `| @@`
}

type blockExpr struct {
	Pos   lexer.Position
	Items []*item     `"{" @@*`
	Close *closeBrace `@@`
}

type closeBrace struct {
	Pos   lexer.Position
	Brace string `@"}"`
}
