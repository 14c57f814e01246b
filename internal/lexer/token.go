package lexer

import "fmt"

// TokenType enumerates the lexical categories of MGen's SOURCE subset: an
// annotated, indentation-structured grammar in the style of the accepted
// high-level scripting language (§1).
type TokenType int

const (
	ILLEGAL TokenType = iota
	EOF
	NEWLINE
	INDENT
	DEDENT

	// Literals
	IDENT
	INT
	FLOAT
	STRING

	// Keywords
	DEF
	CLASS
	IF
	ELIF
	ELSE
	WHILE
	FOR
	IN
	RETURN
	PASS
	BREAK
	CONTINUE
	IMPORT
	TRUE
	FALSE
	NONE
	AND
	OR
	NOT

	// Rejected-but-recognized keywords (§4.1): lexed so the parser can
	// produce a precise UnsupportedFeature diagnostic instead of a generic
	// syntax error.
	ASYNC
	AWAIT
	YIELD
	LAMBDA
	WITH
	TRY
	EXCEPT
	FINALLY
	RAISE
	GLOBAL
	NONLOCAL

	// Operators & delimiters
	PLUS
	MINUS
	STAR
	DSTAR // **
	SLASH
	DSLASH // //
	PERCENT
	AMP
	PIPE
	CARET
	LSHIFT
	RSHIFT
	ASSIGN
	PLUSEQ
	MINUSEQ
	STAREQ
	SLASHEQ
	PERCENTEQ
	EQ
	NEQ
	LT
	GT
	LTE
	GTE
	COLON
	COMMA
	DOT
	ARROW
	AT // decorator marker, rejected

	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

var keywords = map[string]TokenType{
	"def": DEF, "class": CLASS, "if": IF, "elif": ELIF, "else": ELSE,
	"while": WHILE, "for": FOR, "in": IN, "return": RETURN, "pass": PASS,
	"break": BREAK, "continue": CONTINUE, "import": IMPORT,
	"True": TRUE, "False": FALSE, "None": NONE,
	"and": AND, "or": OR, "not": NOT,
	"async": ASYNC, "await": AWAIT, "yield": YIELD, "lambda": LAMBDA,
	"with": WITH, "try": TRY, "except": EXCEPT, "finally": FINALLY,
	"raise": RAISE, "global": GLOBAL, "nonlocal": NONLOCAL,
}

// LookupIdent classifies ident as a keyword token or a plain IDENT.
func LookupIdent(ident string) TokenType {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// Token is one lexical unit with its source position.
type Token struct {
	Type    TokenType
	Literal string
	Line    int
	Column  int
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %v %q", t.Line, t.Column, t.Type, t.Literal)
}
