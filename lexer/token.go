// Lexer tokens

package lexer

// Token is the kind of a lexical token.
type Token int

const (
	ILLEGAL Token = iota
	EOF

	// Symbols
	ADD
	ADD_ASSIGN
	AND
	ASSIGN
	DIV
	DIV_ASSIGN
	DOLLAR
	EQUALS
	GTE
	GREATER
	LBRACE
	LESS
	LPAREN
	LTE
	MOD
	MOD_ASSIGN
	MUL
	MUL_ASSIGN
	NOT_EQUALS
	OR
	POW
	POW_ASSIGN
	RBRACE
	RPAREN
	SEMICOLON
	SUB
	SUB_ASSIGN

	// Keywords
	BEGIN
	ELSE
	END
	FOR
	IF
	PRINT
	WHILE

	// Literals and names (variables)
	NAME
	NUMBER
	STRING

	LAST = STRING
)

var keywordTokens = map[string]Token{
	"else":  ELSE,
	"for":   FOR,
	"if":    IF,
	"print": PRINT,
	"while": WHILE,
}

var tokenNames = map[Token]string{
	ILLEGAL: "<illegal>",
	EOF:     "EOF",

	ADD:        "+",
	ADD_ASSIGN: "+=",
	AND:        "&&",
	ASSIGN:     "=",
	DIV:        "/",
	DIV_ASSIGN: "/=",
	DOLLAR:     "$",
	EQUALS:     "==",
	GTE:        ">=",
	GREATER:    ">",
	LBRACE:     "{",
	LESS:       "<",
	LPAREN:     "(",
	LTE:        "<=",
	MOD:        "%",
	MOD_ASSIGN: "%=",
	MUL:        "*",
	MUL_ASSIGN: "*=",
	NOT_EQUALS: "!=",
	OR:         "||",
	POW:        "^",
	POW_ASSIGN: "^=",
	RBRACE:     "}",
	RPAREN:     ")",
	SEMICOLON:  ";",
	SUB:        "-",
	SUB_ASSIGN: "-=",

	BEGIN: "BEGIN",
	ELSE:  "else",
	END:   "END",
	FOR:   "for",
	IF:    "if",
	PRINT: "print",
	WHILE: "while",

	NAME:   "name",
	NUMBER: "number",
	STRING: "string",
}

func (t Token) String() string {
	return tokenNames[t]
}

// augAssignOps maps each compound assignment token to the arithmetic
// operator bundled with it.
var augAssignOps = map[Token]Token{
	ADD_ASSIGN: ADD,
	SUB_ASSIGN: SUB,
	MUL_ASSIGN: MUL,
	DIV_ASSIGN: DIV,
	MOD_ASSIGN: MOD,
	POW_ASSIGN: POW,
}

// AugAssignTokens lists the compound assignment tokens (+= and friends).
var AugAssignTokens = []Token{ADD_ASSIGN, SUB_ASSIGN, MUL_ASSIGN, DIV_ASSIGN, MOD_ASSIGN, POW_ASSIGN}

// IsAugAssign reports whether tok is a compound assignment like +=.
func IsAugAssign(tok Token) bool {
	_, ok := augAssignOps[tok]
	return ok
}

// AugAssignOp returns the operator bundled in a compound assignment
// token, for example ADD for ADD_ASSIGN. It returns ILLEGAL for any
// other token.
func AugAssignOp(tok Token) Token {
	op, ok := augAssignOps[tok]
	if !ok {
		return ILLEGAL
	}
	return op
}
