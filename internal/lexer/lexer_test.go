package lexer

import (
	"testing"

	"dragonc/internal/diag"
	"dragonc/internal/token"
)

func TestNext(t *testing.T) {
	input := `func main() {
		int x = 5;
		x = x + 10;
	}`

	tests := []struct {
		expectedLiteral string
		expectedType    token.Type
	}{
		{"func", token.FUNC},
		{"main", token.IDENT},
		{"(", token.LPAREN},
		{")", token.RPAREN},
		{"{", token.LBRACE},
		{"int", token.INT_T},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"5", token.INT},
		{";", token.SEMICOLON},
		{"x", token.IDENT},
		{"=", token.ASSIGN},
		{"x", token.IDENT},
		{"+", token.PLUS},
		{"10", token.INT},
		{";", token.SEMICOLON},
		{"}", token.RBRACE},
		{"EOF", token.EOF},
	}

	l := New(input)
	for i, tt := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - type wrong. expected=%s, got=%s (literal=%q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestKeywords(t *testing.T) {
	input := "func int float bool string if else while do for return print read true false"
	tests := []token.Type{
		token.FUNC, token.INT_T, token.FLOAT_T, token.BOOL_T, token.STRING_T,
		token.IF, token.ELSE, token.WHILE, token.DO, token.FOR, token.RETURN,
		token.PRINT, token.READ, token.TRUE, token.FALSE,
	}

	l := New(input)
	for i, want := range tests {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("tests[%d]: unexpected error: %v", i, err)
		}
		if tok.Type != want {
			t.Fatalf("tests[%d] - expected=%s, got=%s", i, want, tok.Type)
		}
	}
}

func TestStringLiteralsKeepQuotes(t *testing.T) {
	l := New(`"hello, world" "with \"escape\""`)

	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != `"hello, world"` {
		t.Fatalf("expected quoted literal, got %q", tok.Literal)
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != `"with \"escape\""` {
		t.Fatalf("expected escaped quoted literal, got %q", tok.Literal)
	}
}

func TestUnterminatedStringIsLexicalError(t *testing.T) {
	l := New(`"unterminated`)
	_, err := l.Next()
	de, ok := err.(*diag.Error)
	if !ok {
		t.Fatalf("expected *diag.Error, got %T (%v)", err, err)
	}
	if de.Kind != diag.Lexical {
		t.Fatalf("expected lexical-error kind, got %s", de.Kind)
	}
}

func TestNumberClassification(t *testing.T) {
	tests := []struct {
		input string
		typ   token.Type
	}{
		{"42", token.INT},
		{"3.14", token.FLOAT},
		{"1e10", token.FLOAT},
		{"2.5e-3", token.FLOAT},
	}

	for _, tt := range tests {
		l := New(tt.input)
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("input %q: unexpected error: %v", tt.input, err)
		}
		if tok.Type != tt.typ {
			t.Fatalf("input %q: expected %s, got %s", tt.input, tt.typ, tok.Type)
		}
	}
}

func TestSkipsCommentsAndWhitespace(t *testing.T) {
	l := New("# line comment\nint /* block\ncomment */ x;")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.INT_T {
		t.Fatalf("expected int type keyword, got %s", tok.Type)
	}
}

func TestStripsLeadingBOM(t *testing.T) {
	l := New("\xef\xbb\xbfint x;")
	tok, err := l.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != token.INT_T || tok.Pos.Column != 1 {
		t.Fatalf("expected int type at column 1, got %s @col %d", tok.Type, tok.Pos.Column)
	}
}

func TestTokenize(t *testing.T) {
	tokens, err := Tokenize("func main() { return 0; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tokens[len(tokens)-1].IsEOF() {
		t.Fatalf("expected stream to end in EOF, got %s", tokens[len(tokens)-1].Type)
	}
}
