package pylexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := "def add(a: int, b: int) -> int:\n    return a + b\n"

	tests := []struct {
		expectedType    TokenType
		expectedLiteral string
	}{
		{DEF, "def"},
		{IDENT, "add"},
		{LPAREN, "("},
		{IDENT, "a"},
		{COLON, ":"},
		{IDENT, "int"},
		{COMMA, ","},
		{IDENT, "b"},
		{COLON, ":"},
		{IDENT, "int"},
		{RPAREN, ")"},
		{ARROW, "->"},
		{IDENT, "int"},
		{COLON, ":"},
		{NEWLINE, ""},
		{INDENT, ""},
		{RETURN, "return"},
		{IDENT, "a"},
		{PLUS, "+"},
		{IDENT, "b"},
		{NEWLINE, ""},
		{DEDENT, ""},
		{EOF, ""},
	}

	l := New(input, "test.py")
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.expectedType {
			t.Fatalf("test[%d] - token type wrong. expected=%v, got=%v (literal %q)", i, tt.expectedType, tok.Type, tok.Literal)
		}
		if tt.expectedLiteral != "" && tok.Literal != tt.expectedLiteral {
			t.Fatalf("test[%d] - literal wrong. expected=%q, got=%q", i, tt.expectedLiteral, tok.Literal)
		}
	}
}

// TestNextTokenEOFUnwindsIndentWithoutDuplicateNewline guards the case that
// motivated tracking endsWithNewline: a source already ending in "\n" must
// not get a second synthetic NEWLINE injected before the DEDENT/EOF tail.
func TestNextTokenEOFUnwindsIndentWithoutDuplicateNewline(t *testing.T) {
	input := "x = 1\n"

	l := New(input, "test.py")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	newlineCount := 0
	for _, tt := range types {
		if tt == NEWLINE {
			newlineCount++
		}
	}
	if newlineCount != 1 {
		t.Errorf("expected exactly 1 NEWLINE token, got %d (stream=%v)", newlineCount, types)
	}

	last := types[len(types)-1]
	if last != EOF {
		t.Fatalf("expected stream to end in EOF, got %v", last)
	}
	if types[len(types)-2] != NEWLINE {
		t.Errorf("expected token before EOF to be NEWLINE, got %v", types[len(types)-2])
	}
}

// TestNextTokenEOFWithoutTrailingNewlineStillTerminatesLine covers the
// opposite case: a source that does NOT end in "\n" still needs a NEWLINE
// synthesized before EOF so the parser sees a terminated statement.
func TestNextTokenEOFWithoutTrailingNewlineStillTerminatesLine(t *testing.T) {
	input := "x = 1"

	l := New(input, "test.py")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	newlineCount := 0
	for _, tt := range types {
		if tt == NEWLINE {
			newlineCount++
		}
	}
	if newlineCount != 1 {
		t.Errorf("expected exactly 1 synthesized NEWLINE token, got %d (stream=%v)", newlineCount, types)
	}
}

func TestNextTokenOperatorsAndKeywords(t *testing.T) {
	input := "x = 1 // 2\ny **= 3\nif x and not y or z is None:\n    pass\n"

	l := New(input, "test.py")
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	mustContain := []TokenType{DOUBLESLASH, DOUBLESTAR, IF, AND, NOT, OR, IS, NONE, COLON, PASS}
	for _, want := range mustContain {
		found := false
		for _, got := range types {
			if got == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected token type %v to appear in stream", want)
		}
	}
}

func TestNextTokenNestedIndentation(t *testing.T) {
	input := "if a:\n    if b:\n        pass\n    pass\n"

	l := New(input, "test.py")
	var indentDepth int
	var maxDepth int
	for {
		tok := l.NextToken()
		if tok.Type == INDENT {
			indentDepth++
			if indentDepth > maxDepth {
				maxDepth = indentDepth
			}
		}
		if tok.Type == DEDENT {
			indentDepth--
		}
		if tok.Type == EOF {
			break
		}
	}
	if maxDepth != 2 {
		t.Errorf("expected max indent depth 2, got %d", maxDepth)
	}
	if indentDepth != 0 {
		t.Errorf("expected indentation to fully unwind, got depth %d", indentDepth)
	}
}

func TestNextTokenStringAndFString(t *testing.T) {
	input := `s = "hello"
t = f"count={n}"
`
	l := New(input, "test.py")
	var sawString, sawFString bool
	for {
		tok := l.NextToken()
		if tok.Type == STRING {
			sawString = true
		}
		if tok.Type == FSTRING_START {
			sawFString = true
		}
		if tok.Type == EOF {
			break
		}
	}
	if !sawString {
		t.Error("expected a STRING token")
	}
	if !sawFString {
		t.Error("expected an FSTRING_START token")
	}
}

func TestNextTokenBracketsSuppressNewline(t *testing.T) {
	// Inside parens, a literal newline must not produce a NEWLINE token
	// (logical-line joining), per the lexer's parenDepth tracking.
	input := "x = (1 +\n     2)\n"

	l := New(input, "test.py")
	var newlineCount int
	for {
		tok := l.NextToken()
		if tok.Type == NEWLINE {
			newlineCount++
		}
		if tok.Type == EOF {
			break
		}
	}
	if newlineCount != 1 {
		t.Errorf("expected exactly 1 NEWLINE token (after the closing paren's line), got %d", newlineCount)
	}
}

func TestLookupIdent(t *testing.T) {
	if LookupIdent("def") != DEF {
		t.Error("expected 'def' to resolve to DEF")
	}
	if LookupIdent("notakeyword") != IDENT {
		t.Error("expected unknown identifier to resolve to IDENT")
	}
}
