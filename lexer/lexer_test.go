package lexer

import "testing"

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexPunctuatorsAndCompoundAssign(t *testing.T) {
	toks, err := New("t.dusk", "<<= >>= == != && || ++ --").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{LessLessEqual, GreaterGreaterEqual, EqualEqual, BangEqual, AmpAmp, PipePipe, PlusPlus, MinusMinus, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexNumbers(t *testing.T) {
	toks, err := New("t.dusk", "0x1A 42 3.14 5.").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{IntLiteral, IntLiteral, FloatLiteral, IntLiteral, Dot, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestLexBuiltinIdent(t *testing.T) {
	toks, err := New("t.dusk", "@sin(x)").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	if toks[0].Kind != Builtin || toks[0].Text != "@sin" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestLexUnclosedString(t *testing.T) {
	_, err := New("t.dusk", `"unterminated`).Tokenize()
	if err == nil {
		t.Fatal("expected lex error for unclosed string")
	}
}

func TestLexKeywordsAndVectorTypes(t *testing.T) {
	toks, err := New("t.dusk", "fn let struct if else while return discard break continue float4 intN").Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	want := []Kind{KwFn, KwLet, KwStruct, KwIf, KwElse, KwWhile, KwReturn, KwDiscard, KwBreak, KwContinue, KwTypeVector, Ident, EOF}
	got := kinds(toks)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d (%q): got %v want %v", i, toks[i].Text, got[i], want[i])
		}
	}
}

// Lex round-trip property: re-lexing the exact substring a token spans
// reproduces the same token kind.
func TestLexRoundTrip(t *testing.T) {
	src := "let x : float4 = float4(1.0, 2, 3.14, 0x1A);"
	toks, err := New("t.dusk", src).Tokenize()
	if err != nil {
		t.Fatal(err)
	}
	for _, tok := range toks {
		if tok.Kind == EOF {
			continue
		}
		sub := src[tok.Offset : tok.Offset+tok.Length]
		retoks, err := New("t.dusk", sub).Tokenize()
		if err != nil {
			t.Fatalf("re-lexing %q failed: %v", sub, err)
		}
		if len(retoks) < 1 || retoks[0].Kind != tok.Kind {
			t.Errorf("re-lexing %q: got kind %v, want %v", sub, retoks[0].Kind, tok.Kind)
		}
	}
}
