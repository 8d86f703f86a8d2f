package main

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/runtime"
)

func TestBufferedREPL(t *testing.T) {
	input := `(define x 20)
(+ x
   1)
(print-num x)
(nosuch)
(print-bool (< x 0))
(+ 1
`
	var stdout, stderr bytes.Buffer
	ev := runtime.NewEvaluator(lang.WithOutput(&stdout))
	runBufferedREPL(ev, bufio.NewReader(strings.NewReader(input)), &stdout, &stderr)

	if got, want := stdout.String(), "21\n20\n#f\n"; got != want {
		t.Fatalf("stdout = %q, want %q", got, want)
	}
	errs := stderr.String()
	if !strings.Contains(errs, "error: ") || !strings.Contains(errs, "undefined function") {
		t.Fatalf("expected undefined function error, got %q", errs)
	}
	if !strings.Contains(errs, "parse error: ") {
		t.Fatalf("expected parse error for truncated input, got %q", errs)
	}
}

func TestRunScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "prog.lsp")
	if err := os.WriteFile(script, []byte("(print-num ((fun (a b) (+ a b)) 3 4))\n"), 0o600); err != nil {
		t.Fatalf("write script: %v", err)
	}

	var out bytes.Buffer
	ev := runtime.NewEvaluator(lang.WithOutput(&out))
	if err := runScript(ev, script, &out); err != nil {
		t.Fatalf("runScript returned error: %v", err)
	}
	if got := out.String(); got != "7\n" {
		t.Fatalf("expected 7, got %q", got)
	}

	*dumpAST = true
	defer func() { *dumpAST = false }()
	out.Reset()
	if err := runScript(ev, script, &out); err != nil {
		t.Fatalf("runScript -ast returned error: %v", err)
	}
	if !strings.Contains(out.String(), "parser.Program") || !strings.Contains(out.String(), "CallExpr") {
		t.Fatalf("expected AST dump, got %q", out.String())
	}
}
