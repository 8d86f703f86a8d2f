package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kr/pretty"
	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/parser"
	"github.com/sergev/minilisp/runtime"
)

var (
	maxDepth = flag.Int("depth", lang.DefaultMaxDepth, "maximum evaluation depth; 0 means no limit")
	dumpAST  = flag.Bool("ast", false, "print the parsed program instead of running it")
)

func usage() {
	fmt.Fprintf(os.Stderr, "usage: minilisp [flags] [script | -]\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	ev := runtime.NewEvaluator(lang.WithMaxDepth(*maxDepth))
	if flag.NArg() == 1 {
		if err := runScript(ev, flag.Arg(0), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "minilisp: %v\n", err)
			os.Exit(1)
		}
		return
	}
	runREPL(ev)
}

func runScript(ev *lang.Evaluator, script string, stdout io.Writer) error {
	if *dumpAST {
		prog, err := loadProgram(script)
		if err != nil {
			return err
		}
		_, err = pretty.Fprintf(stdout, "%# v\n", prog)
		return err
	}
	if script == "-" {
		return runtime.EvaluateReader(ev, os.Stdin)
	}
	return runtime.EvaluateFile(ev, script)
}

func loadProgram(script string) (*parser.Program, error) {
	if script == "-" {
		return parser.ParseReader(os.Stdin)
	}
	f, err := os.Open(script)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parser.ParseReader(f)
}

func runREPL(ev *lang.Evaluator) {
	if !isInteractive() {
		runBufferedREPL(ev, bufio.NewReader(os.Stdin), os.Stdout, os.Stderr)
		return
	}
	runInteractiveREPL(ev)
}

// execForms runs each statement, echoing the value of bare expressions.
// It stops at the first failing statement.
func execForms(ev *lang.Evaluator, prog *parser.Program, stdout, stderr io.Writer) {
	for _, stmt := range prog.Stmts {
		val, err := ev.Exec(stmt)
		if err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return
		}
		if _, ok := stmt.(*parser.ExprStmt); ok {
			fmt.Fprintln(stdout, val.String())
		}
	}
}

func runBufferedREPL(ev *lang.Evaluator, reader *bufio.Reader, stdout, stderr io.Writer) {
	var buffer strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				if buffer.Len() == 0 && line == "" {
					return
				}
			} else {
				fmt.Fprintf(stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(line)
		prog, parseErr := parser.Parse(buffer.String())
		if parseErr != nil {
			if parser.IsIncomplete(parseErr) && !errors.Is(err, io.EOF) {
				continue
			}
			fmt.Fprintf(stderr, "parse error: %v\n", parseErr)
			buffer.Reset()
			if errors.Is(err, io.EOF) {
				return
			}
			continue
		}
		buffer.Reset()
		execForms(ev, prog, stdout, stderr)
		if errors.Is(err, io.EOF) {
			return
		}
	}
}

func runInteractiveREPL(ev *lang.Evaluator) {
	state := liner.NewLiner()
	defer state.Close()
	state.SetCtrlCAborts(true)

	historyPath := replHistoryPath()
	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			state.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				state.WriteHistory(f)
				f.Close()
			}
		}()
	}

	var buffer strings.Builder

	for {
		prompt := "minilisp> "
		if buffer.Len() > 0 {
			prompt = "....      "
		}
		input, err := state.Prompt(prompt)
		if err != nil {
			switch {
			case errors.Is(err, liner.ErrPromptAborted):
				fmt.Println()
				buffer.Reset()
				continue
			case errors.Is(err, io.EOF):
				fmt.Println()
				return
			default:
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
				return
			}
		}
		buffer.WriteString(input)
		buffer.WriteString("\n")

		src := buffer.String()
		prog, parseErr := parser.Parse(src)
		if parseErr != nil {
			if parser.IsIncomplete(parseErr) {
				continue
			}
			fmt.Fprintf(os.Stderr, "parse error: %v\n", parseErr)
			buffer.Reset()
			continue
		}

		buffer.Reset()
		if trimmed := strings.TrimSpace(src); trimmed != "" {
			state.AppendHistory(trimmed)
		}
		execForms(ev, prog, os.Stdout, os.Stderr)
	}
}

func replHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ""
	}
	return filepath.Join(home, ".minilisp_history")
}

func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
