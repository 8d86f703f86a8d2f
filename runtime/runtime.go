package runtime

import (
	"bytes"
	"io"
	"os"

	"github.com/sergev/minilisp/lang"
	"github.com/sergev/minilisp/parser"
)

// NewEvaluator constructs an evaluator with an empty global environment.
func NewEvaluator(opts ...lang.Option) *lang.Evaluator {
	return lang.NewEvaluator(opts...)
}

func readFileSkippingShebang(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if bytes.HasPrefix(data, []byte("#!")) {
		if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
			return data[idx+1:], nil
		}
		return []byte{}, nil
	}
	return data, nil
}

// EvaluateReader parses the whole reader, then runs every statement.
// Nothing is evaluated when parsing fails.
func EvaluateReader(ev *lang.Evaluator, r io.Reader) error {
	prog, err := parser.ParseReader(r)
	if err != nil {
		return err
	}
	return ev.Run(prog)
}

// EvaluateString parses and runs source text.
func EvaluateString(ev *lang.Evaluator, src string) error {
	prog, err := parser.Parse(src)
	if err != nil {
		return err
	}
	return ev.Run(prog)
}

// EvaluateFile loads and executes a source file, allowing #! shebang.
func EvaluateFile(ev *lang.Evaluator, path string) error {
	data, err := readFileSkippingShebang(path)
	if err != nil {
		return err
	}
	return EvaluateReader(ev, bytes.NewReader(data))
}
