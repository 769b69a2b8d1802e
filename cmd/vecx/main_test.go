package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benbjohnson/vecx"
)

const scenarioPath = "../../graphfile/testdata/scenario.yaml"

// runMain executes the command with args and returns stdout and stderr.
func runMain(tb testing.TB, args ...string) (string, string, error) {
	tb.Helper()
	var stdout, stderr bytes.Buffer
	err := run(tb.Context(), args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

// writeFile writes data to a file in a temporary directory and returns its path.
func writeFile(tb testing.TB, name, data string) string {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o666); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestExtractCommand(t *testing.T) {
	t.Run("YAML", func(t *testing.T) {
		stdout, _, err := runMain(t, "extract", scenarioPath)
		if err != nil {
			t.Fatal(err)
		} else if got, exp := stdout, "r\t104\t(VecAdd (VecMul d e) c)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("JSON", func(t *testing.T) {
		stdout, _, err := runMain(t, "extract", "--workers", "2", "--bfs", "--no-prune", "../../graphfile/testdata/scenario.json")
		if err != nil {
			t.Fatal(err)
		} else if got, exp := stdout, "r\t104\t(VecAdd (VecMul d e) c)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("Root", func(t *testing.T) {
		stdout, _, err := runMain(t, "extract", "--root", "b", scenarioPath)
		if err != nil {
			t.Fatal(err)
		} else if got, exp := stdout, "b\t102\t(VecMul d e)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("Config", func(t *testing.T) {
		config := writeFile(t, "vecx.yaml", "weights: {vec_op: 3, structure: 7, literal: 5}\nworkers: 2\nsearcher: random\nseed: 7\n")
		stdout, _, err := runMain(t, "extract", "--config", config, scenarioPath)
		if err != nil {
			t.Fatal(err)
		} else if got, exp := stdout, "r\t318\t(VecAdd (VecMul d e) c)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("Verbose", func(t *testing.T) {
		_, stderr, err := runMain(t, "extract", "-v", scenarioPath)
		if err != nil {
			t.Fatal(err)
		} else if !strings.Contains(stderr, "[done]") || !strings.Contains(stderr, "component=extractor") {
			t.Fatalf("unexpected log output: %s", stderr)
		}
	})

	t.Run("Quiet", func(t *testing.T) {
		if _, stderr, err := runMain(t, "extract", scenarioPath); err != nil {
			t.Fatal(err)
		} else if stderr != "" {
			t.Fatalf("unexpected log output: %s", stderr)
		}
	})

	t.Run("MetricsFile", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vecx.prom")
		if _, _, err := runMain(t, "extract", "--metrics-file", path, scenarioPath); err != nil {
			t.Fatal(err)
		}

		buf, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		} else if s := string(buf); !strings.Contains(s, `vecx_extractor_completed_total{input="scenario.yaml"} 1`) {
			t.Fatalf("unexpected metrics:\n%s", s)
		} else if !strings.Contains(s, `vecx_extractor_excluded_total{input="scenario.yaml"} 1`) {
			t.Fatalf("unexpected metrics:\n%s", s)
		}
	})

	t.Run("ErrNoExtractableExpression", func(t *testing.T) {
		if _, _, err := runMain(t, "extract", "../../graphfile/testdata/cycle.yaml"); !errors.Is(err, vecx.ErrNoExtractableExpression) {
			t.Fatalf("unexpected error: %v", err)
		} else if got, exp := err.Error(), "class a: vecx: no extractable expression"; got != exp {
			t.Fatalf("error=%q, expected %q", got, exp)
		}
	})

	t.Run("ErrNoRoot", func(t *testing.T) {
		path := writeFile(t, "graph.yaml", "classes: {a: [[a]]}\n")
		if _, _, err := runMain(t, "extract", path); err == nil || err.Error() != `no root class: list roots in the graph file or pass --root` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrUnknownRoot", func(t *testing.T) {
		if _, _, err := runMain(t, "extract", "--root", "zz", scenarioPath); err == nil || err.Error() != `unknown root class "zz"` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrInvalidWeights", func(t *testing.T) {
		config := writeFile(t, "vecx.yaml", "weights: {literal: -1}\n")
		if _, _, err := runMain(t, "extract", "--config", config, scenarioPath); !errors.Is(err, vecx.ErrInvalidWeights) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrUnknownConfigField", func(t *testing.T) {
		config := writeFile(t, "vecx.yaml", "weight: {literal: 2}\n")
		if _, _, err := runMain(t, "extract", "--config", config, scenarioPath); err == nil || !strings.HasPrefix(err.Error(), "load config: ") {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrUnknownSearcher", func(t *testing.T) {
		config := writeFile(t, "vecx.yaml", "searcher: best-first\n")
		if _, _, err := runMain(t, "extract", "--config", config, scenarioPath); err == nil || err.Error() != `load config: unknown searcher "best-first"` {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrArgs", func(t *testing.T) {
		if _, _, err := runMain(t, "extract"); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestExprCommand(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		stdout, _, err := runMain(t, "expr", "(+ a b)", "(VecAdd a b)", "(VecMul a b)")
		if err != nil {
			t.Fatal(err)
		} else if got, exp := stdout, "3\t(VecAdd a b)\n"; got != exp {
			t.Fatalf("stdout=%q, expected %q", got, exp)
		}
	})

	t.Run("ErrScalar", func(t *testing.T) {
		if _, _, err := runMain(t, "expr", "(* a b)"); !errors.Is(err, vecx.ErrNoExtractableExpression) {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("ErrParse", func(t *testing.T) {
		if _, _, err := runMain(t, "expr", "a", "(VecAdd a"); err == nil || err.Error() != `expression 2: vecx: missing ')' for VecAdd` {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}

func TestRun_UnknownCommand(t *testing.T) {
	if _, _, err := runMain(t, "generate"); err == nil {
		t.Fatal("expected error")
	}
}
