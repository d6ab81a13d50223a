package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

const congProblem = `name = "cong"
premises = ["eqratio a b c d e f g h", "cong a b c d"]
goals = ["cong e f g h"]
`

// run executes the root command with args and returns stdout and the
// status stream.
func run(t *testing.T, args ...string) (stdout, status string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, logs bytes.Buffer
	c := New(&logs, LogInfo)
	c.Out = &out
	root := c.RootCommand()
	root.SetOut(&out)
	root.SetErr(&logs)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), logs.String(), err
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestProgressAndContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	ctx := withLogger(context.Background(), logger)
	if loggerFromContext(ctx) != logger {
		t.Error("loggerFromContext should return the attached logger")
	}
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}

	newProgress(loggerFromContext(ctx)).done("proved goals")
	if !strings.Contains(buf.String(), "proved goals (") {
		t.Errorf("progress output = %q", buf.String())
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"text, dot,,json", []string{"text", "dot", "json"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "problems/thales.toml", "problems/thales"},
		{"out/proof.svg", "thales.toml", "out/proof"},
		{"out/proof.txt", "thales.toml", "out/proof"},
		{"out/proof", "thales.toml", "out/proof"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
	if fileExt("text") != "txt" || fileExt("graph") != "graph.json" || fileExt("svg") != "svg" {
		t.Error("fileExt mapping changed")
	}
}

func TestCanonCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"words", []string{"canon", "rconst", "d", "c", "b", "a", "3/2"}, "rconst a b c d 3/2\n"},
		{"quoted", []string{"canon", "rconst d c b a 3/2"}, "rconst a b c d 3/2\n"},
		{"pretty", []string{"canon", "--pretty", "rconst d c b a 3/2"}, "AB:CD = 3/2\n"},
		{"decompose", []string{"canon", "--decompose", "eqratio3 a b c d m n"},
			"eqratio a m c m b n d n\neqratio a c a m b d b n\neqratio a c c m b d d n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("canon error: %v", err)
			}
			if out != tt.want {
				t.Errorf("canon output = %q, want %q", out, tt.want)
			}
		})
	}

	if _, _, err := run(t, "canon", "cong a a b c"); err == nil {
		t.Error("canon of a degenerate statement should fail")
	}
}

func TestProveCommand(t *testing.T) {
	input := writeTemp(t, "cong.toml", congProblem)

	out, status, err := run(t, "prove", input, "--parallel", "1")
	if err != nil {
		t.Fatalf("prove error: %v\n%s", err, status)
	}
	if !strings.Contains(out, "cong e f g h [003] ratio_chase [001] [002];") {
		t.Errorf("trace output:\n%s", out)
	}
	if !strings.Contains(status, "1/1 proved") {
		t.Errorf("summary missing proved count:\n%s", status)
	}
}

func TestProveCommandFiles(t *testing.T) {
	input := writeTemp(t, "cong.toml", congProblem)
	base := filepath.Join(t.TempDir(), "proof")

	if _, status, err := run(t, "prove", input, "-f", "dot,json,text", "-o", base); err != nil {
		t.Fatalf("prove error: %v\n%s", err, status)
	}
	for _, name := range []string{"proof.dot", "proof.json", "proof.txt"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(base), name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
	dot, _ := os.ReadFile(base + ".dot")
	if !strings.HasPrefix(string(dot), "digraph proof {") {
		t.Errorf("dot output starts with %q", string(dot[:min(len(dot), 20)]))
	}
}

func TestProveCommandNotProved(t *testing.T) {
	input := writeTemp(t, "open.toml", `name = "open"
premises = ["cong a b c d"]
goals = ["cong a b e f"]
`)
	_, status, err := run(t, "prove", input)
	if err == nil || !strings.Contains(err.Error(), "1 of 1 goals not proved") {
		t.Errorf("prove error = %v", err)
	}
	if !strings.Contains(status, "not derived") {
		t.Errorf("summary:\n%s", status)
	}
}

func TestProveCommandMetrics(t *testing.T) {
	input := writeTemp(t, "cong.toml", congProblem)
	_, status, err := run(t, "prove", input, "--metrics")
	if err != nil {
		t.Fatalf("prove error: %v", err)
	}
	for _, want := range []string{"metrics", "pipeline_goals_total{status=proved} 1", "deduction_adds_total{predicate=cong,result=ok}"} {
		if !strings.Contains(status, want) {
			t.Errorf("metrics output missing %q:\n%s", want, status)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeTemp(t, "cong.toml", congProblem)
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "cong.txt")
	graphPath := filepath.Join(dir, "cong.json")

	if _, _, err := run(t, "prove", input, "-f", "text", "-o", tracePath); err != nil {
		t.Fatalf("prove text: %v", err)
	}
	if _, _, err := run(t, "prove", input, "-f", "graph", "-o", graphPath); err != nil {
		t.Fatalf("prove graph: %v", err)
	}

	dotPath := filepath.Join(dir, "from-trace.dot")
	if _, status, err := run(t, "render", tracePath, "-f", "dot", "-o", dotPath); err != nil {
		t.Fatalf("render trace: %v\n%s", err, status)
	}
	dot, err := os.ReadFile(dotPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(dot), "r_ratio_chase_1") {
		t.Errorf("rendered dot:\n%s", dot)
	}

	jsonPath := filepath.Join(dir, "from-graph.json")
	if _, status, err := run(t, "render", graphPath, "-f", "json", "-o", jsonPath); err != nil {
		t.Fatalf("render graph: %v\n%s", err, status)
	}
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"links"`)) {
		t.Errorf("rendered json:\n%s", data)
	}

	if _, _, err := run(t, "render", writeTemp(t, "bad.txt", "no proof here"), "-f", "dot"); err == nil {
		t.Error("render of a malformed trace should fail")
	}
	if _, _, err := run(t, "render", tracePath, "-f", "gif"); err == nil {
		t.Error("render with an unknown format should fail")
	}
}

func TestConfigCommands(t *testing.T) {
	out, _, err := run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "parallel: 4") || !strings.Contains(out, "formats:") {
		t.Errorf("config show output:\n%s", out)
	}

	t.Setenv("RATIOCHASE_PROVE_PARALLEL", "7")
	out, _, err = run(t, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "parallel: 7") {
		t.Errorf("environment override missing:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "ratiochase.toml")
	if _, status, err := run(t, "config", "init", "--config", path); err != nil {
		t.Fatalf("config init: %v\n%s", err, status)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("config init did not create %s", path)
	}
	out, _, err = run(t, "config", "show", "--config", path)
	if err != nil {
		t.Fatalf("config show --config: %v", err)
	}
	if !strings.Contains(out, "parallel: 7") {
		t.Errorf("environment should still override the file:\n%s", out)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "--version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "ratiochase version ") {
		t.Errorf("--version output = %q", out)
	}
}

func TestCompletion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "ratiochase") {
		t.Error("bash completion does not mention the command")
	}
}

func TestMetricsHooks(t *testing.T) {
	m := newMetrics()
	ctx := context.Background()
	m.OnProveComplete(ctx, "cong e f g h", true, time.Millisecond, nil)
	m.OnProveComplete(ctx, "cong a b e f", false, time.Millisecond, nil)
	m.OnCheck("cong", true)
	m.OnWhy("cong", 2)
	m.OnContradiction("angle")
	m.OnCacheMiss("canonical")

	if got := testutil.ToFloat64(m.goalsTotal.WithLabelValues("proved")); got != 1 {
		t.Errorf("proved goals = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.contradictionsTotal.WithLabelValues("angle")); got != 1 {
		t.Errorf("angle contradictions = %v, want 1", got)
	}

	lines, err := m.lines()
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[string]string, len(lines))
	for _, l := range lines {
		got[l.name] = l.value
	}
	want := map[string]string{
		"deduction_checks_total{holds=true,predicate=cong}": "1",
		"pipeline_goals_total{status=not_derived}":          "1",
		"memo_events_total{event=miss,key_type=canonical}":  "1",
		"deduction_contradictions_total{kind=angle}":        "1",
		"deduction_antecedents":                             "n=1 sum=2",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}
