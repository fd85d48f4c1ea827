package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nvandessel/paramtree/internal/logging"
	"github.com/nvandessel/paramtree/internal/units"
)

const plantYAML = `parameter:
  id: plant
  children:
    - id: feed
      value: 10.0
    - id: flux
      value: 20
      units: L/m²/h
    - id: pump
      children:
        - id: speed
          value: 1450
    - id: scheme
      selection: central
      options:
        - id: upwind
          value: UW
        - id: central
          value: CD
`

// isolateHome sets HOME to a temp directory to avoid reading a real
// ~/.paramtree/config.yaml.
func isolateHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	for _, v := range []string{"PARAMTREE_LOG_LEVEL", "PARAMTREE_LOG_FORMAT", "PARAMTREE_LOG_DIR", "PARAMTREE_SAMPLES", "PARAMTREE_SEED", "PARAMTREE_SI"} {
		t.Setenv(v, "")
	}
	return tmpDir
}

// writePlant writes the sample parameter file and returns its path.
func writePlant(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "plant.yaml")
	if err := os.WriteFile(path, []byte(plantYAML), 0600); err != nil {
		t.Fatalf("write plant.yaml: %v", err)
	}
	return path
}

// run executes the root command with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	rootCmd := newRootCmd()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v", args, err)
	}
	return out
}

func TestRootCmdSubcommands(t *testing.T) {
	rootCmd := newRootCmd()
	want := []string{"version", "show", "value", "transform", "sample", "graph", "validate", "units", "config"}
	for _, name := range want {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestVersionCmd(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "paramtree version "+version) {
		t.Errorf("unexpected version output: %q", out)
	}

	out = mustRun(t, "version", "--json")
	var got map[string]string
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("version --json is not JSON: %v", err)
	}
	if got["version"] != version {
		t.Errorf("version = %q, want %q", got["version"], version)
	}
}

func TestShowCmd(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	out := mustRun(t, "show", plant)
	for _, want := range []string{"plant [container]\n", "  feed = 10\n", "  scheme [options: central]\n", "    * central = CD\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "show", plant, "--json")
	var tree map[string]any
	if err := json.Unmarshal([]byte(out), &tree); err != nil {
		t.Fatalf("show --json is not JSON: %v", err)
	}
	if tree["id"] != "plant" {
		t.Errorf("root id = %v, want plant", tree["id"])
	}
}

func TestValueCmd(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	out := mustRun(t, "value", plant, "pump.speed", "--json")
	var got struct {
		Path  string  `json:"path"`
		Value float64 `json:"value"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("value --json is not JSON: %v", err)
	}
	if got.Path != "pump.speed" || got.Value != 1450 {
		t.Errorf("unexpected value output: %+v", got)
	}

	out = mustRun(t, "value", plant, "scheme")
	if out != "CD\n" {
		t.Errorf("value scheme = %q, want %q", out, "CD\n")
	}

	out = mustRun(t, "value", plant, "pump")
	if out != "speed: 1450\n" {
		t.Errorf("value pump = %q, want %q", out, "speed: 1450\n")
	}

	if _, err := run(t, "value", plant, "pump.flow"); err == nil {
		t.Error("expected error for unknown path")
	}
}

func TestTransformCmdSI(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	read := func(args ...string) float64 {
		t.Helper()
		out := mustRun(t, args...)
		var got struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("transform --json is not JSON: %v (%q)", err, out)
		}
		return got.Value
	}

	if got := read("transform", plant, "flux", "--json"); got != 20 {
		t.Errorf("transform flux = %g, want 20", got)
	}
	if got := read("transform", plant, "flux", "--json", "--si"); math.Abs(got-20.0/3.6e6) > 1e-15 {
		t.Errorf("transform --si flux = %g, want %g", got, 20.0/3.6e6)
	}
}

func TestSampleCmd(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	args := []string{"sample", plant, "-n", "2000", "--seed", "7", "--perturb", "feed=0.2", "--json"}
	out := mustRun(t, args...)

	var got struct {
		Samples int `json:"samples"`
		Stats   map[string]struct {
			Nominal    float64 `json:"nominal"`
			MeanAbsDev float64 `json:"mean_abs_dev"`
			FracAbove  float64 `json:"frac_above"`
			Min        float64 `json:"min"`
			Max        float64 `json:"max"`
		} `json:"stats"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("sample --json is not JSON: %v", err)
	}
	if got.Samples != 2000 {
		t.Errorf("samples = %d, want 2000", got.Samples)
	}
	feed, ok := got.Stats["feed"]
	if !ok {
		t.Fatalf("no feed series in %v", got.Stats)
	}
	if math.Abs(feed.MeanAbsDev-1.0) > 0.1 {
		t.Errorf("feed mean abs dev = %g, want about 1", feed.MeanAbsDev)
	}
	if feed.Min < 8 || feed.Max > 12 {
		t.Errorf("feed range [%g, %g] outside [8, 12]", feed.Min, feed.Max)
	}
	speed := got.Stats["pump.speed"]
	if speed.Min != 1450 || speed.Max != 1450 {
		t.Errorf("unperturbed speed moved: [%g, %g]", speed.Min, speed.Max)
	}

	// Same seed, same draws.
	if again := mustRun(t, args...); again != out {
		t.Error("expected identical output for identical seed")
	}
}

func TestSampleCmdText(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	out := mustRun(t, "sample", plant, "pump", "-n", "10", "--seed", "3", "--perturb", "pump.speed=0.05")
	if !strings.HasPrefix(out, "plant: 10 samples (seed 3)\n") {
		t.Errorf("unexpected header: %q", out)
	}
	if !strings.Contains(out, "  speed  n=10 nominal=1450") {
		t.Errorf("expected speed series line, got:\n%s", out)
	}
}

func TestSampleCmdRecord(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)
	recordDir := filepath.Join(dir, "runs")

	mustRun(t, "sample", plant, "feed", "-n", "25", "--record", recordDir)

	data, err := os.ReadFile(filepath.Join(recordDir, logging.SampleFile))
	if err != nil {
		t.Fatalf("reading recorded samples: %v", err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 25 {
		t.Errorf("expected 25 recorded samples, got %d", len(lines))
	}
}

func TestSampleCmdErrors(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	if _, err := run(t, "sample", plant, "--perturb", "feed=lots"); err == nil {
		t.Error("expected error for non-numeric perturbation")
	}
	if _, err := run(t, "sample", plant, "-n", "-3"); err == nil {
		t.Error("expected error for negative sample count")
	}
	if _, err := run(t, "sample", plant, "--perturb", "scheme=0.1"); err == nil {
		t.Error("expected error for perturbing an options parameter with a number")
	}
}

func TestParsePerturbations(t *testing.T) {
	got, err := parsePerturbations(map[string]string{
		"feed":       "0.2",
		"pump.speed": "0.05",
		"pump.head":  "0.1",
	})
	if err != nil {
		t.Fatalf("parsePerturbations failed: %v", err)
	}
	if got["feed"] != 0.2 {
		t.Errorf("feed = %v, want 0.2", got["feed"])
	}
	pump, ok := got["pump"].(map[string]any)
	if !ok || pump["speed"] != 0.05 || pump["head"] != 0.1 {
		t.Errorf("unexpected pump map: %v", got["pump"])
	}

	if _, err := parsePerturbations(map[string]string{"pump": "0.1", "pump.speed": "0.2"}); err == nil {
		t.Error("expected conflict error")
	}
}

func TestGraphCmd(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	out := mustRun(t, "graph", plant)
	if !strings.HasPrefix(out, "digraph paramtree {") {
		t.Errorf("expected DOT output, got: %q", out)
	}
	if !strings.Contains(out, `"plant.scheme" -> "plant.scheme.central" [style=bold];`) {
		t.Errorf("expected selected option edge:\n%s", out)
	}

	out = mustRun(t, "graph", plant, "--format", "text")
	if !strings.HasPrefix(out, "plant [container]\n") {
		t.Errorf("expected text output, got: %q", out)
	}

	if _, err := run(t, "graph", plant, "--format", "html"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestValidateCmd(t *testing.T) {
	dir := isolateHome(t)
	plant := writePlant(t, dir)

	out := mustRun(t, "validate", plant)
	if !strings.Contains(out, "ok (8 parameters)") {
		t.Errorf("unexpected validate output: %q", out)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("id: root\nchildren:\n  - units: m\n"), 0600); err != nil {
		t.Fatalf("write bad.yaml: %v", err)
	}
	out, err := run(t, "validate", bad, "--json")
	if err == nil {
		t.Fatal("expected validation error")
	}
	var got map[string]any
	if jerr := json.Unmarshal([]byte(out), &got); jerr != nil {
		t.Fatalf("validate --json is not JSON: %v", jerr)
	}
	if got["valid"] != false {
		t.Errorf("valid = %v, want false", got["valid"])
	}
}

func TestUnitsCmd(t *testing.T) {
	out := mustRun(t, "units", "list")
	for _, want := range []string{"°C\n", "km\n", "L/m²/h\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("units list missing %q", want)
		}
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"units", "convert", "20", "°C"}, "20 °C = 293.15 (SI)\n"},
		{[]string{"units", "convert", "3", "km"}, "3 km = 3000 (SI)\n"},
		{[]string{"units", "convert", "3000", "km", "--from-si"}, "3000 (SI) = 3 km\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			if got := mustRun(t, tt.args...); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}

	_, err := run(t, "units", "convert", "1", "furlong")
	if !errors.Is(err, units.ErrUnknownUnit) {
		t.Errorf("expected ErrUnknownUnit, got %v", err)
	}
	if _, err := run(t, "units", "convert", "one", "m"); err == nil {
		t.Error("expected error for non-numeric value")
	}
}

func TestConfigCmd(t *testing.T) {
	dir := isolateHome(t)
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("sampling:\n  count: 42\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out := mustRun(t, "config", "get", "sampling.count", "--config", cfgPath)
	if out != "sampling.count = 42\n" {
		t.Errorf("config get = %q", out)
	}

	out = mustRun(t, "config", "list")
	if !strings.Contains(out, "sampling.count:       1000") {
		t.Errorf("config list should show defaults:\n%s", out)
	}

	out = mustRun(t, "config", "list", "--json", "--log-level", "debug")
	var got map[string]any
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("config list --json is not JSON: %v", err)
	}
	logCfg, _ := got["logging"].(map[string]any)
	if logCfg["level"] != "debug" {
		t.Errorf("--log-level should override config, got %v", got["logging"])
	}

	if _, err := run(t, "config", "get", "nope"); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := run(t, "config", "list", "--log-level", "loud"); err == nil {
		t.Error("expected error for invalid log level")
	}
}
