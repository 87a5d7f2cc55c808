package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
	"github.com/roboco-io/hwpkit/internal/writer"
)

// binaryName returns the appropriate binary name for the current OS
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "hwpkit_test.exe"
	}
	return "hwpkit_test"
}

// buildTestBinary builds the test binary into a temp dir
func buildTestBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), binaryName())
	buildCmd := exec.Command("go", "build", "-o", binPath, "../cmd/hwpkit")
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build binary: %v\n%s", err, out)
	}
	return binPath
}

// runBinary runs hwpkit with an isolated config file.
func runBinary(t *testing.T, bin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "config.yaml")
	cmd := exec.Command(bin, append([]string{"--config", cfg}, args...)...)
	cmd.Env = append(os.Environ(), "HWPKIT_DEBUG=", "HWPKIT_PARTIAL_POLICY=")
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err = cmd.Run()
	return out.String(), errOut.String(), err
}

// writeSample writes a generated HWP document with the given body paragraphs.
func writeSample(t *testing.T, paragraphs ...string) string {
	t.Helper()
	doc := hwp5.NewDocument()
	for _, p := range paragraphs {
		doc.Sections[0].AddParagraph(p, 0, 0)
	}
	path := filepath.Join(t.TempDir(), "sample.hwp")
	if err := writer.Write(path, doc); err != nil {
		t.Fatalf("failed to write sample: %v", err)
	}
	return path
}

func TestInspectCommand(t *testing.T) {
	bin := buildTestBinary(t)
	sample := writeSample(t, "첫째 문단", "둘째 문단")

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput []string
	}{
		{
			name:       "basic inspect",
			args:       []string{"inspect", sample},
			wantOutput: []string{"FileHeader", "DocInfo", "BodyText/Section0", "5.0.3.0"},
		},
		{
			name:       "inspect with verify",
			args:       []string{"inspect", sample, "--verify"},
			wantOutput: []string{"검증 완료"},
		},
		{
			name:    "inspect non-existent file",
			args:    []string{"inspect", "nonexistent.hwp"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runBinary(t, bin, tc.args...)

			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
			}
			for _, want := range tc.wantOutput {
				if !strings.Contains(stdout, want) {
					t.Errorf("output should contain %q, got: %s", want, stdout)
				}
			}
		})
	}
}

func TestExtractCommand(t *testing.T) {
	bin := buildTestBinary(t)
	sample := writeSample(t, "추출할 본문")

	tests := []struct {
		name       string
		args       []string
		wantErr    bool
		wantOutput string
	}{
		{
			name:       "extract as json",
			args:       []string{"extract", sample},
			wantOutput: `"format": "hwp"`,
		},
		{
			name:       "extract as text",
			args:       []string{"extract", sample, "--format", "text"},
			wantOutput: "추출할 본문",
		},
		{
			name:    "extract non-existent file",
			args:    []string{"extract", "nonexistent.hwpx"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stdout, stderr, err := runBinary(t, bin, tc.args...)

			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
			}
			if !strings.Contains(stdout, tc.wantOutput) {
				t.Errorf("output should contain %q, got: %s", tc.wantOutput, stdout)
			}
		})
	}
}

func TestErrorReport(t *testing.T) {
	bin := buildTestBinary(t)

	notHWP := filepath.Join(t.TempDir(), "plain.txt")
	if err := os.WriteFile(notHWP, []byte(strings.Repeat("plain text ", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		args     []string
		wantKind string
	}{
		{"missing file", []string{"text", "nonexistent.hwp"}, "IOError:"},
		{"unknown format", []string{"text", notHWP}, "UnknownFormat:"},
		{"not a container", []string{"inspect", notHWP}, "BadMagic:"},
		{"too short", []string{"text", writeSample(t, "짧음"), "--retrieval"}, "TextTooShort:"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, stderr, err := runBinary(t, bin, tc.args...)
			exitErr, ok := err.(*exec.ExitError)
			if !ok {
				t.Fatalf("expected exit error, got %v", err)
			}
			if exitErr.ExitCode() != 1 {
				t.Errorf("exit code = %d, want 1", exitErr.ExitCode())
			}
			if !strings.HasPrefix(stderr, tc.wantKind) {
				t.Errorf("stderr should start with %q, got: %s", tc.wantKind, stderr)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	bin := buildTestBinary(t)

	stdout, _, err := runBinary(t, bin, "version")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(stdout, "hwpkit ") {
		t.Errorf("output should start with 'hwpkit ', got: %s", stdout)
	}
}

func TestConfigCommand(t *testing.T) {
	bin := buildTestBinary(t)

	t.Run("config show", func(t *testing.T) {
		stdout, stderr, err := runBinary(t, bin, "config", "show")
		if err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", err, stderr)
		}
		if !strings.Contains(stdout, "partial_policy: remainder") {
			t.Errorf("output should contain default partial_policy, got: %s", stdout)
		}
	})

	t.Run("config path", func(t *testing.T) {
		stdout, _, err := runBinary(t, bin, "config", "path")
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "config.yaml") {
			t.Errorf("output should contain 'config.yaml', got: %s", stdout)
		}
	})
}

func TestHelpCommand(t *testing.T) {
	bin := buildTestBinary(t)

	stdout, _, err := runBinary(t, bin, "--help")
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	expectedStrings := []string{"hwpkit", "inspect", "extract", "text", "layout", "rewrite", "config"}
	for _, s := range expectedStrings {
		if !strings.Contains(stdout, s) {
			t.Errorf("output should contain %q, got: %s", s, stdout)
		}
	}
}
