package banner

import (
	"bytes"
	"io"
	"os"
	"runtime"
	"strings"
	"testing"
)

func TestLogo(t *testing.T) {
	tests := []struct {
		name     string
		logo     string
		contains []string
	}{
		{
			name: "full logo contains required elements",
			logo: Logo,
			contains: []string{
				"DELTASYNC",
				"Content-Defined Chunk Delta Sync",
				"(o)",
			},
		},
		{
			name: "small logo contains required elements",
			logo: SmallLogo,
			contains: []string{
				"DELTASYNC",
				"(o)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, expected := range tt.contains {
				if !strings.Contains(tt.logo, expected) {
					t.Errorf("logo does not contain expected text: %s", expected)
				}
			}
		})
	}
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	return buf.String()
}

func TestPrint(t *testing.T) {
	oldVersion, oldCommit, oldBuildTime := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = "1.0.0", "abc123", "2024-01-01T00:00:00Z"
	defer func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime }()

	output := captureStdout(t, Print)

	for _, expected := range []string{
		"DELTASYNC",
		"Content-Defined Chunk Delta Sync",
		"Version: 1.0.0",
		"Commit: abc123",
		"Built: 2024-01-01T00:00:00Z",
		"Runtime: Go",
		runtime.GOOS,
		runtime.GOARCH,
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("Print() output does not contain expected text: %s", expected)
		}
	}
}

func TestPrintSmall(t *testing.T) {
	oldVersion := Version
	Version = "2.0.0"
	defer func() { Version = oldVersion }()

	output := captureStdout(t, PrintSmall)

	for _, expected := range []string{"DELTASYNC", "v2.0.0", "(o)"} {
		if !strings.Contains(output, expected) {
			t.Errorf("PrintSmall() output does not contain expected text: %s", expected)
		}
	}

	if len(output) >= len(Logo) {
		t.Error("PrintSmall() output is not smaller than full logo")
	}
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldCommit, oldBuildTime := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = "3.0.0", "def456", "2024-06-01T12:00:00Z"
	defer func() { Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuildTime }()

	output := captureStdout(t, PrintVersion)

	for _, expected := range []string{
		"deltasync v. 3.0.0",
		"Git Commit: def456",
		"Built: 2024-06-01T12:00:00Z",
		"Go Version:",
		"OS/Arch:",
		runtime.GOOS,
		runtime.GOARCH,
	} {
		if !strings.Contains(output, expected) {
			t.Errorf("PrintVersion() output does not contain expected text: %s", expected)
		}
	}

	if strings.Contains(output, "_______________") {
		t.Error("PrintVersion() should not contain ASCII art")
	}
}

func TestVersionVariablesHaveDefaults(t *testing.T) {
	for name, value := range map[string]string{
		"Version":   Version,
		"GitCommit": GitCommit,
		"BuildTime": BuildTime,
	} {
		if value == "" {
			t.Errorf("%s should not be empty", name)
		}
	}
}

func TestLogoConsistency(t *testing.T) {
	lines := strings.Split(Logo, "\n")
	if len(lines) < 5 {
		t.Error("Logo should have multiple lines")
	}

	smallLines := strings.Split(SmallLogo, "\n")
	if len(smallLines) < 3 {
		t.Error("SmallLogo should have multiple lines")
	}

	if len(smallLines) >= len(lines) {
		t.Error("SmallLogo should have fewer lines than Logo")
	}
}

func TestPrintOutputFormat(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"Print", Print},
		{"PrintSmall", PrintSmall},
		{"PrintVersion", PrintVersion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureStdout(t, tt.fn)
			if len(output) == 0 {
				t.Errorf("%s produced empty output", tt.name)
			}
			if !strings.HasSuffix(output, "\n") {
				t.Errorf("%s output should end with newline", tt.name)
			}
		})
	}
}
