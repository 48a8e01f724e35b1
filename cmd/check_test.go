package cmd

import (
	"strings"
	"testing"
)

// TestCheckReportsCapabilities runs the probe and verifies both capture
// modes are reported. Global availability depends on the host, so only the
// presence of the report lines is asserted.
func TestCheckReportsCapabilities(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "check")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !strings.Contains(out, "in-app capture: available") {
		t.Errorf("expected in-app availability line, got: %q", out)
	}
	if !strings.Contains(out, "global capture:") {
		t.Errorf("expected global capture line, got: %q", out)
	}
}
