package cli

import (
	"strings"
	"testing"
)

func TestRunUnknownCommand(t *testing.T) {
	err := Run([]string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	if err := Run(nil); err != nil {
		t.Fatalf("bare invocation: %v", err)
	}
}

func TestRunHelp(t *testing.T) {
	for _, arg := range []string{"help", "-h", "--help"} {
		if err := Run([]string{arg}); err != nil {
			t.Fatalf("%s: %v", arg, err)
		}
	}
}
