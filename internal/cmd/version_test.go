package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/d-kuro/localops-mcp/pkg/version"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := strings.TrimSpace(out.String()); got != version.GetVersion().String() {
		t.Errorf("output = %q, want %q", got, version.GetVersion().String())
	}
}

func TestVersionCmd_JSON(t *testing.T) {
	var out bytes.Buffer
	cmd := NewVersionCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--json"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	var info version.Info
	if err := json.Unmarshal(out.Bytes(), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out.String())
	}
	if info != version.GetVersion() {
		t.Errorf("decoded %+v, want %+v", info, version.GetVersion())
	}
}
