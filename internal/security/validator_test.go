package security

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/d-kuro/localops-mcp/internal/errors"
)

func TestNewDefaultValidator(t *testing.T) {
	v := NewDefaultValidator()

	if v == nil {
		t.Fatal("NewDefaultValidator returned nil")
	}

	if len(v.blockedPaths) != 0 || len(v.blockedCommands) != 0 {
		t.Errorf("default validator should block nothing, got paths=%v commands=%v", v.blockedPaths, v.blockedCommands)
	}
}

func TestRestrictedPolicy(t *testing.T) {
	v := NewValidator(RestrictedPolicy())

	expectedBlockedCommands := []string{
		"sudo", "su", "chmod", "chown", "rm", "rmdir", "dd", "mkfs", "fdisk", "mount", "umount",
	}
	if len(v.blockedCommands) != len(expectedBlockedCommands) {
		t.Errorf("expected %d blocked commands, got %d", len(expectedBlockedCommands), len(v.blockedCommands))
	}

	if err := v.ValidateCommand("rm -rf /tmp/x"); err == nil {
		t.Error("expected rm to be blocked")
	}
	if err := v.ValidateCommand("echo hello"); err != nil {
		t.Errorf("expected echo to be allowed, got %v", err)
	}
}

func TestWithAllowedCommands(t *testing.T) {
	commands := []string{"ls", "git*"}
	v := NewDefaultValidator().WithAllowedCommands(commands)

	// Verify commands are copied, not referenced
	commands[0] = "modified"
	if v.allowedCommands[0] == "modified" {
		t.Error("allowed commands should be copied, not referenced")
	}

	tests := []struct {
		name    string
		command string
		wantErr bool
	}{
		{"exact match", "ls -lah", false},
		{"glob match", "git status", false},
		{"absolute binary", "/usr/bin/git log", false},
		{"not allowed", "cat file.txt", true},
		{"empty", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCommand(tt.command)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCommand(%q) error = %v, wantErr %v", tt.command, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCommand_ErrorCategories(t *testing.T) {
	v := NewValidator(Policy{BlockedCommands: []string{"sudo"}})

	err := v.ValidateCommand("")
	if !errors.Is(err, errors.ErrValidation) {
		t.Errorf("empty command should be a validation error, got %v", err)
	}

	err = v.ValidateCommand("sudo ls")
	if !errors.Is(err, errors.ErrSecurity) {
		t.Errorf("blocked command should be a security error, got %v", err)
	}
}

func TestSanitizePath(t *testing.T) {
	home := t.TempDir()
	v := NewDefaultValidator()
	v.homeDir = func() (string, error) { return home, nil }

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"home only", "~", home, false},
		{"home relative", "~/notes/todo.txt", filepath.Join(home, "notes", "todo.txt"), false},
		{"absolute", filepath.Join(home, "a", "..", "b"), filepath.Join(home, "b"), false},
		{"relative", "file.txt", filepath.Join(cwd, "file.txt"), false},
		{"tilde user form untouched", "~other/file", filepath.Join(cwd, "~other", "file"), false},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.SanitizePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SanitizePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SanitizePath(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix-style absolute paths")
	}

	root := t.TempDir()
	allowed := filepath.Join(root, "allowed")
	blocked := filepath.Join(allowed, "secret")

	v := NewValidator(Policy{
		AllowedPaths: []string{allowed},
		BlockedPaths: []string{blocked},
	})

	tests := []struct {
		name    string
		path    string
		wantErr string
	}{
		{"inside allowed", filepath.Join(allowed, "file.txt"), ""},
		{"allowed root", allowed, ""},
		{"blocked subtree", filepath.Join(blocked, "key.pem"), "path is blocked"},
		{"sibling with shared prefix", allowed + "-other/file.txt", "path not allowed"},
		{"outside", filepath.Join(root, "elsewhere"), "path not allowed"},
		{"relative", "relative/path", "path must be absolute"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePath(tt.path)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidatePath(%q) unexpected error: %v", tt.path, err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("ValidatePath(%q) error = %v, want containing %q", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath_SymlinkIntoBlocked(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on windows")
	}

	root := t.TempDir()
	secret := filepath.Join(root, "secret")
	if err := os.MkdirAll(secret, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	link := filepath.Join(root, "link")
	if err := os.Symlink(secret, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	v := NewValidator(Policy{BlockedPaths: []string{secret}})
	if err := v.ValidatePath(link); err == nil {
		t.Error("expected symlink into blocked directory to be rejected")
	}
}
