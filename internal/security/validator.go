// Package security provides path sanitizing and an optional allow/block
// policy for the paths and commands the tools touch.
package security

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/d-kuro/localops-mcp/internal/errors"
)

// Validator defines the security validation interface.
type Validator interface {
	ValidatePath(path string) error
	ValidateCommand(cmd string) error
	SanitizePath(path string) (string, error)
}

// Policy lists the allowed and blocked paths and commands. Empty allow
// lists mean "everything not blocked".
type Policy struct {
	AllowedPaths    []string
	BlockedPaths    []string
	AllowedCommands []string
	BlockedCommands []string
}

// PermissivePolicy blocks nothing.
func PermissivePolicy() Policy {
	return Policy{}
}

// RestrictedPolicy blocks system directories and privileged or destructive
// commands.
func RestrictedPolicy() Policy {
	return Policy{
		BlockedPaths: []string{
			"/etc",
			"/usr/bin",
			"/usr/sbin",
			"/sbin",
			"/bin",
			"/sys",
			"/proc",
		},
		BlockedCommands: []string{
			"sudo",
			"su",
			"chmod",
			"chown",
			"rm",
			"rmdir",
			"dd",
			"mkfs",
			"fdisk",
			"mount",
			"umount",
		},
	}
}

// DefaultValidator implements Validator on top of a Policy.
type DefaultValidator struct {
	allowedPaths    []string
	blockedPaths    []string
	allowedCommands []string
	blockedCommands []string
	homeDir         func() (string, error)
}

// NewDefaultValidator creates a validator that blocks nothing.
func NewDefaultValidator() *DefaultValidator {
	return NewValidator(PermissivePolicy())
}

// NewValidator creates a validator enforcing p.
func NewValidator(p Policy) *DefaultValidator {
	v := &DefaultValidator{homeDir: os.UserHomeDir}
	v.WithAllowedPaths(p.AllowedPaths)
	v.WithBlockedPaths(p.BlockedPaths)
	v.WithAllowedCommands(p.AllowedCommands)
	v.WithBlockedCommands(p.BlockedCommands)
	return v
}

// WithAllowedPaths sets the allowed paths for file operations.
func (v *DefaultValidator) WithAllowedPaths(paths []string) *DefaultValidator {
	v.allowedPaths = cleanPaths(paths)
	return v
}

// WithBlockedPaths adds blocked paths to the current list.
func (v *DefaultValidator) WithBlockedPaths(paths []string) *DefaultValidator {
	v.blockedPaths = append(v.blockedPaths, cleanPaths(paths)...)
	return v
}

// WithAllowedCommands sets the allowed commands for execution.
func (v *DefaultValidator) WithAllowedCommands(commands []string) *DefaultValidator {
	v.allowedCommands = make([]string, len(commands))
	copy(v.allowedCommands, commands)
	return v
}

// WithBlockedCommands adds blocked commands to the current list.
func (v *DefaultValidator) WithBlockedCommands(commands []string) *DefaultValidator {
	v.blockedCommands = append(v.blockedCommands, commands...)
	return v
}

// SanitizePath expands a leading "~", resolves the path against the
// working directory and cleans it. It does not check the policy.
func (v *DefaultValidator) SanitizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.Validation("path cannot be empty")
	}

	expanded, err := v.expandHome(path)
	if err != nil {
		return "", err
	}

	absPath, err := filepath.Abs(expanded)
	if err != nil {
		return "", errors.ValidationWithDetails("cannot resolve path", err.Error())
	}

	return filepath.Clean(absPath), nil
}

// ValidatePath checks an absolute path against the policy.
func (v *DefaultValidator) ValidatePath(path string) error {
	if !filepath.IsAbs(path) {
		return errors.Security("path must be absolute")
	}

	cleanPath := filepath.Clean(path)
	resolvedPath, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		resolvedPath = cleanPath
	}

	for _, blocked := range v.blockedPaths {
		if withinDir(resolvedPath, blocked) || withinDir(cleanPath, blocked) {
			return errors.SecurityWithDetails(
				"path is blocked",
				"path accesses restricted directory "+blocked,
			)
		}
	}

	if len(v.allowedPaths) > 0 {
		allowed := false
		for _, allowedPath := range v.allowedPaths {
			if withinDir(resolvedPath, allowedPath) {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.SecurityWithDetails(
				"path not allowed",
				"path is not in allowed directories",
			)
		}
	}

	return nil
}

// ValidateCommand checks the first word of a shell command line against
// the policy.
func (v *DefaultValidator) ValidateCommand(cmd string) error {
	if strings.TrimSpace(cmd) == "" {
		return errors.Validation("command cannot be empty")
	}

	baseName := filepath.Base(strings.Fields(cmd)[0])

	for _, blocked := range v.blockedCommands {
		if matched, _ := filepath.Match(blocked, baseName); matched {
			return errors.SecurityWithDetails(
				"command is blocked",
				"command "+baseName+" is in the blocked list",
			)
		}
	}

	if len(v.allowedCommands) > 0 {
		allowed := false
		for _, allowedCmd := range v.allowedCommands {
			if matched, _ := filepath.Match(allowedCmd, baseName); matched {
				allowed = true
				break
			}
		}
		if !allowed {
			return errors.SecurityWithDetails(
				"command not allowed",
				"command "+baseName+" is not in the allowed list",
			)
		}
	}

	return nil
}

func (v *DefaultValidator) expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return path, nil
	}

	home, err := v.homeDir()
	if err != nil {
		return "", errors.ValidationWithDetails("cannot expand home directory", err.Error())
	}

	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// withinDir reports whether path is dir or lies beneath it.
func withinDir(path, dir string) bool {
	if path == dir {
		return true
	}
	prefix := dir
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}

// cleanPaths cleans each entry and adds its symlink-resolved form when it
// differs, so resolved request paths still match.
func cleanPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		clean := filepath.Clean(p)
		out = append(out, clean)
		if resolved, err := filepath.EvalSymlinks(clean); err == nil && resolved != clean {
			out = append(out, resolved)
		}
	}
	return out
}
