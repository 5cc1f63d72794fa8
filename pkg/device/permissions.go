// Package device holds the hardware ports used by the report screen: permissions,
// camera capture and location fixes, plus desktop implementations of each.
package device

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Permission names a guarded device capability.
type Permission string

const (
	PermissionCamera   Permission = "camera"
	PermissionLocation Permission = "location"
)

// PermissionStatus is the outcome of a permission request.
type PermissionStatus string

const (
	StatusGranted      PermissionStatus = "granted"
	StatusDenied       PermissionStatus = "denied"
	StatusUndetermined PermissionStatus = "undetermined"
)

// Granted reports whether the capability may be used.
func (s PermissionStatus) Granted() bool { return s == StatusGranted }

// Policy values accepted by NewPermissions.
const (
	PolicyAsk     = "ask"
	PolicyGranted = "granted"
	PolicyDenied  = "denied"
)

// Prompter asks the user questions on whatever surface hosts the screen.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
	Confirm(ctx context.Context, question string) (bool, error)
}

// Permissions resolves permission requests.
type Permissions interface {
	Request(ctx context.Context, p Permission) (PermissionStatus, error)
}

// PolicyPermissions applies a fixed policy per permission and falls back to asking
// the user for "ask" policies. A grant is remembered for the lifetime of the value.
type PolicyPermissions struct {
	mu       sync.Mutex
	policies map[Permission]string
	prompt   Prompter
	granted  map[Permission]bool
}

// NewPermissions builds a policy-driven permission resolver. Permissions without a
// policy are treated as "ask".
func NewPermissions(policies map[Permission]string, prompt Prompter) *PolicyPermissions {
	cp := make(map[Permission]string, len(policies))
	for k, v := range policies {
		cp[k] = strings.ToLower(strings.TrimSpace(v))
	}
	return &PolicyPermissions{
		policies: cp,
		prompt:   prompt,
		granted:  make(map[Permission]bool),
	}
}

// Request resolves p according to its policy.
func (pp *PolicyPermissions) Request(ctx context.Context, p Permission) (PermissionStatus, error) {
	pp.mu.Lock()
	policy, remembered := pp.policies[p], pp.granted[p]
	pp.mu.Unlock()

	switch policy {
	case PolicyGranted:
		return StatusGranted, nil
	case PolicyDenied:
		return StatusDenied, nil
	case PolicyAsk, "":
	default:
		return StatusUndetermined, fmt.Errorf("unknown %s permission policy %q", p, policy)
	}

	if remembered {
		return StatusGranted, nil
	}
	if pp.prompt == nil {
		return StatusUndetermined, nil
	}

	ok, err := pp.prompt.Confirm(ctx, permissionQuestion(p))
	if err != nil {
		return StatusUndetermined, fmt.Errorf("ask %s permission: %w", p, err)
	}
	if !ok {
		return StatusDenied, nil
	}

	pp.mu.Lock()
	pp.granted[p] = true
	pp.mu.Unlock()
	return StatusGranted, nil
}

func permissionQuestion(p Permission) string {
	switch p {
	case PermissionCamera:
		return "Permitir acesso à câmera?"
	case PermissionLocation:
		return "Permitir acesso à localização?"
	default:
		return fmt.Sprintf("Permitir acesso a %s?", p)
	}
}
