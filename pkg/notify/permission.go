package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/borgmon/fast-alarm/pkg/store"
)

// Permission is the user's answer to showing desktop notifications
type Permission string

const (
	PermissionDefault Permission = "default" // never asked
	PermissionGranted Permission = "granted"
	PermissionDenied  Permission = "denied"
)

const permissionKey = "notificationPermission"

// ErrPermissionDenied is returned when desktop notifications are not allowed
var ErrPermissionDenied = errors.New("notification permission denied")

// Prompter asks the user whether desktop notifications may be shown
type Prompter interface {
	Prompt(ctx context.Context) (bool, error)
}

// StaticPrompter answers every prompt with the same value
type StaticPrompter bool

func (p StaticPrompter) Prompt(context.Context) (bool, error) {
	return bool(p), nil
}

// Permissions tracks the persisted notification permission.
// A denial is final: Request never prompts again after one.
type Permissions struct {
	mu       sync.Mutex
	kv       store.KV
	prompter Prompter
}

func NewPermissions(kv store.KV, prompter Prompter) *Permissions {
	return &Permissions{kv: kv, prompter: prompter}
}

// Current returns the stored permission without prompting
func (p *Permissions) Current() Permission {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentLocked()
}

// Request prompts the user if they were never asked
func (p *Permissions) Request(ctx context.Context) (Permission, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch current := p.currentLocked(); current {
	case PermissionGranted:
		return current, nil
	case PermissionDenied:
		return current, ErrPermissionDenied
	}

	allowed, err := p.prompter.Prompt(ctx)
	if err != nil {
		return PermissionDefault, fmt.Errorf("prompt for notification permission: %w", err)
	}

	answer := PermissionDenied
	if allowed {
		answer = PermissionGranted
	}
	if err := p.kv.Set(permissionKey, []byte(answer)); err != nil {
		log.Printf("[NOTIFY] Failed to store notification permission: %v", err)
	}
	log.Printf("[NOTIFY] Notification permission %s", answer)

	if answer == PermissionDenied {
		return answer, ErrPermissionDenied
	}
	return answer, nil
}

func (p *Permissions) currentLocked() Permission {
	value, err := p.kv.Get(permissionKey)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[NOTIFY] Failed to read notification permission: %v", err)
		}
		return PermissionDefault
	}

	switch perm := Permission(value); perm {
	case PermissionGranted, PermissionDenied:
		return perm
	}
	return PermissionDefault
}
