//go:build !darwin

// Package platform holds the few OS hooks the tray app needs. Outside
// macOS they are no-ops.
package platform

func SetAccessory() {}

func BringToFront() {}
