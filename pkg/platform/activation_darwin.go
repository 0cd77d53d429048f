//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa
#import <Cocoa/Cocoa.h>

void setAccessoryPolicy(void) {
    [NSApp setActivationPolicy:NSApplicationActivationPolicyAccessory];
}
*/
import "C"
import "log"

// SetAccessory hides the Dock icon so the app lives in the menu bar only
func SetAccessory() {
	log.Println("[PLATFORM] Running as menu bar accessory")
	C.setAccessoryPolicy()
}
