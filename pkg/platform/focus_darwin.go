//go:build darwin

package platform

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework Cocoa -framework AppKit
#import <Cocoa/Cocoa.h>
#import <AppKit/AppKit.h>

void bringToFront(void) {
    [NSApp activateIgnoringOtherApps:YES];
}
*/
import "C"

// BringToFront activates the app so a settings window or permission
// dialog is not hidden behind other apps. Accessory apps are never
// activated on their own.
func BringToFront() {
	C.bringToFront()
}
