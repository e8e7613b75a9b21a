//go:build darwin

package permissions

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#import <ApplicationServices/ApplicationServices.h>
#import <Foundation/Foundation.h>

int checkAccessibilityPermission(int prompt) {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: prompt ? @YES : @NO};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import "errors"

// ErrAccessibilityDenied is returned when the process is not trusted for
// accessibility. Some keyboard layouts need it for global shortcuts.
var ErrAccessibilityDenied = errors.New("accessibility permission not granted (System Settings → Privacy & Security → Accessibility)")

// CheckAccessibility reports whether the app is trusted without prompting.
func CheckAccessibility() bool {
	return C.checkAccessibilityPermission(0) == 1
}

// EnsureAccessibility checks accessibility trust and shows the system
// prompt when it is missing.
func EnsureAccessibility() error {
	if CheckAccessibility() {
		return nil
	}
	C.checkAccessibilityPermission(1)
	return ErrAccessibilityDenied
}
