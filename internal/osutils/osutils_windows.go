//go:build windows

package osutils

import (
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"unsafe"

	"go.uber.org/zap"
	"golang.org/x/sys/windows"

	"dosinput/internal/input"
)

var (
	user32                     = windows.NewLazySystemDLL("user32.dll")
	procGetAsyncKeyState       = user32.NewProc("GetAsyncKeyState")
	procGetKeyState            = user32.NewProc("GetKeyState")
	procGetKeyboardLayoutNameW = user32.NewProc("GetKeyboardLayoutNameW")
)

// Virtual key codes of the modifier keys
const (
	vkCapital  = 0x14
	vkLWin     = 0x5B
	vkRWin     = 0x5C
	vkLShift   = 0xA0
	vkRShift   = 0xA1
	vkLControl = 0xA2
	vkRControl = 0xA3
	vkLMenu    = 0xA4
	vkRMenu    = 0xA5
)

// KL_NAMELENGTH
const klNameLength = 9

// vkModifiers maps each held modifier key to the host flags it sets
var vkModifiers = []struct {
	vk   uintptr
	mask input.HostModifierMask
}{
	{vkLShift, input.HostLeftShift | input.HostShift},
	{vkRShift, input.HostRightShift | input.HostShift},
	{vkLControl, input.HostLeftControl | input.HostControl},
	{vkRControl, input.HostRightControl | input.HostControl},
	{vkLMenu, input.HostLeftOption | input.HostOption},
	{vkRMenu, input.HostRightOption | input.HostOption},
	{vkLWin, input.HostLeftCommand | input.HostCommand},
	{vkRWin, input.HostRightCommand | input.HostCommand},
}

// CurrentModifiers returns the modifier keys held right now, in host flags
func CurrentModifiers() input.HostModifierMask {
	var mask input.HostModifierMask
	for _, m := range vkModifiers {
		state, _, _ := procGetAsyncKeyState.Call(m.vk)
		if state&0x8000 != 0 {
			mask |= m.mask
		}
	}
	// Low bit of GetKeyState is the toggle state
	if state, _, _ := procGetKeyState.Call(vkCapital); state&1 != 0 {
		mask |= input.HostCapsLock
	}
	return mask
}

// CurrentInputMethod returns the KLID of the active keyboard layout, e.g. "00000409"
func CurrentInputMethod() (string, error) {
	buf := make([]uint16, klNameLength)
	ret, _, err := procGetKeyboardLayoutNameW.Call(uintptr(unsafe.Pointer(&buf[0])))
	if ret == 0 {
		return "", fmt.Errorf("GetKeyboardLayoutNameW: %w", err)
	}
	return strings.ToUpper(windows.UTF16ToString(buf)), nil
}

// IsAdmin checks if the current process has administrative privileges
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// EnsureFirewallRule makes sure emulation runtimes on other machines can reach the
// UDP port, creating an inbound rule with UAC elevation when it is missing.
func EnsureFirewallRule(port int, logger *zap.Logger) error {
	const ruleName = "dosinput Emulator Link"
	logger = logger.Named("firewall")

	checkCmd := exec.Command("netsh", "advfirewall", "firewall", "show", "rule", "name="+ruleName)
	output, err := checkCmd.CombinedOutput()
	outputStr := string(output)

	if err == nil && strings.Contains(outputStr, ruleName) {
		if strings.Contains(outputStr, fmt.Sprintf("%d", port)) && strings.Contains(outputStr, "UDP") {
			logger.Debug("rule already present", zap.Int("port", port))
			return nil
		}
		logger.Info("rule exists with a different port, updating", zap.Int("port", port))
	} else {
		logger.Info("rule not found, creating", zap.Int("port", port))
	}

	psCommand := fmt.Sprintf(
		"Remove-NetFirewallRule -DisplayName '%s' -ErrorAction SilentlyContinue; New-NetFirewallRule -DisplayName '%s' -Direction Inbound -LocalPort %d -Protocol UDP -Action Allow -Profile Private,Domain",
		ruleName, ruleName, port,
	)

	if IsAdmin() {
		cmd := exec.Command("powershell", "-NoProfile", "-Command", psCommand)
		if output, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("create firewall rule: %w (output: %s)", err, string(output))
		}
		logger.Info("rule created", zap.Int("port", port))
		return nil
	}

	// Not elevated: ShellExecute with the runas verb triggers UAC
	verbPtr, _ := syscall.UTF16PtrFromString("runas")
	exePtr, _ := syscall.UTF16PtrFromString("powershell.exe")
	argPtr, _ := syscall.UTF16PtrFromString(fmt.Sprintf("-NoProfile -WindowStyle Hidden -Command \"%s\"", psCommand))

	var showCmd int32 = 0 // SW_HIDE
	if err := windows.ShellExecute(0, verbPtr, exePtr, argPtr, nil, showCmd); err != nil {
		return fmt.Errorf("launch elevated powershell: %w", err)
	}
	logger.Info("UAC elevation requested for firewall rule", zap.Int("port", port))
	return nil
}
