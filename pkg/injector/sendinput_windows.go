//go:build windows

package injector

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	moduser32     = windows.NewLazySystemDLL("user32.dll")
	procSendInput = moduser32.NewProc("SendInput")
)

const (
	inputKeyboard    = 1
	keyeventfKeyup   = 0x0002
	keyeventfUnicode = 0x0004
)

// keybdInput mirrors the Win32 KEYBDINPUT structure inside an INPUT union.
// The trailing padding brings the struct up to sizeof(INPUT), whose largest
// union member is MOUSEINPUT, on 64-bit Windows.
type keybdInput struct {
	Type      uint32
	_         uint32 // union alignment
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad to sizeof(INPUT)
}

// sendInputKeyer injects keystrokes as KEYEVENTF_UNICODE down/up pairs, so
// any character of the probe alphabet reaches the focused window without
// virtual-key translation.
type sendInputKeyer struct{}

func newPlatformKeyer() (Keyer, error) {
	return &sendInputKeyer{}, nil
}

func (k *sendInputKeyer) SendKeystroke(ch rune) error {
	inputs := []keybdInput{
		{Type: inputKeyboard, Scan: uint16(ch), Flags: keyeventfUnicode},
		{Type: inputKeyboard, Scan: uint16(ch), Flags: keyeventfUnicode | keyeventfKeyup},
	}

	sent, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if sent != uintptr(len(inputs)) {
		return fmt.Errorf("SendInput delivered %d of %d events: %v", sent, len(inputs), err)
	}

	return nil
}
