//go:build windows

package platform

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"github.com/arthur-debert/iconfolio/pkg/logging"
	"golang.org/x/sys/windows"
)

const (
	shcneUpdateDir    = 0x00001000
	shcneAssocChanged = 0x08000000
	shcnfIDList       = 0x0000
	shcnfPathW        = 0x0005
	shcnfFlush        = 0x1000
	shgfiIcon         = 0x000000100
	shgfiLargeIcon    = 0x000000000
	shgfiSmallIcon    = 0x000000001
	shgfiUseFileAttrs = 0x000000010
	invalidAttributes = 0xFFFFFFFF
)

var (
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procSHChangeNotify = shell32.NewProc("SHChangeNotify")
	procSHGetFileInfoW = shell32.NewProc("SHGetFileInfoW")
	procDestroyIcon    = user32.NewProc("DestroyIcon")
	procGetACP         = kernel32.NewProc("GetACP")
)

type shFileInfo struct {
	hIcon         windows.Handle
	iIcon         int32
	dwAttributes  uint32
	szDisplayName [windows.MAX_PATH]uint16
	szTypeName    [80]uint16
}

func newHost() (*Host, error) {
	return &Host{
		Attributes:     winAttributes{},
		Shell:          &winShell{},
		ActiveCodePage: activeCodePage,
	}, nil
}

func activeCodePage() (uint32, error) {
	if err := procGetACP.Find(); err != nil {
		return 0, err
	}
	cp, _, _ := procGetACP.Call()
	if cp == 0 {
		return 0, fmt.Errorf("GetACP returned 0")
	}
	return uint32(cp), nil
}

type winAttributes struct{}

func (winAttributes) Get(path string) (uint32, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	attrs, err := windows.GetFileAttributes(p)
	if err != nil {
		return 0, fmt.Errorf("read attributes of %s: %w", path, err)
	}
	if attrs == invalidAttributes {
		return 0, fmt.Errorf("read attributes of %s: invalid attributes", path)
	}
	return attrs, nil
}

func (winAttributes) Set(path string, attrs uint32) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	if err := windows.SetFileAttributes(p, attrs); err != nil {
		return fmt.Errorf("set attributes of %s: %w", path, err)
	}
	return nil
}

type winShell struct{}

func (s *winShell) NotifyUpdateDir(path string) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return
	}
	_, _, _ = procSHChangeNotify.Call(shcneUpdateDir, shcnfPathW|shcnfFlush, uintptr(unsafe.Pointer(p)), 0)
}

func (s *winShell) NotifyAssocChanged() {
	_, _, _ = procSHChangeNotify.Call(shcneAssocChanged, shcnfIDList, 0, 0)
}

func (s *winShell) LookupIcon(path string, large bool) (bool, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return false, err
	}
	flags := uintptr(shgfiIcon | shgfiSmallIcon | shgfiUseFileAttrs)
	if large {
		flags = shgfiIcon | shgfiLargeIcon | shgfiUseFileAttrs
	}
	var info shFileInfo
	ret, _, callErr := procSHGetFileInfoW.Call(
		uintptr(unsafe.Pointer(p)),
		uintptr(AttrDirectory),
		uintptr(unsafe.Pointer(&info)),
		unsafe.Sizeof(info),
		flags,
	)
	if info.hIcon != 0 {
		_, _, _ = procDestroyIcon.Call(uintptr(info.hIcon))
	}
	if ret == 0 {
		return false, fmt.Errorf("icon lookup for %s: %v", path, callErr)
	}
	return true, nil
}

func (s *winShell) ForceSystemAttribute(path string) error {
	return s.Run("attrib", "+s", path)
}

func (s *winShell) Terminate(image string) error {
	return s.Run("taskkill", "/f", "/im", image)
}

func (s *winShell) Launch(name string, args ...string) error {
	logging.LogCommand(name, args)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", name, err)
	}
	return cmd.Process.Release()
}

func (s *winShell) Run(name string, args ...string) error {
	logging.LogCommand(name, args)
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = &syscall.SysProcAttr{HideWindow: true}
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, out)
	}
	return nil
}

func (s *winShell) Open(path string) error {
	return s.Launch("explorer.exe", path)
}
