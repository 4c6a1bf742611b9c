package autostart

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	plist, err := render("darwin", "/Applications/dosinput")
	if err != nil {
		t.Fatalf("render darwin: %v", err)
	}
	for _, want := range []string{"<string>" + Label + "</string>", "<string>/Applications/dosinput</string>", "<string>run</string>"} {
		if !strings.Contains(plist, want) {
			t.Errorf("Expected plist to contain %q:\n%s", want, plist)
		}
	}

	desktop, err := render("linux", "/opt/dos input/dosinput")
	if err != nil {
		t.Fatalf("render linux: %v", err)
	}
	if !strings.Contains(desktop, `Exec="/opt/dos input/dosinput" run`) {
		t.Errorf("Expected quoted Exec line:\n%s", desktop)
	}
}

func TestCommand(t *testing.T) {
	if got := Command(`C:\Program Files\dosinput.exe`); got != `"C:\Program Files\dosinput.exe" run` {
		t.Errorf("Unexpected command %s", got)
	}
}

func TestEnableDisableXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG autostart is only used on linux")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	if IsEnabled() {
		t.Fatal("Expected auto-start to start disabled")
	}
	if err := Enable(); err != nil {
		t.Fatalf("Enable failed: %v", err)
	}
	if !IsEnabled() {
		t.Error("Expected auto-start to be enabled")
	}
	if _, err := os.Stat(filepath.Join(dir, "autostart", "dosinput.desktop")); err != nil {
		t.Errorf("Expected desktop entry: %v", err)
	}
	if err := Disable(); err != nil {
		t.Fatalf("Disable failed: %v", err)
	}
	if IsEnabled() {
		t.Error("Expected auto-start to be disabled")
	}
	if err := Disable(); err != nil {
		t.Errorf("Expected second Disable to be a no-op, got %v", err)
	}
}
