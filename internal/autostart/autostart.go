// Package autostart registers the tray service to start on login.
package autostart

import (
	"fmt"
	"strings"
	"text/template"
)

// Label names the login item on every platform
const Label = "com.dosinput.agent"

// Args are the arguments the login item passes to the executable
var Args = []string{"run"}

const macLaunchAgentPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
    <key>Label</key>
    <string>{{.Label}}</string>
    <key>ProgramArguments</key>
    <array>
        <string>{{.ExecutablePath}}</string>
{{- range .Args}}
        <string>{{.}}</string>
{{- end}}
    </array>
    <key>RunAtLoad</key>
    <true/>
    <key>KeepAlive</key>
    <false/>
</dict>
</plist>
`

const xdgDesktopEntry = `[Desktop Entry]
Type=Application
Name=dosinput
Comment=Host input translation for emulated DOS PCs
Exec={{.Command}}
X-GNOME-Autostart-enabled=true
`

var templates = map[string]*template.Template{
	"darwin": template.Must(template.New("plist").Parse(macLaunchAgentPlist)),
	"xdg":    template.Must(template.New("desktop").Parse(xdgDesktopEntry)),
}

// Command returns the command line the login item runs, quoting the executable path
func Command(execPath string) string {
	return fmt.Sprintf(`"%s" %s`, execPath, strings.Join(Args, " "))
}

// render produces the login item file for goos. Anything but darwin gets an XDG entry.
func render(goos, execPath string) (string, error) {
	tmpl := templates["xdg"]
	if goos == "darwin" {
		tmpl = templates["darwin"]
	}

	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		Label          string
		ExecutablePath string
		Args           []string
		Command        string
	}{Label, execPath, Args, Command(execPath)})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// LoginItem exposes Enable, Disable and IsEnabled as one toggle
type LoginItem struct{}

// IsEnabled reports whether auto-start is enabled
func (LoginItem) IsEnabled() bool { return IsEnabled() }

// SetEnabled enables or disables auto-start
func (LoginItem) SetEnabled(enabled bool) error {
	if enabled {
		return Enable()
	}
	return Disable()
}
