package log

import (
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
)

const appStateDir = "ibozctl"

var (
	debugEnabled bool
	logFile      *os.File
)

// Setup enables debug logging into the xdg state directory. Without debug
// nothing is written anywhere, the terminal belongs to the UI.
func Setup(debug bool) error {
	debugEnabled = debug
	if !debug || logFile != nil {
		return nil
	}
	logPath, err := xdg.StateFile(filepath.Join(appStateDir, "debug.log"))
	if err != nil {
		return err
	}
	logFile, err = tea.LogToFile(logPath, appStateDir)
	return err
}

func Close() error {
	if logFile == nil {
		return nil
	}
	defer func() { logFile = nil }()
	return logFile.Close()
}

func DebugEnabled() bool {
	return debugEnabled
}

func Printf(format string, args ...any) {
	if debugEnabled {
		stdlog.Printf("DEBUG: "+format, args...)
	}
}
