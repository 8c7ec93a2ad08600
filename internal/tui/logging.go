package tui

import "github.com/example/ibozctl/internal/log"

func (m *Model) logf(format string, args ...any) {
	log.Printf(format, args...)
}
