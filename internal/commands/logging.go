package commands

import (
	"strings"

	"github.com/goliatone/go-devsync/internal/logging"
	"github.com/goliatone/go-devsync/pkg/interfaces"
)

// CommandLogger returns a logger for the command handlers of module, scoped
// under devsync.commands.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		return logging.CommandsLogger(provider)
	}
	logger := logging.ModuleLogger(provider, "devsync.commands."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
