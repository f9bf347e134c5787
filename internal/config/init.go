package config

import (
	"fmt"
	"os"
)

// template is the starter configuration written by the init command. Every
// value shown is the default, so users can delete any line without changing
// behavior.
const template = `# lapwatch configuration
storage:
  # Where the session database and mutation journal live.
  dir: "~/.lapwatch"
  session_file: "session.db"
  journal_file: "journal.db"

tick:
  # Clock resolution in run mode. The display shows hundredths, so 10ms is
  # the natural cadence; raise it to trade smoothness for less wakeups.
  interval: "10ms"

autosave:
  # Periodic safety save while running, on top of save-after-mutation.
  interval: "5s"

server:
  # Control and observability HTTP listener for run mode.
  enabled: true
  addr: "127.0.0.1:7600"
  metrics: true

journal:
  # Record completed mutations for the history command.
  enabled: true

logging:
  level: "info"   # debug | info | warn | error
  format: "text"  # text | json
`

// WriteDefault writes the starter configuration to path. An existing file
// is only overwritten with force.
func WriteDefault(path string, force bool) error {
	if path == "" {
		path = DefaultPath
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}
