package output

import (
	"fmt"
	"strings"
)

// CommandHints maps command names to related commands users might want to run next
var CommandHints = map[string][]string{
	"login":          {"config show", "wallet"},
	"signup":         {"config edit", "key generate"},
	"logout":         {"login"},
	"config show":    {"config edit", "wallet"},
	"config edit":    {"config show"},
	"wallet":         {"config show", "key show"},
	"key generate":   {"key show", "key copy"},
	"key regenerate": {"key copy"},
	"key revoke":     {"key generate"},
	"key show":       {"key copy", "key regenerate"},
}

// PrintHints prints "See also" hints for a command. No-op in quiet mode or if command has no hints.
func (p *Printer) PrintHints(command string) {
	if p.quiet {
		return
	}
	hints, ok := CommandHints[command]
	if !ok || len(hints) == 0 {
		return
	}

	cmds := make([]string, len(hints))
	for i, h := range hints {
		cmds[i] = "paytrackctl " + h
	}
	fmt.Fprintf(p.out, "\nSee also: %s\n", strings.Join(cmds, ", "))
}
