package tui

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ormasoftchile/popup/pkg/session"
)

// Options configures how the form program is launched.
type Options struct {
	// Timeout dismisses the popup with a timeout result after this
	// duration. Zero means no timeout.
	Timeout time.Duration
	// UseTTY attaches the program to /dev/tty instead of stdin/stdout.
	// Required when the definition arrives on stdin, and when stdout
	// must stay clean for the result JSON.
	UseTTY bool
}

// Run shows the popup and blocks until it is submitted, cancelled or
// timed out. A torn-down program without an outcome reports cancelled.
func Run(sess *session.Session, opts Options) (*session.Result, error) {
	m := New(sess, opts.Timeout)

	var progOpts []tea.ProgramOption
	if opts.UseTTY {
		tty, err := os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return nil, fmt.Errorf("open terminal: %w", err)
		}
		defer tty.Close()
		progOpts = append(progOpts, tea.WithInput(tty), tea.WithOutput(tty))
	}

	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return nil, fmt.Errorf("run popup: %w", err)
	}
	fm, ok := final.(*Model)
	if !ok || fm.Result() == nil {
		return sess.Cancel(), nil
	}
	return fm.Result(), nil
}
