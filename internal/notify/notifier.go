// Package notify provides Notifier implementations for the session
// engine's outbound event feed.
package notify

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/hearthcook/internal/domain"
	"github.com/hammamikhairi/hearthcook/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.Notifier = (*ConsoleNotifier)(nil)
	_ domain.Notifier = (*LogNotifier)(nil)
)

var (
	normalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	urgentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// PrintFunc is a function used to print formatted output. Matches the
// signature of fmt.Printf.
type PrintFunc func(format string, a ...interface{})

// ConsoleNotifier writes notifications to stdout with lipgloss styling.
type ConsoleNotifier struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewConsoleNotifier creates a stdout-based notifier. If printFn is
// nil, fmt.Printf is used.
func NewConsoleNotifier(log *logger.Logger, printFn PrintFunc) *ConsoleNotifier {
	if printFn == nil {
		printFn = func(format string, a ...interface{}) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &ConsoleNotifier{log: log, printFn: printFn}
}

// Notify prints a normal notification.
func (n *ConsoleNotifier) Notify(ctx context.Context, message string) error {
	n.log.Debug("notify: %s", message)
	n.printFn("%s", normalStyle.Render(message))
	return nil
}

// NotifyUrgent prints an urgent notification in bold red.
func (n *ConsoleNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Debug("notify-urgent: %s", message)
	n.printFn("%s", urgentStyle.Render(message))
	return nil
}

// LogNotifier routes notifications into the logger only. Used when the
// engine runs headless.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier creates a log-only notifier.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the message at info level.
func (n *LogNotifier) Notify(ctx context.Context, message string) error {
	n.log.Info("event: %s", message)
	return nil
}

// NotifyUrgent logs the message at warn level.
func (n *LogNotifier) NotifyUrgent(ctx context.Context, message string) error {
	n.log.Warn("event: %s", message)
	return nil
}
