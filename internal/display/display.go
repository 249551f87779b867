// Package display renders session state for the terminal. Pure string
// building over snapshots; the engine never depends on it.
package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/hearthcook/internal/domain"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stateStyles = map[domain.SessionState]lipgloss.Style{
		domain.StateIdle:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		domain.StatePrepping: lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		domain.StateCooking:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		domain.StatePaused:   lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		domain.StateDone:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		domain.StateBurned:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1)
)

const progressWidth = 24

// Banner returns the startup header line.
func Banner() string {
	return titleStyle.Render("hearthcook — the pot is watching you back")
}

// Status renders the full session panel: state, progress, slots,
// mistakes, and the tail of the event log.
func Status(sess *domain.Session, recipeName string, now time.Time) string {
	var b strings.Builder

	state := sess.State.String()
	if style, ok := stateStyles[sess.State]; ok {
		state = style.Render(state)
	}

	if sess.Recipe == "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("state:"), state))
		b.WriteString(labelStyle.Render("Nothing on. Pick a recipe."))
		return panelStyle.Render(b.String())
	}

	b.WriteString(fmt.Sprintf("%s %s   %s %s\n", labelStyle.Render("state:"), state, labelStyle.Render("recipe:"), recipeName))
	b.WriteString(fmt.Sprintf("%s %s   %s %s\n", labelStyle.Render("station:"), sess.Station, labelStyle.Render("heat:"), sess.Heat))

	if sess.State == domain.StateCooking || sess.State == domain.StatePaused ||
		sess.State == domain.StateDone || sess.State == domain.StateBurned {
		b.WriteString(progressLine(sess, now))
		b.WriteString("\n")
	}

	b.WriteString(slotLines(sess.Slots))

	if sess.Mistakes > 0 {
		b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("mistakes:"), sess.Mistakes))
	}

	b.WriteString(eventLines(sess.Events, 5))

	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// Recipes renders the catalog listing.
func Recipes(list []domain.RecipeSummary) string {
	var b strings.Builder
	for _, r := range list {
		b.WriteString(fmt.Sprintf("%s  %s\n", titleStyle.Render(r.ID), r.Name))
		if r.Description != "" {
			b.WriteString(fmt.Sprintf("    %s\n", labelStyle.Render(r.Description)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// Inventory renders the item stacks.
func Inventory(items []domain.Item) string {
	if len(items) == 0 {
		return labelStyle.Render("The pack is empty.")
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString(fmt.Sprintf("%-14s %-24s %s\n", it.ID, it.Name, labelStyle.Render(fmt.Sprintf("x%d %s", it.Qty, it.Category))))
	}
	return strings.TrimRight(b.String(), "\n")
}

// progressLine draws elapsed progress against the effective duration.
func progressLine(sess *domain.Session, now time.Time) string {
	if sess.EffDuration <= 0 {
		return ""
	}
	elapsed := sess.Elapsed(now)
	ratio := float64(elapsed) / float64(sess.EffDuration)
	if ratio > 1 {
		ratio = 1
	}
	filled := int(ratio * progressWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressWidth-filled)
	return fmt.Sprintf("%s [%s] %s / %s", labelStyle.Render("cook:"), bar,
		elapsed.Round(time.Second), sess.EffDuration.Round(time.Second))
}

// slotLines lists each ingredient slot and what is bound to it.
func slotLines(slots []domain.Slot) string {
	var b strings.Builder
	for i, s := range slots {
		bound := labelStyle.Render("(empty)")
		if s.Bound() {
			bound = s.ItemID
		}
		b.WriteString(fmt.Sprintf("  %d. %-10s %s\n", i+1, s.Tag, bound))
	}
	return b.String()
}

// eventLines renders the last n event log entries.
func eventLines(events []domain.EventEntry, n int) string {
	if len(events) == 0 {
		return ""
	}
	start := 0
	if len(events) > n {
		start = len(events) - n
	}
	var b strings.Builder
	for _, e := range events[start:] {
		b.WriteString(labelStyle.Render(fmt.Sprintf("  %s %s", e.At.Format("15:04:05"), e.Text)))
		b.WriteString("\n")
	}
	return b.String()
}
