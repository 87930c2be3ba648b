package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dmitrijs2005/mailadmin/internal/client/client"
	"github.com/dmitrijs2005/mailadmin/internal/client/services"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

// printNotifier reports controller outcomes on the console.
type printNotifier struct {
	out io.Writer
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func (n *printNotifier) Success(action string) {
	fmt.Fprintln(n.out, successStyle.Render("✔ "+capitalize(action)+" done"))
}

// Failure prints "<action> failed". Validation problems add their message;
// transport detail stays in the log.
func (n *printNotifier) Failure(action string, err error) {
	msg := capitalize(action) + " failed"
	if detail := failureDetail(err); detail != "" {
		msg += ": " + detail
	}
	fmt.Fprintln(n.out, errorStyle.Render("✖ "+msg))
}

func failureDetail(err error) string {
	var cerr *services.CascadeError
	if errors.As(err, &cerr) {
		return fmt.Sprintf("%d of %d items could not be deleted, list kept", len(cerr.Failed), cerr.Items)
	}
	switch {
	case errors.Is(err, client.ErrValidation):
		if m := client.ServerMessage(err); m != "" {
			return m
		}
		_, detail, _ := strings.Cut(err.Error(), client.ErrValidation.Error()+": ")
		return detail
	case errors.Is(err, client.ErrUnauthorized):
		return "session expired, please log in"
	case errors.Is(err, client.ErrForbidden):
		if m := client.ServerMessage(err); m != "" {
			return m
		}
		return "not allowed"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable"
	}
	return ""
}

// renderTable draws a bordered table with a faint footer line.
func renderTable(headers []string, rows [][]string, footer string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	if footer != "" {
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(footer))
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(strings.Join(strings.Fields(s), " "))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
