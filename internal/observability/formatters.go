// Package observability provides logging and formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cutgen/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintManifest outputs a human-readable summary of a generated dataset.
func (p *Printer) PrintManifest(m *types.Manifest) {
	if m == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:      %s\n", m.RunID))
	sb.WriteString(fmt.Sprintf("Policy:   %s\n", m.Policy))
	sb.WriteString(fmt.Sprintf("Seed:     %d\n", m.Seed))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Stacks:   %d (%d items)\n", m.Counts.Stacks, m.Counts.Items))
	sb.WriteString(fmt.Sprintf("Plates:   %d (%d empty)\n", m.Counts.Plates, m.Counts.EmptyPlates))
	sb.WriteString(fmt.Sprintf("Defects:  %d\n", m.Counts.Defects))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Batch:    %s\n", m.Files.Batch))
	sb.WriteString(fmt.Sprintf("Defects:  %s", m.Files.Defects))
	if m.Files.Xlsx != "" {
		sb.WriteString(fmt.Sprintf("\nWorkbook: %s", m.Files.Xlsx))
	}

	p.printBox("GENERATED DATASET", sb.String())
}

// PrintStacks outputs the first stacks of a dataset with their items in cutting order.
func (p *Printer) PrintStacks(ds *types.Dataset) {
	if ds == nil || len(ds.Stacks) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total stacks: %d\n\n", len(ds.Stacks)))

	count := min(len(ds.Stacks), maxItemsToShow)
	for i := 0; i < count; i++ {
		stack := ds.Stacks[i]
		dims := make([]string, 0, len(stack))
		for _, item := range stack {
			dims = append(dims, fmt.Sprintf("%dx%d", item.Length, item.Width))
		}
		sb.WriteString(fmt.Sprintf("#%d  %s", i, strings.Join(dims, " → ")))
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ds.Stacks) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more stacks", len(ds.Stacks)-maxItemsToShow))
	}

	p.printBox("STACKS", sb.String())
}

// PrintViolations outputs any invariant violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	count := min(len(violations.Violations), maxItemsToShow)
	for i := 0; i < count; i++ {
		v := violations.Violations[i]
		details := v.Details
		if len(details) > 45 {
			details = details[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Type))
		sb.WriteString(fmt.Sprintf("  %s", details))
		if i < count-1 {
			sb.WriteString("\n\n")
		}
	}

	if len(violations.Violations) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n\n... and %d more violations", len(violations.Violations)-maxItemsToShow))
	}

	p.printBox("INVARIANT VIOLATIONS", sb.String())
}
