// Package observability provides structured logging and the formatted output used by the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/career-guide/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// contentWidth is the usable width inside a box
	contentWidth = boxWidth - 4
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content. Long lines wrap.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", contentWidth, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, contentWidth) {
			fmt.Fprintf(p.out, "│ %-*s │\n", contentWidth, wrapped)
		}
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// wrap splits line on spaces so no piece exceeds width runes. Continuation
// lines keep the line's indentation plus four spaces. A single word longer
// than width is cut.
func wrap(line string, width int) []string {
	if len([]rune(line)) <= width {
		return []string{line}
	}

	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	cont := indent + "    "

	var out []string
	current := indent
	for _, word := range strings.Fields(line) {
		candidate := word
		if strings.TrimSpace(current) != "" {
			candidate = " " + word
		}
		if len([]rune(current+candidate)) > width && strings.TrimSpace(current) != "" {
			out = append(out, current)
			current = cont
			candidate = word
		}
		current += candidate
		for len([]rune(current)) > width {
			r := []rune(current)
			out = append(out, string(r[:width]))
			current = cont + string(r[width:])
		}
	}
	return append(out, current)
}

// PrintProfile outputs the normalized profile guidance was generated for.
func (p *Printer) PrintProfile(profile types.Profile) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Skills:    %s\n", strings.Join(profile.Skills(), ", ")))
	sb.WriteString(fmt.Sprintf("Interests: %s\n", strings.Join(profile.Interests(), ", ")))
	sb.WriteString(fmt.Sprintf("Education: %s\n", profile.Education()))
	sb.WriteString(fmt.Sprintf("Goal:      %s", profile.Goal()))

	p.printBox("PROFILE", sb.String())
}

// PrintRecommendation outputs job roles, resume tips and next steps.
func (p *Printer) PrintRecommendation(rec *types.Recommendation) {
	if rec == nil {
		return
	}

	var sb strings.Builder
	writeList(&sb, "Job Roles", rec.JobRoles, "•")
	sb.WriteString("\n")
	writeList(&sb, "Resume Tips", rec.ResumeTips, "•")
	sb.WriteString("\n")
	writeList(&sb, "Next Steps", rec.NextSteps, "")

	p.printBox("CAREER GUIDANCE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRules outputs the rule names that fired for a profile.
func (p *Printer) PrintRules(names []string) {
	if len(names) == 0 {
		return
	}
	p.printBox("MATCHED RULES", strings.Join(names, "\n"))
}

// PrintCatalog outputs the selectable interests, education levels and goals.
func (p *Printer) PrintCatalog(catalog types.Catalog) {
	var sb strings.Builder
	writeList(&sb, "Interests", catalog.Interests, "•")
	sb.WriteString("\n")

	levels := make([]string, len(catalog.EducationLevels))
	for i, e := range catalog.EducationLevels {
		levels[i] = string(e)
	}
	writeList(&sb, "Education Levels", levels, "•")
	sb.WriteString("\n")

	goals := make([]string, len(catalog.Goals))
	for i, g := range catalog.Goals {
		goals[i] = string(g)
	}
	writeList(&sb, "Goals", goals, "•")

	p.printBox("CATALOG", strings.TrimSuffix(sb.String(), "\n"))
}

// writeList writes a titled list. An empty bullet numbers the items instead.
func writeList(sb *strings.Builder, title string, items []string, bullet string) {
	sb.WriteString(title + ":\n")
	if len(items) == 0 {
		sb.WriteString("  (none)\n")
		return
	}
	for i, item := range items {
		if bullet == "" {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, item))
			continue
		}
		sb.WriteString(fmt.Sprintf("  %s %s\n", bullet, item))
	}
}
