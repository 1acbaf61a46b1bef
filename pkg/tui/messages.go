package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Akram012388/skillissue-world/pkg/keyboard"
	skilltypes "github.com/Akram012388/skillissue-world/pkg/types/catalog"
	"github.com/Akram012388/skillissue-world/pkg/utils"
)

type tagsLoadedMsg struct {
	tags []string
}

type searchFailedMsg struct {
	key string
	err error
}

type effectsDoneMsg struct {
	outcome keyboard.Outcome
}

type clearStatusMsg struct {
	seq int
}

type resetCtrlCMsg struct{}

// SkillFormatter renders skills for the terminal (Tokyo Night)
type SkillFormatter struct {
	width         int
	nameStyle     lipgloss.Style
	selectedStyle lipgloss.Style
	metaStyle     lipgloss.Style
	commandStyle  lipgloss.Style
	headingStyle  lipgloss.Style
}

// NewSkillFormatter creates a new skill formatter
func NewSkillFormatter(width int) *SkillFormatter {
	return &SkillFormatter{
		width:         width,
		nameStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Bold(true), // Blue
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7")).Bold(true), // Purple
		metaStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("#565f89")),            // Comment
		commandStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a")),            // Green
		headingStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff")).Bold(true), // Cyan
	}
}

// SetWidth updates the width for formatting
func (f *SkillFormatter) SetWidth(width int) {
	f.width = width
}

func (f *SkillFormatter) textWidth(indent int) int {
	if f.width <= indent+10 {
		return 0
	}
	return f.width - indent
}

func (f *SkillFormatter) clip(s string, indent int) string {
	if w := f.textWidth(indent); w > 0 {
		return utils.Truncate(s, w)
	}
	return s
}

// FormatRow renders one list entry: name and stats, description, and the
// install command for agent.
func (f *SkillFormatter) FormatRow(skill skilltypes.Skill, agent skilltypes.Agent, selected bool, now time.Time) string {
	marker := "  "
	name := f.nameStyle.Render(skill.Name)
	if selected {
		marker = f.selectedStyle.Render("▸ ")
		name = f.selectedStyle.Render(skill.Name)
	}

	meta := f.metaStyle.Render(fmt.Sprintf("%s/%s · %s installs · %s",
		skill.Org, skill.Repo, utils.FormatCount(skill.Installs), utils.FormatRelativeTime(skill.LastUpdated, now)))

	lines := []string{
		marker + name + "  " + meta,
		"    " + f.clip(skill.Description, 4),
		"    " + f.commandStyle.Render("$ "+f.clip(skilltypes.ResolveCommand(skill, agent), 6)),
	}
	return strings.Join(lines, "\n")
}

// FormatDetail renders the full record of a skill with the command for every agent.
func (f *SkillFormatter) FormatDetail(skill skilltypes.Skill, agent skilltypes.Agent, now time.Time) string {
	var b strings.Builder

	b.WriteString(f.selectedStyle.Render(skill.Name))
	if skill.Featured {
		b.WriteString(" " + f.metaStyle.Render("(featured)"))
	}
	b.WriteString("\n")
	b.WriteString(f.metaStyle.Render(skill.Org+"/"+skill.Repo) + "\n\n")
	b.WriteString(skill.Description + "\n\n")

	fmt.Fprintf(&b, "Installs  %s\n", utils.FormatNumber(skill.Installs))
	fmt.Fprintf(&b, "Stars     %s\n", utils.FormatNumber(skill.Stars))
	fmt.Fprintf(&b, "Updated   %s\n", utils.FormatRelativeTime(skill.LastUpdated, now))
	if len(skill.Tags) > 0 {
		fmt.Fprintf(&b, "Tags      %s\n", strings.Join(skill.Tags, ", "))
	}

	b.WriteString("\n" + f.headingStyle.Render("Install commands") + "\n")
	for _, a := range skilltypes.KnownAgents() {
		marker := "  "
		if a == agent {
			marker = "▸ "
		}
		label := fmt.Sprintf("%-12s", a.Label())
		cmd := skilltypes.ResolveCommand(skill, a)
		if !skill.HasAgent(a) && a != skilltypes.DefaultAgent {
			label = f.metaStyle.Render(label)
		}
		b.WriteString(marker + label + " " + f.commandStyle.Render(cmd) + "\n")
	}

	b.WriteString("\n" + f.metaStyle.Render(skill.RepoURL))
	if skill.DocsURL != "" {
		b.WriteString("\n" + f.metaStyle.Render(skill.DocsURL))
	}
	return b.String()
}
