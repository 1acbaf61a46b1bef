package catalog

// ResolveCommand returns the install command to show for agent. It falls back
// to the default agent's command when the agent has none or is unknown, so the
// result is non-empty for every validated skill.
func ResolveCommand(skill Skill, agent Agent) string {
	if cmd := skill.Commands.For(agent); cmd != "" {
		return cmd
	}
	return skill.Commands.ClaudeCode
}
