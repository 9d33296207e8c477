package agent

import "fmt"

// Fallback artifacts keep a stage from completing empty-handed when
// the model call fails. The run is still reported as degraded through
// logs, but downstream stages have something to retrieve against.

func fallbackPlan(prompt string) string {
	return fmt.Sprintf(`# Project Plan for: %s

## Error Notice
There was an issue generating the detailed project plan. Please try again or contact support.

## Basic Project Overview
Project: %s

## Next Steps
- Review the project requirements
- Define technical specifications
- Create development timeline
- Identify resource needs

*This is a fallback plan. A detailed plan should be generated once the issue is resolved.*
`, prompt, prompt)
}

func fallbackStageDoc(stageName, prompt string) string {
	return fmt.Sprintf(`# %s for: %s

## Error Notice
There was an issue generating the %s content. Please try again.

## Next Steps
- Retry this stage
- Check service configuration and quota
`, stageName, prompt, stageName)
}
