package planner

import (
	"fmt"
	"strings"

	"github.com/slok/daysim/internal/model"
)

const (
	replanHistorySize = 3
	noHistoryPrompt   = "No history available (Memory Disabled or Empty)."
)

func planPrompt(tasks []*model.Task, profile model.UserProfile, digest, flaw string) string {
	var tl strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&tl, "- ID: %s | Desc: %s | Est: %dm | Priority: %d\n", t.ID, t.Description, t.EstimatedDurationMins, t.Priority)
	}

	if digest == "" {
		digest = noHistoryPrompt
	}

	var b strings.Builder
	fmt.Fprintf(&b, `You are an expert AI Scheduler. Your goal is to order these tasks to maximize completion rate.

### LEARNING FROM THE PAST (Do not repeat these mistakes)
%s

### USER PROFILE
- Work Window: %d:00 to %d:00
- Energy Dynamics: The user starts with %.0f energy. Complex tasks drain more energy.
- Fatigue Rule: If energy drops below 30, tasks take 50%% longer.

### TASKS TO SCHEDULE
%s
### INSTRUCTIONS
1. Sort the tasks in the optimal execution order.
2. Put high-energy/hard tasks EARLY in the day when energy is high.
3. Put low-priority/easy tasks LATER.

Output valid JSON following this schema:
{
    "rationale": "One sentence explaining your strategy.",
    "ordered_task_ids": ["id_1", "id_2", ...]
}
`, digest, profile.StartHour, profile.EndHour, profile.DailyEnergyCap, tl.String())

	if flaw != "" {
		fmt.Fprintf(&b, "\n### CRITICAL FEEDBACK (FIX THIS FLAW): %s\n", flaw)
	}

	return b.String()
}

func replanPrompt(tasks []*model.Task, profile model.UserProfile, currentTime int, energy float64, history []string) string {
	var tl strings.Builder
	for _, t := range tasks {
		fmt.Fprintf(&tl, "- ID: %s | Desc: %s | Est: %dm\n", t.ID, t.Description, t.EstimatedDurationMins)
	}

	return fmt.Sprintf(`WARNING: The original schedule failed. You must re-plan the REMAINING tasks.

### CURRENT STATUS
- Current Time: %s (Day ends at %d:00)
- Current Energy: %.0f

### EXECUTION HISTORY
%s

### REMAINING TASKS
%s
Output valid JSON:
{
    "rationale": "Explanation of how you recovered the schedule.",
    "ordered_task_ids": ["id_remaining_1", ...]
}
`, model.FormatClock(currentTime), profile.EndHour, energy, strings.Join(history, "\n"), tl.String())
}
