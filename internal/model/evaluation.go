package model

// AgentSummary aggregates the day results of one agent.
type AgentSummary struct {
	AgentLabel      string
	Days            int
	TasksCompleted  int
	TotalTasks      int
	MeanSuccessRate float64
	MeanEnergyLeft  float64
}

// SummarizeResults aggregates day results per agent, keeping the order agents first appear.
func SummarizeResults(results []DayResult) []AgentSummary {
	idx := map[string]int{}
	var sums []AgentSummary
	for _, r := range results {
		i, ok := idx[r.AgentLabel]
		if !ok {
			i = len(sums)
			idx[r.AgentLabel] = i
			sums = append(sums, AgentSummary{AgentLabel: r.AgentLabel})
		}
		s := &sums[i]
		s.Days++
		s.TasksCompleted += r.TasksCompleted
		s.TotalTasks += r.TotalTasks
		s.MeanSuccessRate += r.SuccessRate
		s.MeanEnergyLeft += r.EnergyLeft
	}

	for i := range sums {
		sums[i].MeanSuccessRate /= float64(sums[i].Days)
		sums[i].MeanEnergyLeft /= float64(sums[i].Days)
	}

	return sums
}
