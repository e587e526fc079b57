package planner

import "github.com/slok/daysim/internal/model"

// Reconcile maps an ordering of ids onto tasks. Unknown and repeated ids are ignored and the
// tasks missing from ids are appended in their original relative order, so the result holds
// every task exactly once.
func Reconcile(tasks []*model.Task, ids []string) []*model.Task {
	byID := make(map[string]*model.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	res := make([]*model.Task, 0, len(tasks))
	used := make(map[string]bool, len(tasks))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		res = append(res, t)
	}

	for _, t := range tasks {
		if used[t.ID] {
			continue
		}
		used[t.ID] = true
		res = append(res, t)
	}

	return res
}
