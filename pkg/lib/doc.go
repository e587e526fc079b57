// Package lib provides a Go SDK to simulate work days programmatically.
//
// It wires the same planner, execution engine and day-end memory used by the
// daysim CLI, without shelling out to the binary.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{GeminiAPIKey: os.Getenv("GEMINI_API_KEY")})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	report, err := client.RunDay(ctx, lib.RunDayOpts{Planner: lib.PlannerLLM})
//	fmt.Println(report.Lesson)
//
// # Planners
//
//   - [PlannerLLM]: Gemini drafts an order, a critique pass may force one refinement,
//     and delays trigger a replan. Requires an API key.
//   - [PlannerGreedy]: shortest job first, no network required.
//
// # Memory
//
// Every LLM day appends a lesson, only the last five are kept and fed to the next plans.
// Lessons and day results live in a SQLite database, by default ~/.daysim/daysim.db.
package lib
