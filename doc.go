/*
Package stepwise replays algorithms one step at a time.

An algorithm adapter turns an input into a Trace: an ordered list of
immutable Step snapshots, each with a narration, the state of the visualized
structure, the algorithm's variables and the solution lines it executed.
A playback engine moves a cursor over the trace (play, pause, step, seek,
speed), and render templates draw the current step as an array, a linked
list, a stack or a string.

# Architecture

The core is host-agnostic. Hosts drive it through a driver.Session:

  - the terminal player (cmd/stepwise play)
  - an HTTP API with a Server-Sent Events stream of playback diffs (cmd/stepwise serve)
  - MCP tools for AI agents (cmd/stepwise mcp)

Learner progress (completed, started and favorite problems plus settings)
lives behind ports.ProgressStore, with memory, file and Redis adapters.

# Usage

	sess, err := stepwise.Open("two-sum")
	if err != nil {
		log.Fatal(err)
	}
	defer sess.Close()

	for _, step := range sess.Trace() {
		fmt.Println(step.Description)
	}
*/
package stepwise
