// Command ums is a thin CLI shell over the engine: one subcommand per
// operation plus snapshot export/import, loading and persisting state
// through a single --state-file between invocations.
package main

func main() {
	Execute()
}
