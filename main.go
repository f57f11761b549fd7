// Package main is the entry point for the brleaderboard CLI, which turns
// team-scoped battle-royale tournament results into individual leaderboards.
package main

import "github.com/pable/go-br-leaderboard/cmd"

func main() {
	cmd.Execute()
}
