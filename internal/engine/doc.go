// Package engine holds the stateless rules that turn behavior snapshots into
// judgments: risk alerts per user and a ranked leaderboard.
//
// Every function here is pure. Results depend only on the arguments, so the
// functions are safe to call from any number of goroutines.
package engine
