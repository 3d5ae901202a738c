// Package votetally records vote events and ranks contestants.
//
// Every vote is an append-only event carrying its raw quantity, the
// multiplier in force and the credited quantity. The contestant running total
// is incremented in the same transaction as the insert. Free votes and
// referenced purchases carry a unique dedup key, so a repeated free vote on
// the same local day fails and a retried purchase replays the original event.
// Leaderboard ranks are computed on read.
package votetally
