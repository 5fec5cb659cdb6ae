// Command dinephil runs the dining philosophers: philosophers sit around a
// table, each sharing a fork with either neighbour, and eat only while
// holding both forks.
//
// Every philosopher takes its forks following one global order over fork
// indexes, which rules out the circular wait of the classic problem. The
// tool can also check a seating plan for circular wait statically and export
// it as DOT, CFSMs or MiGo types for further deadlock analysis.
package main
