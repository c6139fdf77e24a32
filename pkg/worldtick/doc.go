/*
Package worldtick drives the domain systems' tick(worldTime) calls from a
single goroutine, serialized with actor-invoked apply() calls only by each
domain system's own internal gate.

Driver runs a ticker-driven loop with a stopCh, times each cycle with
metrics.NewTimer, and fans out to a fixed list of per-system tick calls
that log and continue past errors instead of aborting the cycle.
*/
package worldtick
