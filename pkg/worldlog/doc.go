/*
Package worldlog implements the append-only, per-actor text log that is
the simulation's one external logging surface.

Each stream (one per actor, plus one global stream) buffers its lines on
a channel drained by that stream's own goroutine, so callers never block
on a slow disk write. A stream's drain goroutine is the only writer of
its file: it appends each formatted line to a rotating file.

Line format and rotation size come from the external-interfaces
contract: lines look like `HH:mm:ss.fff|TYPE key=value key=value …`,
and a per-actor log file rotates once it would exceed 75 MiB.
*/
package worldlog
