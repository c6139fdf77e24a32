/*
Package reservation implements the priority-aware, lock-free claim
service actors use to avoid stepping on each other's targets.

Tokens live in a sync.Map guarded only by per-key compare-and-swap,
since the reservation hot path is called from every actor's loop on
every iteration and must not contend on a single mutex.

A Hard reservation is exclusive: no other actor may acquire it while
held. A Soft reservation is pre-emptible by a strictly higher-priority
Soft request from another actor; the pre-empted actor simply fails its
next acquire attempt and replans.
*/
package reservation
