/*
Package persistence saves and loads a simulation's full state as a ZIP
archive: one manifest.json plus one JSON chunk per subsystem (world.json,
reservations.json, clock.json, inventory.json, ...). Only the manifest
carries a format version, which Load checks; chunks have none of their
own.

A single JSON snapshot blob doesn't fit here: a simulation tick has
many independent subsystems rather than one state struct, so each
subsystem saves and loads its own chunk behind a shared manifest.
*/
package persistence
