/*
Package social composes pkg/domain/relationship's per-dimension edges
into an aggregate NPC social standing: a single reputation score per
actor, for callers that care about "is this actor generally well-liked"
rather than any one relationship dimension. Within this module only
cmd/simcore constructs a Standing; no other package reads it.

Additive on top of the relationship model: the score aggregates
relationship edges and replaces no single friendship value.
*/
package social
