/*
Package relationship owns the affinity graph between entities and the
item-gift affinity lookup consulted when a relationship op omits an
explicit delta.

Gift affinities are supplied as strings of the form "relationshipId:delta"
attached to item definitions by the external loader contract (out of
scope); this package only consumes an already-parsed table.
*/
package relationship
