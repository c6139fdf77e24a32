/*
Package effects implements the post-commit dispatch pipeline: the set of
domain-system apply calls an ActorHost runs after a successful
WorldStore commit.

Dispatch decodes the operation kind carried by a committed effect batch
and forwards it to exactly one collaborator method, logging the
outcome. The collaborators are domain systems (inventory, currency,
shop, ...), and there is no consensus log underneath it: dispatch runs
once, locally, immediately after the commit that produced the batch.

Dispatch is not itself transactional with the commit: if a domain
system's Apply fails, that failure is logged and reported in the
operation's own result; it never rolls back the commit that already
succeeded (see the package-level Non-goals: no rollback of committed
effects).
*/
package effects
