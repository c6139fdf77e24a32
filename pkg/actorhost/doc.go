/*
Package actorhost drives one actor's continuous sense-plan-act loop:
snapshot the world, evaluate a schedule, ask a planner for a plan,
choose the next runnable step, gate on cooldowns, acquire reservations,
wait out the step's duration, execute it, commit the resulting effect
batch, dispatch post-commit effects, and release reservations.

Host runs one goroutine per actor; the loop paces itself with
interruptible sleeps rather than a ticker, and a stopCh provides
cooperative shutdown. Its collaborators are the world store, the
reservation service, a planner and an executor registry, plus an
optional effects dispatcher, schedule evaluator and event logger.
*/
package actorhost
