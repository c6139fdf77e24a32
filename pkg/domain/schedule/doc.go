/*
Package schedule evaluates an actor's schedule blocks against the current
world time, implementing actorhost.ScheduleEvaluator: matching the
schedule block to the actor's current day/season/hour as a stateless
per-call evaluation, since there is no background assignment cycle to
run.
*/
package schedule
