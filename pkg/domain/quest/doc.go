/*
Package quest tracks each actor's progress through quest objectives and
pays out rewards on completion, implementing effects.QuestSystem.

types.QuestOp carries an absolute objective progress value rather than a
delta: applying the same (questId, objectiveId, progress) more than once
is a no-op, since progress is clamped to be monotonically non-decreasing
and completion rewards are paid exactly once, on the transition into the
complete status.
*/
package quest
