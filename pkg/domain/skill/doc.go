/*
Package skill tracks each actor's experience and level in every skill
(fishing, farming, mining, foraging, ranching, ...), implementing
effects.SkillSystem. Experience accumulates per (actor, skill) pair and
level is recomputed from a shared threshold table on every grant.
*/
package skill
