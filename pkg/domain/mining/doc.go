/*
Package mining implements ore/gem node extraction following the same
active-resource + timer + weighted-catch + skill-xp shape as
pkg/domain/fishing: nodes activate with a weighted, depth-filtered ore
choice, deplete over a number of strikes, then go dormant and schedule
their own respawn.
*/
package mining
