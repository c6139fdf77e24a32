/*
Package foraging implements wild-resource gathering following the same
active-resource + timer + weighted-catch + skill-xp shape as
pkg/domain/fishing, generalized from spot/depth filtering to spot/season
filtering: spots become active with a weighted, season/weather-filtered
find, deplete over a number of gathers, then go dormant and schedule their
own respawn.
*/
package foraging
