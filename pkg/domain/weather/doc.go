/*
Package weather advances a per-season weighted weather-state machine
(clear, rain, storm, snow, ...) one step per tick, grounded on the same
weighted-roll shape used by pkg/domain/fishing's catch selection. Its
current state is consulted by the resource-gathering domain systems'
season/weather catch-table filters.
*/
package weather
