/*
Package fishing implements a resource-gathering domain system: spots
that activate with a weighted, season/weather/depth-filtered catch,
deplete over a number of casts, and schedule their own respawn.

Crop, Animal, Mining, and Foraging (pkg/domain/crop, .../animal, .../mining,
.../foraging) follow the same active-resource + timer + weighted-catch +
skill-xp shape with domain-specific parameters.
*/
package fishing
