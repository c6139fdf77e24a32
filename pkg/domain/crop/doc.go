/*
Package crop implements plot harvesting following the same active-resource
+ timer + weighted-catch + skill-xp shape as pkg/domain/fishing, generalized
from spot/depth filtering to plot/season filtering: plots ripen into an
active, harvestable crop chosen by weighted roll, yield a random quantity
over a number of harvests, then go fallow and schedule their own regrowth.
*/
package crop
