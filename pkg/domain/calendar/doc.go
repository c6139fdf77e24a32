/*
Package calendar derives season and day-of-week from a types.WorldTime
snapshot. It owns no state of its own; pkg/clock already computes season
name and day-of-year, so this package only adds the day-of-week
projection consulted by pkg/domain/schedule and the resource systems'
season filters.
*/
package calendar
