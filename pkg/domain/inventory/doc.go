/*
Package inventory tracks per-owner item stacks.

Follows the shared domain-system shape: a single internal gate mutex
guarding apply/capture/applyState, no tick step (inventory has no
internal timers of its own).
*/
package inventory
