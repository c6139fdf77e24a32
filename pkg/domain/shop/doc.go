/*
Package shop executes buy/sell transactions against a shop's stock and
price table. It does not itself move currency: dispatch credits/debits
both parties' balances via the currency system once Transact reports
success. Neither Transact nor dispatch moves item stacks between
inventories.
*/
package shop
