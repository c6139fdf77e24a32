/*
Package currency tracks per-owner currency balances, adjusted by post-commit
currency ops and shop transactions.
*/
package currency
