// Package liquidity projects expected collections from pending invoices
// using the practice's own settlement history.
//
// The estimator is empirical: for a day horizon h, the probability that a
// pending invoice is collected within h days is the observed fraction of
// historical settlement delays that were at most h days. Probabilities
// are conditioned on the most specific key that has history, falling
// back in order:
//
//  1. the (insurer, provider) pair,
//  2. the provider alone,
//  3. the global distribution over all settled invoices.
//
// With no settlement history at all every probability is zero and every
// estimate is zero; an empty history is a valid state, not an error.
//
// The package also derives per-insurer delay statistics and the overdue
// invoice list used by the billing views.
package liquidity
