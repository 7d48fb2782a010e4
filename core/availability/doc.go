// Package availability resolves which dates of a set of recurring plans are
// bookable within a requested range.
//
// For each plan an Evaluator visits candidate civil dates in ascending order.
// A date produces a model.Slot when it is a valid weekday of the plan, lies
// on or after the lead-time floor, its window has not already ended, no
// merged blackout covers the whole window and the plan's capacity policy
// still has room after existing bookings (and, for duration based policies,
// blacked out time) are subtracted.
package availability
