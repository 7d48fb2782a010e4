// Package calendar anchors plan time-of-day windows to civil dates in a fixed
// zone and steps dates by calendar or business day.
//
// Day arithmetic works on model.Date values so that daylight-saving
// transitions can never move a candidate date; instants are only produced by
// Anchor, which reads the time of day in the calendar zone.
package calendar
