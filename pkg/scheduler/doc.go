// Package scheduler arms in-process timers for the day's alarms, persists the
// plan so alarms missed while the process was down can be recovered at the
// next start, and re-plans on a cron schedule to pick up day rollover.
//
// All state changes go through one mutex. Each plan bumps a generation
// counter and timer callbacks carry the generation they were armed in, so a
// callback that races a re-plan is dropped instead of firing a stale alarm.
package scheduler
