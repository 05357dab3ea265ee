// Package poll provides the recurring refresh timers.
//
// Scheduler arms two independent timers while live mode is on, one for the
// job snapshot and one for queue statistics, and posts a core.PollTick for
// each firing. Every arming starts a new generation; a consumer calls
// Armed with the tick's generation to drop ticks that fired before a toggle.
//
// KeepAlive pings the backend on a cron schedule regardless of live mode.
package poll
