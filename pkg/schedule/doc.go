// Package schedule provides schedule implementations for recurring refreshes.
//
// This package includes:
//   - Schedule interface, compatible with cron.Schedule
//   - Every() for fixed-interval schedules with sub-second precision
//   - Cron() and ParseCron() for cron expressions and descriptors
package schedule
