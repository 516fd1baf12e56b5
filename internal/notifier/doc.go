// Package notifier provides notification interfaces and implementations
// for newly catalogued events.
//
// The notifier package supports posting announcements to a Discord webhook
// and a dry-run implementation that prints to stdout. Notification failures
// are never fatal to a sync cycle.
package notifier
