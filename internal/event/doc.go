// Package event defines the Event record shared by the scraper and the
// catalog, keyed by the (name, game) pair.
package event
