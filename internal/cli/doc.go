// Package cli implements the hoyo-event-sync command line interface: the
// scheduler (run), a one-shot extraction (scrape), and a catalog listing
// (list).
package cli
