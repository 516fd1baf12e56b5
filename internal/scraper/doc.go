// Package scraper provides HTTP fetching and HTML parsing for the Genshin
// Impact and Honkai: Star Rail fandom event pages.
//
// The scraper package fetches each wiki's public event page and extracts
// event rows from the current and upcoming wikitables, cleaning names,
// normalizing image URLs through an image proxy, and deriving time windows
// from the machine-sortable duration column where the wiki publishes one.
package scraper
