// Package history keeps a SQLite ledger of processing outcomes so past runs
// can be inspected without scraping logs.
package history
