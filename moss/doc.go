// Package moss implements a client for the MOSS similarity-detection service
// at Stanford, replacing the official Perl submission script.
//
// A Client accumulates source files and submits them over MOSS's plain-text
// TCP protocol, returning the URL of the hosted report. ReportFetcher then
// snapshots that page and mirrors the full report, including the pairwise
// match frames, onto local disk. Hosted reports expire after roughly two
// weeks, so mirroring is the default.
package moss
