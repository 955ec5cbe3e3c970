// Package main provides the canvasmoss command-line interface.
//
// canvasmoss unpacks a Canvas bulk submission export (a ZIP of per-student
// ZIPs), stages the extracted source files, and submits them to the MOSS
// similarity-detection service at Stanford. The hosted report is snapshotted
// and downloaded locally so it survives MOSS's report expiry window.
//
// The main binary supports multiple subcommands:
//   - submit: Run the full pipeline (extract, stage, send, save report)
//   - extract: Unpack a bulk export without contacting MOSS
//   - stage: Show which files a submission run would select
//   - languages: List the languages MOSS accepts
package main
