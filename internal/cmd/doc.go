// Package cmd provides the command-line interface implementation for
// canvasmoss.
//
// Each subcommand lives in its own file with a constructor that returns a
// *cobra.Command; root.go assembles them into the CLI. Commands resolve
// configuration through internal/config, build their logger, and call into
// the submission and moss packages. Errors surface at this layer as a fatal
// log line and a non-zero exit.
package cmd
