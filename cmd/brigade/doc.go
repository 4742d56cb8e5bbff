// Command brigade runs the kitchen simulation and inspects its history.
//
// Subcommands:
//   - run: start customers and cooks and print a summary when the kitchen closes
//   - history: list journaled runs or replay one run's events
//   - menu: show the configured dishes
//   - config init/validate: manage the TOML configuration file
package main
