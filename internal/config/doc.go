// Package config resolves the coin change service settings: listen port,
// initial denominations, default algorithm, per-request amount and time
// limits, log level and rate limiting. Values come from defaults, then
// environment variables, then a YAML file, then CLI flags, each layer
// overriding the one before it.
package config
