// Package config loads the run configuration file (config.yaml).
//
// Top-level types:
//   - Config{Source, Year, BRT, Rail, PeerCities, Inflation, Estimates, Regression}
//   - SourceConfig: kind (csv|clickhouse|postgres|sqlite), csv paths of the service, expense
//     and train extracts, dsn or dsn_env, and the query returning each extract
//   - Estimate: a published cost estimate (annual cost in year-of-expenditure dollars,
//     revenue hours, years from the base year)
//
// Load(path) reads the YAML file, applies defaults (year 2022, brt RB/Active, rail HR, 3%
// inflation, the elevated option estimate, opex on train and extra car hours), resolves
// relative csv paths against the directory of the file, then validates.
package config
