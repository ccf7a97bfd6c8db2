// Package forecast provides the capability interface for demand forecasting
// and its built-in implementations. The optimizer core depends only on the
// Forecaster interface, never on a specific forecasting algorithm.
package forecast
