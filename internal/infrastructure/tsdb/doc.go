// Package tsdb provides an optional probe history writer backed by InfluxDB v2.
//
// Every probe result recorded by the status cache is written as a point in
// the "probe" measurement, tagged by device name and IP, so availability
// over time can be charted in Grafana or queried with Flux.
//
// Writes are batched and asynchronous. A slow or unreachable InfluxDB
// instance never blocks probing; write failures surface through the
// configured logger only.
package tsdb
