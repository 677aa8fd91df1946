// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

/*
Package services provides the suture.Service implementations run by the
maintain command.

  - GCService reclaims badger value-log space in every collection.
  - MergeService compacts a collection once it holds too many segments.
  - MetricsServerService serves the Prometheus registry over HTTP.

Every service returns ctx.Err() on cancellation and implements fmt.Stringer
so suture logs name it. RunOnce on the GC and merge services performs a
single pass and is what Serve calls on each tick.
*/
package services
