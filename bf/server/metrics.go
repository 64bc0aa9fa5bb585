/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/
package server

import (
	"sync/atomic"
	"time"
	"unsafe"
)

// activeConnections and totalRequests are the only hot-path counters;
// everything else is derived from them by the background sampler.
var activeConnections int64
var totalRequests int64

type metricsSnapshot struct {
	rps          float64
	maxConn10min int64
}

var currentSnapshot unsafe.Pointer // *metricsSnapshot

func loadSnapshot() *metricsSnapshot {
	p := atomic.LoadPointer(&currentSnapshot)
	if p == nil {
		return &metricsSnapshot{}
	}
	return (*metricsSnapshot)(p)
}

// startMetricsSampler runs one background goroutine that turns the raw
// atomic counters into a requests/sec average and a 10-minute peak
// connection count, published as a single atomically-swapped snapshot.
func startMetricsSampler(stop <-chan struct{}) {
	snap := &metricsSnapshot{maxConn10min: 0}
	atomic.StorePointer(&currentSnapshot, unsafe.Pointer(snap))

	go func() {
		var prevRequests int64

		const rpsBuckets = 10
		rpsBuf := [rpsBuckets]float64{}
		rpsIdx := 0

		const connBuckets = 600
		connBuf := [connBuckets]int64{}
		connIdx := 0

		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				curRequests := atomic.LoadInt64(&totalRequests)
				delta := curRequests - prevRequests
				prevRequests = curRequests
				rpsBuf[rpsIdx%rpsBuckets] = float64(delta)
				rpsIdx++
				rpsCount := rpsBuckets
				if rpsIdx < rpsBuckets {
					rpsCount = rpsIdx
				}
				rpsSum := float64(0)
				for i := 0; i < rpsCount; i++ {
					rpsSum += rpsBuf[i]
				}

				curConn := atomic.LoadInt64(&activeConnections)
				connBuf[connIdx%connBuckets] = curConn
				connIdx++
				maxConn := curConn
				maxCount := connBuckets
				if connIdx < connBuckets {
					maxCount = connIdx
				}
				for i := 0; i < maxCount; i++ {
					if connBuf[i] > maxConn {
						maxConn = connBuf[i]
					}
				}

				atomic.StorePointer(&currentSnapshot, unsafe.Pointer(&metricsSnapshot{
					rps:          rpsSum / float64(rpsCount),
					maxConn10min: maxConn,
				}))
			}
		}
	}()
}
