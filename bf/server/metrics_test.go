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
	"testing"
	"time"
)

func TestLoadSnapshotIsZeroValueBeforeSamplerStarts(t *testing.T) {
	snap := loadSnapshot()
	if snap.rps != 0 || snap.maxConn10min != 0 {
		t.Errorf("expected zero-value snapshot, got %+v", snap)
	}
}

func TestMetricsSamplerPublishesPeakConnections(t *testing.T) {
	stop := make(chan struct{})
	defer close(stop)
	startMetricsSampler(stop)

	atomic.AddInt64(&totalRequests, 5)
	atomic.AddInt64(&activeConnections, 2)
	defer atomic.AddInt64(&activeConnections, -2)

	time.Sleep(1200 * time.Millisecond)

	snap := loadSnapshot()
	if snap.maxConn10min < 2 {
		t.Errorf("maxConn10min = %d, want >= 2", snap.maxConn10min)
	}
}
