// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "fmt"

type Point struct {
	x, y int
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.x, p.y)
}

// Point(this) <= Point(rhs)
func (p Point) lessEqual(rhs Point) bool {
	return p.less(rhs) || p.equal(rhs)
}

// Point(this) < Point(rhs)
func (p Point) less(rhs Point) bool {
	return p.y < rhs.y || (p.y == rhs.y && p.x < rhs.x)
}

func (p Point) equal(rhs Point) bool {
	return p.x == rhs.x && p.y == rhs.y
}

// Damage tracks the dirty cell range of the framebuffer. start and end
// are cell indexes into the flat cell storage.
type Damage struct {
	start      int
	end        int
	totalCells int
}

func (dmg *Damage) reset() {
	dmg.start = 0
	dmg.end = 0
}

func (dmg *Damage) expose() {
	dmg.start = 0
	dmg.end = dmg.totalCells
}

func (dmg *Damage) add(start, end int) {
	if end < start {
		start = 0
		end = dmg.totalCells
	}

	if dmg.start == dmg.end {
		dmg.start = start
		dmg.end = end
	} else {
		dmg.start = min(dmg.start, start)
		dmg.end = max(dmg.end, end)
	}
}

func min(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func max(x, y int) int {
	if x > y {
		return x
	}
	return y
}
