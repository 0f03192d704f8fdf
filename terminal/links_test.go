// Copyright 2022~2024 wangqi. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package terminal

import "testing"

func TestLinksAdd(t *testing.T) {
	x := newLinks()

	first := x.addLink("", "http://a")
	second := x.addLink("", "http://b")
	if first != 1 || second != 2 {
		t.Errorf("addLink: expect handles 1,2, got %d,%d\n", first, second)
	}

	// anonymous links never share a handle
	third := x.addLink("", "http://a")
	if third == first {
		t.Errorf("addLink: anonymous duplicates must get fresh handles\n")
	}

	// the same id and url share the handle
	a := x.addLink("x", "http://c")
	b := x.addLink("x", "http://c")
	if a != b {
		t.Errorf("addLink: expect shared handle for the same id, got %d and %d\n", a, b)
	}

	// same id with a different url is a different link
	c := x.addLink("x", "http://d")
	if c == a {
		t.Errorf("addLink: expect a fresh handle for a different url\n")
	}
}

func TestLinksGet(t *testing.T) {
	x := newLinks()
	num := x.addLink("id1", "http://a")

	url, id, ok := x.getLink(num)
	if !ok || url != "http://a" || id != "id1" {
		t.Errorf("getLink: expect (http://a,id1), got (%q,%q) ok=%t\n", url, id, ok)
	}

	if _, _, ok = x.getLink(99); ok {
		t.Errorf("getLink: expect a miss for an unknown handle\n")
	}
}

func TestLinksClone(t *testing.T) {
	x := newLinks()
	x.addLink("", "http://a")

	clone := x.clone()
	clone.addLink("", "http://b")

	if len(x.linkSet) != 1 || len(clone.linkSet) != 2 {
		t.Errorf("clone: expect independent link sets, got %d and %d\n", len(x.linkSet), len(clone.linkSet))
	}
}

func TestLinksReset(t *testing.T) {
	x := newLinks()
	x.addLink("", "http://a")
	x.reset()

	if len(x.linkSet) != 0 {
		t.Errorf("reset: expect an empty link set\n")
	}
	if x.addLink("", "http://b") != 1 {
		t.Errorf("reset: handles restart from 1\n")
	}
}
