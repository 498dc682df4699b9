// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "unsafe"

// cache is one per size class: it owns a singly linked list of slabs, all
// sharing objSize/align (invariant I6). New slabs are inserted at head and
// the list is searched head-first, so the most recently created slab stays
// hottest — this ordering is load-bearing, not cosmetic: it is what makes
// "free an object in an old, now-non-head slab, then allocate" come back
// from the new slab rather than reviving the old one (spec §4.3, scenario
// 4 of the end-to-end tests).
type cache struct {
	objSize uint16
	align   uint16
	head    *slabHeader
	reclaim bool // optional empty-slab reclamation, off by default
}

func newCache(objSize, align uint16) *cache {
	return &cache{objSize: objSize, align: align}
}

// allocate walks the slab list head-first; on the first slab with spare
// capacity it pops a slot. On exhaustion it asks provider for a fresh page,
// initializes a slab in it, links the slab at the head, and allocates the
// first slot from it. It returns (nil, false) on provider OOM or on the
// (practically unreachable, for the fixed size classes) slab-init failure.
func (c *cache) allocate(provider Provider) (unsafe.Pointer, bool) {
	for hdr := c.head; hdr != nil; hdr = hdr.next {
		if p := slabAllocate(hdr); p != nil {
			return p, true
		}
	}

	page, ok := provider.AllocPage()
	if !ok {
		return nil, false
	}

	hdr := initSlab(page, int(c.objSize), int(c.align))
	if hdr == nil {
		// Unreachable for any of the nine standard size classes against a
		// 4096-byte page, but honored per spec §4.3 step 3 / §7.
		provider.DeallocPage(page)
		return nil, false
	}

	hdr.next = c.head
	c.head = hdr

	p := slabAllocate(hdr)
	return p, p != nil
}

// free walks the list until the owning slab is found (by slabContains) and
// delegates the free to it. ptr not belonging to any slab in this cache is
// a caller bug (foreign pointer / double free): debug-assert, but never
// crash a release build.
func (c *cache) free(provider Provider, ptr unsafe.Pointer) {
	var prev *slabHeader
	for hdr := c.head; hdr != nil; hdr = hdr.next {
		if slabContains(hdr, ptr) {
			slabFree(hdr, ptr)
			if c.reclaim && slabIsEmpty(hdr) {
				c.unlink(provider, prev, hdr)
			}
			return
		}
		prev = hdr
	}

	debugAssert(false, "slaballoc: cache.free: pointer does not belong to any slab in this cache")
}

// unlink removes hdr from the list (prev is hdr's predecessor, or nil if
// hdr is the head) and returns its page to provider. Only called when
// c.reclaim is enabled; reclamation is optional per spec §4.2/§4.3.
func (c *cache) unlink(provider Provider, prev, hdr *slabHeader) {
	if prev == nil {
		c.head = hdr.next
	} else {
		prev.next = hdr.next
	}
	provider.DeallocPage(slabPageBase(hdr))
}
