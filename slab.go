// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "unsafe"

const ptrSize = unsafe.Sizeof(uintptr(0))

// slabHeader lives at offset 0 of its page; it is written in place by
// initSlab and never moves. next threads the cache's intrusive slab list;
// freelistHead threads the intra-page intrusive freelist.
type slabHeader struct {
	next         *slabHeader
	freelistHead unsafe.Pointer
	inuse        uint16
	capacity     uint16
	objSize      uint16
	align        uint16
}

// headerSize is rounded up to ptrSize so the first slot is never
// sub-pointer-aligned relative to the page base, mirroring the teacher's
// own headerSize = roundup(sizeof(page), mallocAllign).
var headerSize = roundup(int(unsafe.Sizeof(slabHeader{})), int(ptrSize))

// initSlab writes a slabHeader at the base of page and builds a freelist
// covering every object slot, per spec §4.2. It returns nil if align isn't
// a power of two, exceeds PageSize, or the page is too small to fit even
// one object of the resulting size (only possible with non-standard page
// sizes; every entry in SizeClasses always fits at least one slot in a
// 4096-byte page).
func initSlab(page unsafe.Pointer, objSize, align int) *slabHeader {
	if !isPow2(align) || align > PageSize {
		return nil
	}
	if objSize < int(ptrSize) {
		objSize = int(ptrSize) // must hold a freelist pointer
	}

	hdr := (*slabHeader)(page)

	startOff := roundup(headerSize, align) // first slot offset, aligned
	if startOff >= PageSize {
		return nil
	}

	available := PageSize - startOff
	capacity := available / objSize
	if capacity == 0 {
		return nil
	}
	if capacity > 0xffff {
		capacity = 0xffff
	}

	*hdr = slabHeader{
		next:         nil,
		freelistHead: nil,
		inuse:        0,
		capacity:     uint16(capacity),
		objSize:      uint16(objSize),
		align:        uint16(align),
	}

	// Push slot addresses in reverse index order so the lowest-addressed
	// slot ends up at the freelist head — a stable, testable allocation
	// order (spec §4.2 step 7).
	for i := capacity - 1; i >= 0; i-- {
		slot := unsafe.Add(page, startOff+i*objSize)
		*(*unsafe.Pointer)(slot) = hdr.freelistHead
		hdr.freelistHead = slot
	}

	return hdr
}

// slabAllocate pops the freelist head, or returns nil if the slab is full.
func slabAllocate(hdr *slabHeader) unsafe.Pointer {
	obj := hdr.freelistHead
	if obj == nil {
		return nil
	}

	hdr.freelistHead = *(*unsafe.Pointer)(obj)
	if hdr.inuse < hdr.capacity {
		hdr.inuse++
	}
	return obj
}

// slabFree pushes ptr back onto the freelist. ptr must belong to hdr's page
// and must have been returned by slabAllocate on this same slab — the
// slab itself does not verify either precondition; the cache does, via
// slabContains, before ever calling slabFree.
func slabFree(hdr *slabHeader, ptr unsafe.Pointer) {
	*(*unsafe.Pointer)(ptr) = hdr.freelistHead
	hdr.freelistHead = ptr
	if hdr.inuse > 0 {
		hdr.inuse--
	}
}

// slabContains is the O(1) ownership test: true iff ptr's page base equals
// hdr's own page base (hdr sits at offset 0 of its page, so hdr's own
// address already *is* that page base).
func slabContains(hdr *slabHeader, ptr unsafe.Pointer) bool {
	return pageBase(uintptr(ptr)) == uintptr(unsafe.Pointer(hdr))
}

// slabIsEmpty reports whether every slot in hdr's slab is free.
func slabIsEmpty(hdr *slabHeader) bool { return hdr.inuse == 0 }

// slabPageBase returns the address of hdr's page (== hdr's own address).
func slabPageBase(hdr *slabHeader) unsafe.Pointer { return unsafe.Pointer(hdr) }
