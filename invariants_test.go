// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import (
	"testing"
	"unsafe"
)

// checkConservation walks every slab of every cache in a and fails t if
// inuse + freelist length != capacity anywhere (invariant I2, property P7).
// Shared by bulk_test.go and fuzz_test.go so both drivers run it after every
// operation instead of only at the end.
func checkConservation(t testing.TB, a *Allocator) {
	t.Helper()
	for _, c := range a.caches {
		for hdr := c.head; hdr != nil; hdr = hdr.next {
			n := 0
			for cur := hdr.freelistHead; cur != nil; cur = *(*unsafe.Pointer)(cur) {
				n++
			}
			if int(hdr.inuse)+n != int(hdr.capacity) {
				t.Fatalf("conservation violated: inuse(%d) + freelist(%d) != capacity(%d)", hdr.inuse, n, hdr.capacity)
			}
		}
	}
}

// checkContainment fails t unless p lies inside a page that pageIsKnown
// reports as actually handed out by the provider in use, at an offset at or
// past the slab header's aligned end (property P4). layout must be the
// exact layout p was allocated with.
func checkContainment(t testing.TB, p unsafe.Pointer, layout Layout, pageIsKnown func(unsafe.Pointer) bool) {
	t.Helper()
	idx, ok := classIndex(layout.Size, layout.Align)
	if !ok {
		t.Fatalf("containment check: layout %+v does not resolve to a size class", layout)
	}

	base := unsafe.Pointer(pageBase(uintptr(p)))
	if !pageIsKnown(base) {
		t.Fatalf("pointer %p's page base %p was never handed out by the provider", p, base)
	}

	align := int(SizeClasses[idx])
	startOff := roundup(headerSize, align)
	off := uintptr(p) - uintptr(base)
	if off < uintptr(startOff) || off >= PageSize {
		t.Fatalf("pointer %p at offset %d falls outside the slab's object region [%d, %d)", p, off, startOff, PageSize)
	}
}
