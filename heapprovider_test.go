// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "testing"

func TestHeapProviderAllocAndFree(t *testing.T) {
	var h HeapProvider
	defer h.Close()

	a, ok := h.AllocPage()
	if !ok {
		t.Fatal("alloc a failed")
	}
	if uintptr(a)%PageSize != 0 {
		t.Fatalf("page a not aligned: %p", a)
	}
	if h.Live() != 1 {
		t.Fatalf("Live() = %d, want 1", h.Live())
	}

	b, ok := h.AllocPage()
	if !ok {
		t.Fatal("alloc b failed")
	}
	if a == b {
		t.Fatal("alloc returned the same page twice")
	}
	if h.Live() != 2 {
		t.Fatalf("Live() = %d, want 2", h.Live())
	}

	h.DeallocPage(a)
	if h.Live() != 1 {
		t.Fatalf("Live() = %d, want 1 after one free", h.Live())
	}

	h.DeallocPage(b)
	if h.Live() != 0 {
		t.Fatalf("Live() = %d, want 0 after both freed", h.Live())
	}
}

func TestHeapProviderDrivesAllocator(t *testing.T) {
	var h HeapProvider
	defer h.Close()

	a := New(&h)
	layout := Layout{Size: 128, Align: 8}

	p := a.Alloc(layout)
	if p == nil {
		t.Fatal("alloc failed")
	}
	a.Dealloc(p, layout)

	p2 := a.Alloc(layout)
	if p2 != p {
		t.Fatalf("expected slot reuse across the heap provider: p=%p p2=%p", p, p2)
	}
}
