// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "unsafe"

// HeapProvider is a Provider backed by one mmap/munmap round trip per page
// (CreateFileMapping/MapViewOfFile on Windows), intended for hosted tests,
// sanitizer runs, or any environment where a full host heap is available
// and per-page syscalls are acceptable. It tracks every live page in a set
// for precise, order-independent freeing — the same role the teacher's own
// a.regs map[*page]struct{} plays for its (variably sized) mmap regions.
//
// The zero value is ready to use.
type HeapProvider struct {
	live map[unsafe.Pointer]struct{}
}

// AllocPage implements Provider.
func (h *HeapProvider) AllocPage() (unsafe.Pointer, bool) {
	if trace {
		defer func() { println("slaballoc: HeapProvider.AllocPage") }()
	}
	p, err := mmapPage()
	if err != nil {
		return nil, false
	}

	if h.live == nil {
		h.live = map[unsafe.Pointer]struct{}{}
	}
	h.live[p] = struct{}{}

	b := unsafe.Slice((*byte)(p), PageSize)
	for i := range b {
		b[i] = 0
	}
	return p, true
}

// DeallocPage implements Provider.
func (h *HeapProvider) DeallocPage(p unsafe.Pointer) {
	if _, ok := h.live[p]; !ok {
		debugAssert(false, "slaballoc: HeapProvider.DeallocPage: pointer not from this provider, or already freed")
		return
	}

	delete(h.live, p)
	munmapPage(p) // best-effort; a failed munmap here is not recoverable
}

// Live reports the number of pages currently checked out. Test
// introspection only.
func (h *HeapProvider) Live() int { return len(h.live) }

// Close unmaps every page still checked out. It is not required before
// letting a HeapProvider go out of scope — the OS reclaims the mappings
// when the process exits — but tests use it to assert no leaked pages
// remain, and long-running hosts may prefer it to releasing pages eagerly.
func (h *HeapProvider) Close() {
	for p := range h.live {
		munmapPage(p)
		delete(h.live, p)
	}
}
