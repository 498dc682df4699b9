// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "unsafe"

// StaticPool is a Provider backed by a single, fixed-size host allocation
// carved into N page-aligned cells up front — the "static pool of N
// preallocated aligned pages" design called for when no host heap is
// available. Go always runs on a managed heap, but StaticPool still avoids
// any further allocation after construction: every AllocPage/DeallocPage
// call after NewStaticPool is a pop/push on an index stack, exactly as the
// Rust StaticPageProvider<const N: usize> this is grounded on does it.
//
// The zero value is not usable; construct with NewStaticPool.
type StaticPool struct {
	buf       []byte // raw backing storage, over-allocated for alignment
	base      uintptr
	n         int
	freeStack []int
	freeLen   int
}

// NewStaticPool returns a StaticPool with n pages available. It panics if n
// is not positive, mirroring the spec's I5 ("capacity >= 1 (init fails
// otherwise)") applied to the page count rather than the slot count.
func NewStaticPool(n int) *StaticPool {
	if n <= 0 {
		panic("slaballoc: NewStaticPool: n must be positive")
	}

	buf := make([]byte, n*PageSize+pageMask)
	base := (uintptr(unsafe.Pointer(&buf[0])) + uintptr(pageMask)) &^ uintptr(pageMask)
	freeStack := make([]int, n)
	for i := range freeStack {
		freeStack[i] = i
	}
	return &StaticPool{
		buf:       buf,
		base:      base,
		n:         n,
		freeStack: freeStack,
		freeLen:   n,
	}
}

func (p *StaticPool) pagePtr(idx int) unsafe.Pointer {
	return unsafe.Pointer(p.base + uintptr(idx)*PageSize)
}

func (p *StaticPool) indexFromPtr(ptr unsafe.Pointer) (int, bool) {
	addr := uintptr(ptr)
	total := uintptr(p.n) * PageSize
	if addr < p.base || addr >= p.base+total {
		return 0, false
	}
	off := addr - p.base
	if off%PageSize != 0 {
		return 0, false
	}
	return int(off / PageSize), true
}

// AllocPage implements Provider.
func (p *StaticPool) AllocPage() (unsafe.Pointer, bool) {
	if trace {
		defer func() { println("slaballoc: StaticPool.AllocPage") }()
	}
	if p.freeLen == 0 {
		return nil, false
	}

	p.freeLen--
	idx := p.freeStack[p.freeLen]
	ptr := p.pagePtr(idx)
	b := unsafe.Slice((*byte)(ptr), PageSize)
	for i := range b {
		b[i] = 0
	}
	return ptr, true
}

// DeallocPage implements Provider.
func (p *StaticPool) DeallocPage(ptr unsafe.Pointer) {
	idx, ok := p.indexFromPtr(ptr)
	if !ok {
		debugAssert(false, "slaballoc: StaticPool.DeallocPage: pointer not from this pool, or misaligned")
		return
	}
	if p.freeLen >= p.n {
		debugAssert(false, "slaballoc: StaticPool.DeallocPage: free stack overflow (double free)")
		return
	}

	p.freeStack[p.freeLen] = idx
	p.freeLen++
}

// Available reports how many pages remain free. Test introspection only.
func (p *StaticPool) Available() int { return p.freeLen }

// Cap reports the total number of pages the pool was constructed with.
func (p *StaticPool) Cap() int { return p.n }
