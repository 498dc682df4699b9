// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import (
	"fmt"
	"os"
	"unsafe"
)

// Allocator is a fixed array of per-size-class caches sitting in front of a
// single, owned Provider. It dispatches a (size, align) request to the
// smallest cache that fits, per spec §4.4.
//
// Allocator is single-threaded: nothing in this package takes a lock, and
// concurrent use from multiple goroutines without external synchronization
// is undefined behavior, just as it would be for a freestanding kernel
// allocator with no interrupt-safe wrapper.
type Allocator struct {
	provider Provider
	caches   [len(SizeClasses)]*cache
}

// New takes ownership of provider and returns a ready-to-use Allocator.
func New(provider Provider) *Allocator {
	a := &Allocator{provider: provider}
	for i, c := range SizeClasses {
		a.caches[i] = newCache(c, c)
	}
	return a
}

// Provider exposes the allocator's page provider for test introspection
// (e.g. checking HeapProvider.Live() or StaticPool.Available() after a
// sequence of Alloc/Dealloc calls). It must not be used to bypass the
// Allocator — calling AllocPage/DeallocPage directly on it while the
// Allocator is also in use will corrupt the allocator's bookkeeping.
func (a *Allocator) Provider() Provider { return a.provider }

// Alloc resolves layout to a cache and returns one object from it, or nil
// on any of: unsupported size (> 2048), unsupported alignment (> 2048 or
// no class satisfies both size and align), or provider OOM. There is no
// out-of-band error: every failure mode surfaces as a nil pointer, per
// spec §6/§7.
func (a *Allocator) Alloc(layout Layout) unsafe.Pointer {
	if trace {
		defer func() {
			fmt.Fprintf(os.Stderr, "slaballoc: Alloc(%+v)\n", layout)
		}()
	}

	idx, ok := classIndex(layout.Size, layout.Align)
	if !ok {
		return nil
	}

	p, ok := a.caches[idx].allocate(a.provider)
	if !ok {
		return nil
	}
	return p
}

// Dealloc returns ptr to the allocator. ptr must be nil (a no-op, per spec
// §7's "invalid free" policy) or have been produced by a prior Alloc call
// with this exact layout — dealloc resolves the same (size, align) -> cache
// mapping Alloc used, so a mismatched layout routes to the wrong cache and
// is undefined behavior from the caller's perspective (spec §4.4's hard
// contract).
func (a *Allocator) Dealloc(ptr unsafe.Pointer, layout Layout) {
	if trace {
		defer func() {
			fmt.Fprintf(os.Stderr, "slaballoc: Dealloc(%p, %+v)\n", ptr, layout)
		}()
	}

	if ptr == nil {
		return
	}

	idx, ok := classIndex(layout.Size, layout.Align)
	if !ok {
		debugAssert(false, "slaballoc: Dealloc: layout does not resolve to any cache")
		return
	}

	a.caches[idx].free(a.provider, ptr)
}
