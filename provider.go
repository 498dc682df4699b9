// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

import "unsafe"

// Provider yields and reclaims fixed-size, page-aligned memory regions. It
// is the sole external collaborator of this package: the slab layer never
// talks to an OS or a host heap directly, only through this contract.
//
// A Provider must not block, yield, or perform I/O; AllocPage/DeallocPage
// are expected to complete in bounded time off any blocking path.
type Provider interface {
	// AllocPage returns a pointer to a PageSize-byte region aligned to
	// PageSize, and true, on success. It returns (nil, false) on
	// exhaustion (OOM). The contents of the returned page are
	// unspecified from the caller's point of view, but every Provider in
	// this package zeroes the page before returning it: the slab layer
	// writes its header before any other access and tolerates no
	// pre-existing state.
	AllocPage() (unsafe.Pointer, bool)

	// DeallocPage returns a page previously produced by AllocPage on
	// this same Provider. Calling it with a pointer this Provider did
	// not produce, or that has already been deallocated, is a caller
	// bug: implementations debug-assert on it (see debugAssert) and are
	// permitted to silently ignore it in release builds.
	DeallocPage(p unsafe.Pointer)
}
