// Copyright 2011 Evan Shaw. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE-MMAP-GO file.

// Modifications (c) 2024 The Slaballoc Authors.

package slaballoc

import (
	"errors"
	"os"
	"syscall"
	"unsafe"
)

// mmap on Windows is a two-step process: CreateFileMapping gets a handle,
// MapViewOfFile gets an actual pointer into memory. handleMap recovers the
// handle from the address at unmap time.
var handleMap = map[uintptr]syscall.Handle{}

func mmapPage() (unsafe.Pointer, error) {
	flProtect := uint32(syscall.PAGE_READWRITE)
	dwDesiredAccess := uint32(syscall.FILE_MAP_WRITE)

	maxSizeHigh := uint32(int64(PageSize) >> 32)
	maxSizeLow := uint32(int64(PageSize) & 0xFFFFFFFF)
	h, errno := syscall.CreateFileMapping(syscall.Handle(^uintptr(0)), nil, flProtect, maxSizeHigh, maxSizeLow, nil)
	if h == 0 {
		return nil, os.NewSyscallError("CreateFileMapping", errno)
	}

	addr, errno := syscall.MapViewOfFile(h, dwDesiredAccess, 0, 0, uintptr(PageSize))
	if addr == 0 {
		return nil, os.NewSyscallError("MapViewOfFile", errno)
	}

	if addr&uintptr(pageMask) != 0 {
		panic("slaballoc: mmap returned a misaligned page")
	}

	handleMap[addr] = h
	return unsafe.Pointer(addr), nil
}

func munmapPage(p unsafe.Pointer) error {
	addr := uintptr(p)
	// The view is unmapped first and the handle looked up afterwards; no
	// lock is taken, so handleMap is not safe for concurrent use. As soon
	// as the view is unmapped, the OS is free to hand the same addr to a
	// different mapping.
	if err := syscall.UnmapViewOfFile(addr); err != nil {
		return err
	}

	handle, ok := handleMap[addr]
	if !ok {
		return errors.New("slaballoc: unmap: unknown base address")
	}
	delete(handleMap, addr)

	return os.NewSyscallError("CloseHandle", syscall.CloseHandle(handle))
}
