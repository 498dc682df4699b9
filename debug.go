// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package slaballoc

// debugAssert panics with msg when cond is false and the slaballocdebug
// build tag is set; it is a no-op otherwise. Every call site documents a
// caller-contract violation (double free, foreign pointer, free-stack
// overflow) that release builds must tolerate without crashing, per the
// error-handling design: such violations are undefined behavior, not
// reported errors, and a release build may leak rather than panic.
func debugAssert(cond bool, msg string) {
	if debugChecks && !cond {
		panic(msg)
	}
}
