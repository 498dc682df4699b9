// Copyright 2024 The Slaballoc Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build slaballocdebug

package slaballoc

const debugChecksEnabled = true
