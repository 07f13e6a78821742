// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for bl2bank packages.
//
// [UniqueID] generates monotonically increasing identifiers for test
// disambiguation, such as save file names that must not collide when
// tests run in parallel.
//
// [WriteFile] and [ReadFile] wrap the os calls with t.Fatalf error
// handling for fixture setup and result checks.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no bl2bank-internal dependencies.
package testutil
