// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util holds small helpers shared by the propmatch packages:
// crash-safe file writes for the on-disk stores and display-width aware
// string truncation for the terminal views.
package util
