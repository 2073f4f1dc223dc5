// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides JSON Pointer utilities for OpenAPI document
// traversal and reference rewriting.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// pointers incrementally without allocating intermediate strings. Use [Get]
// to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("paths")
//	path.Push("/pets")     // escaped to "~1pets"
//	path.PushIndex(0)
//	_ = path.String()      // "#/paths/~1pets/0"
//
// # Pointers
//
// [SplitPointer], [Escape] and [Unescape] implement RFC 6901 tokens for
// local references. [IsWithin] and [Rebase] move nested references when a
// subtree is inlined at a new location:
//
//	pathutil.Rebase("#/components/schemas/Foo/bar", "#/components/schemas/Foo", "#/x") // "#/x/bar"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans output file paths for security,
// and [CheckSegment] validates module and schema names used as file names.
package pathutil
