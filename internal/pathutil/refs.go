// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

package pathutil

// RefPrefixComponents is the pointer prefix of the shared component
// definitions. Pointers under it resolve into the definitions subtree.
const RefPrefixComponents = "#/components/"
