// SPDX-License-Identifier: MPL-2.0

// Package resolver locates resource files by walking precedence-ordered
// search tiers built from the registry's named lists.
//
// An absolute-looking name is tried exactly once and never consults a
// tier. Otherwise the base directory is tried first, then the temporary
// search path, then any caller tiers, then the standard path unless it is
// disabled. The first regular file that opens wins.
//
// Help lookup layers the help naming conventions and the locale on top of
// the same walk; see Resolver.Help.
package resolver
