// Package fx is the runtime content core of the gogpu game framework.
//
// # Overview
//
// fx loads the artifacts a game ships with and turns them into objects
// the renderer can bind:
//
//   - [github.com/gogpu/fx/effect] decodes compiled effect bundles: shaders,
//     constant-buffer layouts, parameters, techniques, passes and
//     fixed-function render states.
//   - [github.com/gogpu/fx/inputlayout] memoizes native vertex input
//     layouts per vertex shader, keyed on the ordered vertex-buffer
//     binding shape.
//   - [github.com/gogpu/fx/backend] is the dispatch layer through which
//     native objects are created on the active graphics backend.
//   - [github.com/gogpu/fx/content] reads content containers, resolves
//     serialized type names to shared type readers and caches loaded assets.
//
// # Logging
//
// fx is silent by default. Install a logger with [SetLogger]:
//
//	fx.SetLogger(slog.Default())
//
// # Errors
//
// Every decode failure aborts the whole load. Packages expose sentinel
// errors for errors.Is and typed errors carrying position context for
// errors.As.
package fx

// Version information
const (
	// Version is the current version of the library
	Version = "0.3.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 3

	// VersionPatch is the patch version
	VersionPatch = 0
)
