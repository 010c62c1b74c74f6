// Package result defines the outcome model shared by every plugin operation.
//
// An outcome is a Result carrying a Code from a closed set. Each code has a
// stable numeric value and a display message:
//
//	Success                   0
//	InvalidArgument        -100
//	NotInitialized         -400
//	AlreadyInitialized     -401
//	InvalidPluginID        -410
//	InvalidPluginDuplicateID -411
//	InvalidPluginProvider  -412
//	InvalidPluginAssembly  -413 (reserved)
//	NoPluginsLoaded        -420
//
// Control flow must depend on the code only, never on message text. Code
// values can be turned into Go errors with Result.Err, and matched with
// errors.Is:
//
//	if err := res.Err("registry.Load"); errors.Is(err, result.InvalidPluginID) {
//		...
//	}
package result
