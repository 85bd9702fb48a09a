// Package manager is the session controller between the host application
// and the inference engine. It is structured into small files by concern:
//
//   - manager.go: core Manager type, constructor, simple getters, Close.
//   - config.go: ManagerConfig and package defaults.
//   - types.go: generation session and outcome types.
//   - errors.go: coded errors (IsNoModel, IsInvalidArgument).
//   - load.go / unload.go: engine handle lifecycle.
//   - generate.go: GenerateResponse, StopGeneration and the session worker.
//   - emitter.go / sink.go: single-subscriber event relay and its channel sink.
//   - stats.go: model stats and performance metrics.
//   - metrics.go: Prometheus collectors.
//   - sanity.go: startup checks.
//
// At most one engine handle is live. Each generation session owns its own
// cancellable context; StopGeneration, UnloadModel, LoadModel and a newer
// GenerateResponse cancel it, and the worker honours that at the next token.
// Events reach the subscriber through the Emitter, whose single goroutine is
// the only place subscriber changes and deliveries happen.
package manager
