package miner

import (
	"sync"
	"unsafe"
)

// SolverCtx is an opaque handle to a solver's internal search state,
// created by SolverHandle.CreateCtx and freed by DestroyCtx.
type SolverCtx struct {
	ptr unsafe.Pointer
}

// SolverHandle drives one loaded solver plugin. create_solver_ctx,
// destroy_solver_ctx, run_solver, and fill_default_params are
// serialized through callMu because the plugin is not required to be
// thread-safe across those calls. stop_solver is deliberately left
// out of that lock: run_solver can block for an entire mining
// interval, and a watchdog must be able to cancel it without waiting
// on callMu to free up.
type SolverHandle struct {
	lib *PluginLibrary

	callMu sync.Mutex
	stopMu sync.Mutex
}

// NewSolverHandle loads the solver plugin at libFullPath and resolves
// its five ABI symbols.
func NewSolverHandle(libFullPath string) (*SolverHandle, error) {
	lib, err := LoadPlugin(libFullPath)
	if err != nil {
		return nil, err
	}
	return &SolverHandle{lib: lib}, nil
}

// Close unloads the underlying plugin library. The handle and any
// outstanding SolverCtx or StopHandle derived from it must not be
// used afterward.
func (h *SolverHandle) Close() {
	h.callMu.Lock()
	defer h.callMu.Unlock()
	h.lib.Unload()
}

// DefaultParams asks the plugin to fill in its own recommended
// SolverParams.
func (h *SolverHandle) DefaultParams() SolverParams {
	h.callMu.Lock()
	defer h.callMu.Unlock()
	return h.lib.fillDefaults()
}

// CreateCtx allocates a new solver context with the given parameters.
func (h *SolverHandle) CreateCtx(params SolverParams) *SolverCtx {
	h.callMu.Lock()
	defer h.callMu.Unlock()
	return &SolverCtx{ptr: h.lib.createCtx(&params)}
}

// DestroyCtx frees a solver context. ctx must not be used afterward.
func (h *SolverHandle) DestroyCtx(ctx *SolverCtx) {
	h.callMu.Lock()
	defer h.callMu.Unlock()
	h.lib.destroyCtx(ctx.ptr)
}

// RunSolver searches for solutions over [nonce, nonce+rng) against
// header, blocking until the plugin returns or Stop cancels the
// search from another goroutine. The returned status is the raw code
// run_solver handed back.
func (h *SolverHandle) RunSolver(ctx *SolverCtx, header []byte, nonce uint64, rng uint32) (SolverSolutions, SolverStats, uint32) {
	h.callMu.Lock()
	defer h.callMu.Unlock()
	return h.lib.runSolverCall(ctx.ptr, header, nonce, rng)
}

// Stop cancels a search in progress on ctx. Safe to call while
// RunSolver is blocked on ctx from another goroutine.
func (h *SolverHandle) Stop(ctx *SolverCtx) {
	h.stopMu.Lock()
	defer h.stopMu.Unlock()
	h.lib.stopCall(ctx.ptr)
}

// StopHandle carries only the stop capability, cloned out of a
// SolverHandle so a watchdog task can hold it independently and cancel
// a blocked RunSolver call without going through the SolverHandle
// itself.
type StopHandle struct {
	lib *PluginLibrary
	mu  *sync.Mutex
}

// CloneStop returns a StopHandle sharing this SolverHandle's stop lock
// and underlying plugin, safe to hand to a separate goroutine.
func (h *SolverHandle) CloneStop() *StopHandle {
	return &StopHandle{lib: h.lib, mu: &h.stopMu}
}

// Stop cancels a search in progress on ctx.
func (s *StopHandle) Stop(ctx *SolverCtx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib.stopCall(ctx.ptr)
}
