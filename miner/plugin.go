// Package miner loads and drives an external proof-of-work solver: a
// shared library implementing five C-ABI symbols, loaded dynamically
// by file path and called behind a thin Go handle.
package miner

/*
#cgo LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdlib.h>
#include "solver_abi.h"
*/
import "C"

import (
	"fmt"
	"unsafe"
)

// PluginLibrary holds one loaded solver plugin and its five resolved
// symbols, grounded directly on cequihash's cgo/C-header pattern for
// reaching native code, extended with dlopen so the library path is a
// runtime value rather than something fixed at compile time.
type PluginLibrary struct {
	// LibFullPath is the file path the plugin was loaded from.
	LibFullPath string

	handle unsafe.Pointer

	createSolverCtx    C.create_solver_ctx_fn
	destroySolverCtx   C.destroy_solver_ctx_fn
	runSolver          C.run_solver_fn
	stopSolver         C.stop_solver_fn
	fillDefaultParams  C.fill_default_params_fn
}

// LoadPlugin dlopens the shared library at libFullPath and resolves
// its five required symbols. Returns ErrPluginNotFound if the library
// itself cannot be loaded, or ErrSymbolNotFound naming the missing
// symbol if the library is missing one of the five.
func LoadPlugin(libFullPath string) (*PluginLibrary, error) {
	cPath := C.CString(libFullPath)
	defer C.free(unsafe.Pointer(cPath))

	handle := C.dlopen(cPath, C.RTLD_NOW)
	if handle == nil {
		return nil, fmt.Errorf("%w: %s: %s", ErrPluginNotFound, libFullPath, C.GoString(C.dlerror()))
	}

	sym := func(name string) (unsafe.Pointer, error) {
		cName := C.CString(name)
		defer C.free(unsafe.Pointer(cName))
		C.dlerror()
		p := C.dlsym(handle, cName)
		if errMsg := C.dlerror(); errMsg != nil {
			return nil, fmt.Errorf("%w: %s: %s", ErrSymbolNotFound, name, C.GoString(errMsg))
		}
		return p, nil
	}

	createPtr, err := sym("create_solver_ctx")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	destroyPtr, err := sym("destroy_solver_ctx")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	runPtr, err := sym("run_solver")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	stopPtr, err := sym("stop_solver")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}
	fillPtr, err := sym("fill_default_params")
	if err != nil {
		C.dlclose(handle)
		return nil, err
	}

	return &PluginLibrary{
		LibFullPath:       libFullPath,
		handle:            handle,
		createSolverCtx:   C.create_solver_ctx_fn(createPtr),
		destroySolverCtx:  C.destroy_solver_ctx_fn(destroyPtr),
		runSolver:         C.run_solver_fn(runPtr),
		stopSolver:        C.stop_solver_fn(stopPtr),
		fillDefaultParams: C.fill_default_params_fn(fillPtr),
	}, nil
}

// Unload closes the underlying shared library. The PluginLibrary must
// not be used afterward.
func (p *PluginLibrary) Unload() {
	if p.handle != nil {
		C.dlclose(p.handle)
		p.handle = nil
	}
}

func (p *PluginLibrary) createCtx(params *SolverParams) unsafe.Pointer {
	var cParams C.solver_params
	params.toC(&cParams)
	ctx := C.pcore_call_create_solver_ctx(p.createSolverCtx, &cParams)
	return unsafe.Pointer(ctx)
}

func (p *PluginLibrary) destroyCtx(ctx unsafe.Pointer) {
	C.pcore_call_destroy_solver_ctx(p.destroySolverCtx, (*C.solver_ctx)(ctx))
}

func (p *PluginLibrary) runSolverCall(ctx unsafe.Pointer, header []byte, nonce uint64, rng uint32) (SolverSolutions, SolverStats, uint32) {
	var cSols C.solver_solutions
	var cStats C.solver_stats

	var headerPtr *C.uint8_t
	if len(header) > 0 {
		headerPtr = (*C.uint8_t)(unsafe.Pointer(&header[0]))
	}

	status := C.pcore_call_run_solver(
		p.runSolver,
		(*C.solver_ctx)(ctx),
		headerPtr,
		C.uint32_t(len(header)),
		C.uint64_t(nonce),
		C.uint32_t(rng),
		&cSols,
		&cStats,
	)

	return solverSolutionsFromC(&cSols), solverStatsFromC(&cStats), uint32(status)
}

func (p *PluginLibrary) stopCall(ctx unsafe.Pointer) {
	C.pcore_call_stop_solver(p.stopSolver, (*C.solver_ctx)(ctx))
}

func (p *PluginLibrary) fillDefaults() SolverParams {
	var cParams C.solver_params
	C.pcore_call_fill_default_params(p.fillDefaultParams, &cParams)
	return solverParamsFromC(&cParams)
}
