package miner

/*
#include "solver_abi.h"
*/
import "C"

// MaxSolutions and ProofSize mirror the fixed-size arrays the C ABI
// uses to hand solutions back across the boundary without a second
// allocation call.
const (
	MaxSolutions = C.PCORE_MAX_SOLUTIONS
	ProofSize    = C.PCORE_PROOF_SIZE
)

// SolverParams configures a solver context: which edge-bit size to
// search, how many threads and trim rounds to use, and whether a
// stopped search may later resume from where it left off.
type SolverParams struct {
	EdgeBits    uint32
	NumThreads  uint32
	NumTrims    uint32
	AllowResume bool
}

func (p *SolverParams) toC(out *C.solver_params) {
	out.edge_bits = C.uint32_t(p.EdgeBits)
	out.num_threads = C.uint32_t(p.NumThreads)
	out.num_trims = C.uint32_t(p.NumTrims)
	if p.AllowResume {
		out.allow_resume = 1
	} else {
		out.allow_resume = 0
	}
}

func solverParamsFromC(in *C.solver_params) SolverParams {
	return SolverParams{
		EdgeBits:    uint32(in.edge_bits),
		NumThreads:  uint32(in.num_threads),
		NumTrims:    uint32(in.num_trims),
		AllowResume: in.allow_resume != 0,
	}
}

// SolverSolutions is the set of proofs a run_solver call produced.
// Each solution is a fixed-length array of edge indices.
type SolverSolutions struct {
	Solutions [][ProofSize]uint32
}

func solverSolutionsFromC(in *C.solver_solutions) SolverSolutions {
	n := int(in.num_sols)
	if n > MaxSolutions {
		n = MaxSolutions
	}
	out := SolverSolutions{Solutions: make([][ProofSize]uint32, n)}
	for i := 0; i < n; i++ {
		for j := 0; j < ProofSize; j++ {
			out.Solutions[i][j] = uint32(in.sols[i][j])
		}
	}
	return out
}

// SolverStats reports what a run_solver call did: which device ran
// it, at what edge-bit size, how many searches it attempted, and when
// the run started, ended, and last produced a solution.
type SolverStats struct {
	DeviceID         uint32
	EdgeBits         uint32
	NumSearches      uint32
	LastStartTime    int64
	LastEndTime      int64
	LastSolutionTime int64
}

func solverStatsFromC(in *C.solver_stats) SolverStats {
	return SolverStats{
		DeviceID:         uint32(in.device_id),
		EdgeBits:         uint32(in.edge_bits),
		NumSearches:      uint32(in.num_searches),
		LastStartTime:    int64(in.last_start_time),
		LastEndTime:      int64(in.last_end_time),
		LastSolutionTime: int64(in.last_solution_time),
	}
}
