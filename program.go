// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package essl

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/gogpu/essl/diag"
	"github.com/gogpu/essl/ir"
)

// StageError reports the failure of one stage of a program.
type StageError struct {
	Index  int
	Shader ir.ShaderType
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("essl: stage %d (%s): %v", e.Index, e.Shader, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// CompileProgram compiles the stages of a program concurrently. Results are
// in the order of stages; the entry of a stage that failed holds whatever
// Compile returned for it. The returned error joins one StageError per
// failed stage. Cancelling ctx stops waiting for stages still running.
func CompileProgram(ctx context.Context, stages []*ir.Tree, opts Options) ([]*Result, error) {
	if _, err := opts.resolve(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	results := make([]*Result, len(stages))
	errs := make([]error, len(stages))
	if len(stages) == 0 {
		return results, nil
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultOptions().Workers
	}
	workers = min(workers, len(stages))
	pool := worker.NewDynamicWorkerPool(workers, 256, 1*time.Second)

	var wg sync.WaitGroup
	for i, tree := range stages {
		wg.Add(1)
		idx := i
		stage := tree
		pool.SubmitTask(worker.Task{
			ID: idx,
			Do: func() (_ any, err error) {
				defer wg.Done()
				defer func() {
					if r := recover(); r != nil {
						err = panicError(r)
						errs[idx] = err
					}
				}()
				if err := ctx.Err(); err != nil {
					errs[idx] = err
					return nil, err
				}
				res, err := Compile(stage, opts)
				results[idx] = res
				errs[idx] = err
				return res, err
			},
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var failed []error
	for i, err := range errs {
		if err == nil {
			continue
		}
		shader := ir.ShaderType(0)
		if stages[i] != nil {
			shader = stages[i].ShaderType
		}
		failed = append(failed, &StageError{Index: i, Shader: shader, Err: err})
	}
	diag.Logger().Debug("essl: program compiled", "stages", len(stages), "failed", len(failed), "workers", workers)
	return results, errors.Join(failed...)
}

// panicError turns a value recovered from a stage into an error. Errors,
// such as *ir.InternalError, stay reachable through errors.As.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("essl: compiler panic: %w", err)
	}
	return fmt.Errorf("essl: compiler panic: %v", r)
}
