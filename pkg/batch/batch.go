// Package batch runs several independent glox sources concurrently,
// one VM per tenant, exercising the single-tenant-per-VM contract
// spec.md §5 documents ("any multi-tenant use must instantiate one VM
// per tenant") with a real fan-out instead of leaving it as a reader's
// exercise.
package batch

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/mvarga/glox/pkg/vm"
)

// Result captures one tenant's outcome: its index in the input slice
// (results are returned in that same order, not completion order),
// its terminal VM.Result status, and everything it printed.
type Result struct {
	Index  int
	Status vm.Result
	Stdout string
	Stderr string
}

// Run compiles and interprets each of sources concurrently, each on
// its own freshly constructed *vm.VM, bounded by ctx. The returned
// slice is always len(sources) long and in input order regardless of
// completion order.
//
// Run itself never returns a non-nil error for ordinary compile or
// runtime failures — those are reported as Result.Status values. A
// non-nil error return means ctx was canceled before every tenant
// finished; in that case the returned slice still holds a Result for
// every tenant that did finish (zero-valued for those that didn't).
func Run(ctx context.Context, sources []string) ([]Result, error) {
	results := make([]Result, len(sources))

	eg, ctx := errgroup.WithContext(ctx)

	for i, source := range sources {
		i, source := i, source
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			var stdout, stderr bytes.Buffer
			tenant := vm.New()
			tenant.Stdout = &stdout
			tenant.Stderr = &stderr
			defer tenant.Close()

			status := tenant.Interpret(source)

			results[i] = Result{
				Index:  i,
				Status: status,
				Stdout: stdout.String(),
				Stderr: stderr.String(),
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// WorstStatus picks the exit-relevant status across a batch,
// deterministically: CompileError beats RuntimeErrorResult beats OK,
// regardless of which tenant produced which — a CLI reporting one
// combined exit code for a batch run needs a total order over the
// three terminal statuses, and spec.md's own ordering (65 before 70
// before 0, in severity terms "compile problems are reported before
// runtime ones") is the natural one to reuse here.
func WorstStatus(results []Result) vm.Result {
	worst := vm.OK
	for _, r := range results {
		switch r.Status {
		case vm.CompileError:
			return vm.CompileError
		case vm.RuntimeErrorResult:
			worst = vm.RuntimeErrorResult
		}
	}
	return worst
}
