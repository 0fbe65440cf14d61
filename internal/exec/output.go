package exec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	errUtils "github.com/kompos-io/kompos/errors"
)

// WriteOutput sends rendered results to stdout, or to the context's output
// file. File writes take a lock next to the target so concurrent invocations
// sharing an output directory do not interleave.
func WriteOutput(ctx ExecutionContext, content string) error {
	if ctx.OutputFile == "" {
		fmt.Fprint(os.Stdout, content)
		return nil
	}

	if dir := filepath.Dir(ctx.OutputFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errUtils.Wrapf(err, "creating output directory %s", dir)
		}
	}

	lock := flock.New(ctx.OutputFile + ".lock")
	if err := lock.Lock(); err != nil {
		return errUtils.Wrapf(err, "locking output file %s", ctx.OutputFile)
	}
	defer lock.Unlock()

	if err := os.WriteFile(ctx.OutputFile, []byte(content), 0o644); err != nil {
		return errUtils.Wrapf(err, "writing output file %s", ctx.OutputFile)
	}
	ctx.logger().Info("results written", "file", ctx.OutputFile)
	return nil
}
