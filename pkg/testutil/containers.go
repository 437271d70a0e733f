package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
)

const terminateTimeout = 10 * time.Second

// terminateOnCleanup stops c when the test and its subtests finish.
func terminateOnCleanup(t testing.TB, name string, c testcontainers.Container) {
	t.Helper()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), terminateTimeout)
		defer cancel()
		if err := c.Terminate(ctx); err != nil {
			t.Logf("terminate %s container: %v", name, err)
		}
	})
}
