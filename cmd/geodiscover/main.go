// Command geodiscover runs discovery over YAML construction scripts.
//
//	geodiscover discover triangle.yaml --focus B
//	geodiscover watch triangle.yaml --metrics-addr :9090
//	geodiscover scenario run hexagon --check
//	geodiscover constraints triangle.yaml
//	geodiscover batch a.yaml b.yaml --jobs 4
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
