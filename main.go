package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/ByLCY/bookprint/cmd"
)

const version = "0.3.0"

func main() {
	root := cmd.NewRootCmd()

	// fang 负责 --version、补全、man page，并在收到信号时取消 context（serve 依赖它优雅退出）
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
