package main

import (
	"github.com/ColonelBlimp/morsechat/cmd"
	"github.com/ColonelBlimp/morsechat/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
