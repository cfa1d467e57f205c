package main

import (
	"github.com/mj1618/listscan/cmd"

	_ "github.com/mj1618/listscan/internal/platform/sim"
)

func main() {
	cmd.Execute()
}
