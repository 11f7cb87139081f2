package main

import (
	"github.com/NVIDIA/text2moo/pkg/cli"
)

func main() {
	cli.Execute()
}
