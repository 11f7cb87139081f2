package main

import (
	"log"

	"github.com/NVIDIA/text2moo/pkg/api"
)

func main() {
	if err := api.Serve(); err != nil {
		log.Fatal(err)
	}
}
