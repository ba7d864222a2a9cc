/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/eflrscan/cmd/eflrscan/cmd"
	"github.com/ssargent/eflrscan/pkg/di"
)

func main() {
	container := di.NewContainer()

	cmd.SetContainer(container)

	cmd.Execute()
}
