/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/ftbuffer/cmd/ftbuffer/cmd"

func main() {
	cmd.Execute()
}
