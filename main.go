/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/sikshasathi/sathi/cmd"

func main() {
	cmd.Execute()
}
