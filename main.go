package main

import "github.com/Zero-Feather/Ust-Visualizer/cmd"

func main() {
	cmd.Execute()
}
