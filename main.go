package main

import "github.com/pydeptools/uv-outdated/cmd"

func main() {
	cmd.Execute()
}
