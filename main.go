package main

import "github.com/notargets/dracotools/cmd"

func main() {
	cmd.Execute()
}
