package main

import "github.com/jsphweid/tablab/cmd"

func main() {
	cmd.Execute()
}
