package main

import "github.com/dmtruong/rightsizer/cmd"

func main() {
	cmd.Execute()
}
