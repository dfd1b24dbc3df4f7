package main

import "github.com/oshokin/jdkget/cmd/jdkget/cmd"

func main() {
	cmd.Execute()
}
