package main

import "github.com/yext/vampire/cmd"

func main() {
	cmd.Execute()
}
