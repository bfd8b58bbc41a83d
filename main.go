package main

import "github.com/CodexEmmzy/solpay/cmd"

func main() {
	cmd.Execute()
}
