package main

import "github.com/ardanlabs/starledger/app/wallet/cli/cmd"

func main() {
	cmd.Execute()
}
