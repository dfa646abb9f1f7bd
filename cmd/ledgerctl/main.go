package main

import "github.com/garyjia/luxegem-ledger/internal/cli"

func main() {
	cli.Execute()
}
