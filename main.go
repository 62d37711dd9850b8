package main

import (
	"github.com/Investorold/arcshield-sub000/cmd"
)

func main() {
	cmd.Execute()
}
