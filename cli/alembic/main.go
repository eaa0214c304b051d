package main

import (
	"os"

	alembiccmder "github.com/hexlockco/alembic/cmd/alembic"
)

func main() {
	cmd := alembiccmder.NewAlembicCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
