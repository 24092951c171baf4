// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"os"

	"github.com/ava-labs/counterprogram/cmd/counter-cli/cmd"
	"github.com/ava-labs/counterprogram/utils"
)

func main() {
	if err := cmd.Execute(context.Background(), os.Args); err != nil {
		utils.Outf("{{red}}error: {{/}}%+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
