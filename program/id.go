// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package program

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
)

// CounterID is the id hosts register [Handle] under.
var CounterID = ids.ID(hashing.ComputeHash256Array([]byte("counter")))
