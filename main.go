// Copyright 2025 The GeoBel Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/tvervier/geobel/cmd"
)

var Version = "development"

func main() {
	cmd.Execute(Version)
}
