// Copyright 2026 Shopthread Ltd.
// SPDX-License-Identifier: AGPL-3.0

package main

import "github.com/shopthread/community-service/cmd"

func main() {
	cmd.Execute()
}
