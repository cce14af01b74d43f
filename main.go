// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/respath/respath/cmd/respath"

func main() {
	cmd.Execute()
}
