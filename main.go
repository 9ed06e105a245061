// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/globdeck/globdeck/cmd/globdeck"

func main() {
	cmd.Execute()
}
