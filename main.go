// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/twist/twistconfig/cmd/twistconfig"

func main() {
	cmd.Execute()
}
