// catalogoctl runs operator tasks against the catalogue database.
package main

import "catalogo/cmd/catalogoctl/commands"

func main() {
	commands.Execute()
}
