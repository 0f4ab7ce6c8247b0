// Command create-starter-kit scaffolds front-end projects from curated
// framework starter kits.
package main

import (
	"os"

	"github.com/juanfont/create-starter-kit/cli"
)

func main() {
	os.Exit(cli.Execute())
}
