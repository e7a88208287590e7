// cra-watch compiles a create-react-app project in watch mode and reports
// asset sizes after every rebuild.
package main

import (
	"os"

	"github.com/viankakrisna/create-react-app-extra/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
