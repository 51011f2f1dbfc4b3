// Command local runs the application with fixed development settings, a
// local database in the working directory and a server on 0.0.0.0:5000.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/eugenenazirov/appboot/internal/bootstrap"
	"github.com/eugenenazirov/appboot/internal/config"
)

func main() {
	if err := bootstrap.Run(context.Background(), config.FromOS(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "local bootstrap failed: %v\n", err)
		os.Exit(1)
	}
}
