/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command routesctl inspects and serves the route configuration of a
// routestore application.
package main

import (
	"context"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
