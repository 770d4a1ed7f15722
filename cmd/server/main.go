// Command mealledger runs the meal ledger server and its admin tasks.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
