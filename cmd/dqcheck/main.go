// dqcheck runs the data-quality operations over JSON record files.
//
// Usage:
//
//	dqcheck validate --entity-type=citizen [--rules=rules.yaml] records.json
//	dqcheck cleanse  --entity-type=citizen records.json
//	dqcheck enrich   records.json
//	dqcheck batch    --entity-type=business --database-url=postgres://... records.json
//
// A file holds one record object or an array of them; "-" reads stdin.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
