package emulator

import (
	"fmt"
	"strings"

	"github.com/gabapcia/ledgertest/internal/blockchain"
)

// resolveImports rewrites quoted import-location placeholders in source code
// to the concrete addresses of the given configuration. A source line like
//
//	import Counter from "counter-contract"
//
// becomes, with "counter-contract" mapped to 0x01,
//
//	import Counter from 0x01
//
// Locations absent from the configuration are left untouched, which lets
// the program lookup report them as unknown. Resolution is applied before
// every script, transaction and contract lookup.
func resolveImports(code string, cfg blockchain.Configuration) string {
	for location, address := range cfg.Addresses {
		placeholder := fmt.Sprintf("%q", location)
		code = strings.ReplaceAll(code, placeholder, address)
	}
	return code
}
