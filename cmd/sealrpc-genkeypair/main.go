// Copyright (C) 2024-2026, Sealrpc Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"log"

	"github.com/sealrpc/sealrpc"
)

func main() {
	priv, pub, err := sealrpc.GenKeyPair()
	if err != nil {
		log.Fatalf("Could not generate keypair: %s", err)
	}
	fmt.Printf("Private key: %s\n", priv)
	fmt.Printf("Public key:  %s\n", pub)
	fmt.Println("Tip:         Both keys are encoded in base64 format with a one-character key type prefix")
}
