// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

// Command spunwrapd runs one synthetic-password unwrap for a single user
// and exits. It is invoked once per boot per user by the recovery
// environment; it does not enroll or change credentials.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/vaultgate/spunwrap/pkg/hwsvc"
	"github.com/vaultgate/spunwrap/pkg/keystoreinfo"
	"github.com/vaultgate/spunwrap/pkg/log"
	"github.com/vaultgate/spunwrap/pkg/log/flags"
	"github.com/vaultgate/spunwrap/pkg/unwrap"
)

var (
	dataDir    = flag.String("data", "/data", "root directory standing in for /data")
	uid        = flag.Int("uid", 0, "Android user id to unlock")
	credential = flag.String("credential", unwrap.DefaultCredential, `user credential, or "!" for default-password`)
	probeOnly  = flag.Bool("probe", false, "print the credential type for -uid and exit, without unlocking")
	dbPath     = flag.String("db", "/data/misc/spunwrap/keystoreinfo", "keystoreinfo bitcask db path")
	logFile    = flag.String("logfile", "", "additional file to log to, if set")

	weaverEP        = flag.String("weaver", "unix:///dev/socket/weaver", "weaver service dial target")
	gatekeeperEP    = flag.String("gatekeeper", "unix:///dev/socket/gatekeeperd", "gatekeeper service dial target")
	keystoreEP      = flag.String("keystore", "unix:///dev/socket/keystore2", "keystore service dial target")
	authorizationEP = flag.String("authorization", "unix:///dev/socket/authsecret", "authorization service dial target")
)

func main() {
	log.SetFatalAction(log.FailAction{Terminator: func() { os.Exit(1) }})
	log.AddConsoleLog(flags.NA)
	flag.Parse()
	if *logFile != "" {
		if err := log.AddFileLog(*logFile); err != nil {
			log.Fatalf("add file log: %s", err)
		}
	}
	defer log.Finalize()

	if *probeOnly {
		res, err := unwrap.Probe(*dataDir, *uid)
		if err != nil {
			log.Fatalf("probe: %s", err)
		}
		log.Msgf("uid %d: %s (legacy handle %q)", *uid, res.Type, res.LegacyHandle)
		return
	}

	store, err := keystoreinfo.Open(*dbPath)
	if err != nil {
		log.Fatalf("open keystoreinfo: %s", err)
	}
	defer store.Close()

	eng := unwrap.NewEngine(unwrap.Config{
		DataDir: *dataDir,
		Endpoints: hwsvc.Endpoints{
			Weaver:        *weaverEP,
			Gatekeeper:    *gatekeeperEP,
			Keystore:      *keystoreEP,
			Authorization: *authorizationEP,
		},
	}, store, nil, nil)

	ctx := context.Background()
	if err := eng.Init(ctx); err != nil {
		log.Fatalf("init: %s", err)
	}
	defer eng.Shutdown()

	if err := eng.Unlock(ctx, *uid, *credential); err != nil {
		if e, ok := unwrap.AsError(err); ok {
			log.FlaggedLogf(flags.EndUser|flags.Fatal, "unlock uid %d failed: %s", *uid, e.Kind)
		}
		os.Exit(1)
	}
	// No CEUnlocker is wired here, so Unlock never called UnlockCEStorage or
	// PrepareUserStorage: this process only ever recovers the FBE secret and
	// hands it to nothing. Say so, rather than "unlocked", so an operator
	// reading this log doesn't assume storage was actually mounted.
	log.Msgf("uid %d: fbe secret recovered (no CEUnlocker wired, storage not mounted)", *uid)
}
