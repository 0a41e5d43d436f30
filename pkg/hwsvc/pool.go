// Copyright (C) 2021-2026 the Spunwrap Authors. All Rights Reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.
//
// SPDX-License-Identifier: BSD-3-Clause
//

package hwsvc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/vaultgate/spunwrap/pkg/log"
)

// Endpoints names the four dial targets a Pool connects to.
type Endpoints struct {
	Weaver        string
	Gatekeeper    string
	Keystore      string
	Authorization string
}

// Pool is the set of hardware-service capabilities the orchestrator needs,
// dialed once and reused for the process lifetime.
type Pool struct {
	Weaver        Weaver
	Gatekeeper    Gatekeeper
	Keystore      Keystore
	Authorization Authorization
}

const dialTimeout = 10 * time.Second

// keystoreReadyPollInterval and keystoreReadyMaxAttempts bound how long
// NewPool waits for the keystore daemon to come up before giving up. The
// daemon is spawned lazily by init and can take a few seconds on a cold
// boot.
const (
	keystoreReadyPollInterval = time.Second
	keystoreReadyMaxAttempts  = 50
)

// NewPool dials all four services concurrently. Weaver, Gatekeeper, and
// Authorization are dialed once each; Keystore is retried at
// keystoreReadyPollInterval up to keystoreReadyMaxAttempts times, since the
// keystore daemon is the one service commonly not yet listening this early
// in boot.
func NewPool(ctx context.Context, ep Endpoints) (*Pool, error) {
	p := &Pool{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		w, err := NewWeaverClient(gctx, ep.Weaver, dialTimeout)
		if err != nil {
			return errors.Wrap(err, "dial weaver")
		}
		p.Weaver = w
		return nil
	})
	g.Go(func() error {
		gk, err := NewGatekeeperClient(gctx, ep.Gatekeeper, dialTimeout)
		if err != nil {
			return errors.Wrap(err, "dial gatekeeper")
		}
		p.Gatekeeper = gk
		return nil
	})
	g.Go(func() error {
		a, err := NewAuthorizationClient(gctx, ep.Authorization, dialTimeout)
		if err != nil {
			return errors.Wrap(err, "dial authorization")
		}
		p.Authorization = a
		return nil
	})
	g.Go(func() error {
		ks, err := dialKeystoreWithRetry(gctx, ep.Keystore)
		if err != nil {
			return err
		}
		p.Keystore = ks
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p, nil
}

func dialKeystoreWithRetry(ctx context.Context, endpoint string) (Keystore, error) {
	var lastErr error
	for attempt := 1; attempt <= keystoreReadyMaxAttempts; attempt++ {
		ks, err := NewKeystoreClient(ctx, endpoint, dialTimeout)
		if err == nil {
			return ks, nil
		}
		lastErr = err
		log.FlaggedLogf(0, "keystore not ready (attempt %d/%d): %s", attempt, keystoreReadyMaxAttempts, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(keystoreReadyPollInterval):
		}
	}
	return nil, errors.Wrapf(lastErr, "keystore daemon never became ready after %d attempts", keystoreReadyMaxAttempts)
}
