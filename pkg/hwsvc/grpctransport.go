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
	"google.golang.org/grpc"
)

// dialCallOpt selects the gob codec registered in codec.go on every call
// made over a connection dialed by dial.
var dialCallOpt = grpc.WithDefaultCallOptions(grpc.CallContentSubtype(gobCodecName))

// dial opens a grpc.ClientConn to endpoint, blocking until the connection is
// ready or timeout elapses. Grounded on the pblog.AddPBLog dial pattern:
// grpc.WithInsecure() plus grpc.WithBlock() under a bounded context. These
// hardware services run as local daemons reachable only from within the
// device, so the connection is never carried over an untrusted network.
func dial(ctx context.Context, endpoint string, timeout time.Duration) (*grpc.ClientConn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	conn, err := grpc.DialContext(dialCtx, endpoint,
		grpc.WithInsecure(),
		grpc.WithBlock(),
		dialCallOpt,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "dial %s", endpoint)
	}
	return conn, nil
}

// weaverKeySizeReq and friends are the gob wire messages exchanged with the
// four hardware services. Method names below are arbitrary strings, since
// this is a hand-rolled RPC surface rather than one generated from a .proto
// file -- see codec.go.
type (
	weaverKeySizeReq  struct{}
	weaverKeySizeResp struct{ Size uint32 }

	weaverVerifyReq struct {
		Slot uint32
		Key  []byte
	}
	weaverVerifyResp struct {
		Status    int
		Payload   []byte
		TimeoutMs int64
	}

	gkVerifyReq struct {
		FakeUserID uint32
		Handle     []byte
		Token      []byte
	}
	gkVerifyResp struct {
		Status    int
		AuthToken []byte
		TimeoutMs int64
	}

	ksGetKeyReq struct{ Alias string }
	ksGetKeyResp struct {
		Found     bool
		ErrClass  int
		ErrString string
	}

	ksDecryptReq struct {
		Alias             string
		IV                []byte
		AAD               []byte
		CiphertextWithTag []byte
	}
	ksDecryptResp struct {
		ErrClass  int
		ErrString string
		Plaintext []byte
	}

	authAddTokenReq struct{ Token []byte }
	authAddTokenResp struct{}
)

// grpcWeaver is the Weaver capability backed by a grpc.ClientConn.
type grpcWeaver struct{ conn *grpc.ClientConn }

// NewWeaverClient dials endpoint and returns a Weaver bound to it.
func NewWeaverClient(ctx context.Context, endpoint string, timeout time.Duration) (Weaver, error) {
	conn, err := dial(ctx, endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &grpcWeaver{conn: conn}, nil
}

func (w *grpcWeaver) KeySize(ctx context.Context) (uint32, error) {
	var resp weaverKeySizeResp
	if err := w.conn.Invoke(ctx, "/hwsvc.Weaver/KeySize", &weaverKeySizeReq{}, &resp); err != nil {
		return 0, errors.Wrap(err, "weaver KeySize")
	}
	return resp.Size, nil
}

func (w *grpcWeaver) Verify(ctx context.Context, slot uint32, key []byte) (WeaverResult, error) {
	var resp weaverVerifyResp
	req := &weaverVerifyReq{Slot: slot, Key: key}
	if err := w.conn.Invoke(ctx, "/hwsvc.Weaver/Verify", req, &resp); err != nil {
		return WeaverResult{}, errors.Wrap(err, "weaver Verify")
	}
	return WeaverResult{
		Status:  WeaverStatus(resp.Status),
		Payload: resp.Payload,
		Timeout: time.Duration(resp.TimeoutMs) * time.Millisecond,
	}, nil
}

// grpcGatekeeper is the Gatekeeper capability backed by a grpc.ClientConn.
type grpcGatekeeper struct{ conn *grpc.ClientConn }

// NewGatekeeperClient dials endpoint and returns a Gatekeeper bound to it.
func NewGatekeeperClient(ctx context.Context, endpoint string, timeout time.Duration) (Gatekeeper, error) {
	conn, err := dial(ctx, endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &grpcGatekeeper{conn: conn}, nil
}

func (g *grpcGatekeeper) Verify(ctx context.Context, fakeUserID uint32, handle, gkPasswordToken []byte) (GkResult, error) {
	var resp gkVerifyResp
	req := &gkVerifyReq{FakeUserID: fakeUserID, Handle: handle, Token: gkPasswordToken}
	if err := g.conn.Invoke(ctx, "/hwsvc.Gatekeeper/Verify", req, &resp); err != nil {
		return GkResult{}, errors.Wrap(err, "gatekeeper Verify")
	}
	return GkResult{
		Status:    GkStatus(resp.Status),
		AuthToken: resp.AuthToken,
		Timeout:   time.Duration(resp.TimeoutMs) * time.Millisecond,
	}, nil
}

// grpcKeystore is the Keystore capability backed by a grpc.ClientConn.
type grpcKeystore struct{ conn *grpc.ClientConn }

// NewKeystoreClient dials endpoint and returns a Keystore bound to it.
func NewKeystoreClient(ctx context.Context, endpoint string, timeout time.Duration) (Keystore, error) {
	conn, err := dial(ctx, endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &grpcKeystore{conn: conn}, nil
}

func (k *grpcKeystore) GetKey(ctx context.Context, alias string) (KeyHandle, error) {
	var resp ksGetKeyResp
	if err := k.conn.Invoke(ctx, "/hwsvc.Keystore/GetKey", &ksGetKeyReq{Alias: alias}, &resp); err != nil {
		return nil, errors.Wrap(err, "keystore GetKey")
	}
	if !resp.Found {
		return nil, &KeystoreError{Class: KeystoreNotFound, Err: errors.Errorf("no entry for alias %q", alias)}
	}
	if KeystoreErrorClass(resp.ErrClass) != KeystoreOK {
		return nil, &KeystoreError{Class: KeystoreErrorClass(resp.ErrClass), Err: errors.New(resp.ErrString)}
	}
	return &grpcKeyHandle{conn: k.conn, alias: alias}, nil
}

// grpcKeyHandle is the KeyHandle returned by grpcKeystore.GetKey. It carries
// only the alias, not key material -- decrypt happens keystore-side.
type grpcKeyHandle struct {
	conn  *grpc.ClientConn
	alias string
}

func (h *grpcKeyHandle) Decrypt(ctx context.Context, iv, aad, ciphertextWithTag []byte) ([]byte, error) {
	var resp ksDecryptResp
	req := &ksDecryptReq{Alias: h.alias, IV: iv, AAD: aad, CiphertextWithTag: ciphertextWithTag}
	if err := h.conn.Invoke(ctx, "/hwsvc.Keystore/Decrypt", req, &resp); err != nil {
		return nil, errors.Wrap(err, "keystore Decrypt")
	}
	if KeystoreErrorClass(resp.ErrClass) != KeystoreOK {
		return nil, &KeystoreError{Class: KeystoreErrorClass(resp.ErrClass), Err: errors.New(resp.ErrString)}
	}
	return resp.Plaintext, nil
}

// grpcAuthorization is the Authorization capability backed by a
// grpc.ClientConn.
type grpcAuthorization struct{ conn *grpc.ClientConn }

// NewAuthorizationClient dials endpoint and returns an Authorization bound
// to it.
func NewAuthorizationClient(ctx context.Context, endpoint string, timeout time.Duration) (Authorization, error) {
	conn, err := dial(ctx, endpoint, timeout)
	if err != nil {
		return nil, err
	}
	return &grpcAuthorization{conn: conn}, nil
}

func (a *grpcAuthorization) AddAuthToken(ctx context.Context, token *AuthToken) error {
	var resp authAddTokenResp
	req := &authAddTokenReq{Token: token.Bytes()}
	if err := a.conn.Invoke(ctx, "/hwsvc.Authorization/AddAuthToken", req, &resp); err != nil {
		return errors.Wrap(err, "authorization AddAuthToken")
	}
	return nil
}
